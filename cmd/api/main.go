package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "resume-parser/docs" // Swagger docs
	"resume-parser/internal/api"
	"resume-parser/internal/config"
	"resume-parser/internal/cv"
	"resume-parser/internal/logger"
	"resume-parser/internal/storage"
)

// @title Resume Parser API
// @version 1.0
// @description Parses uploaded resumes into candidate records and stores them per tenant

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

func main() {
	cfg := config.LoadConfig()

	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}

	ref, err := cv.LoadReference(cfg.SkillsFile, cfg.JobRolesFile, cfg.LocationsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load reference data")
	}
	logger.Info().
		Int("skills", len(ref.Skills)).
		Int("job_roles", len(ref.JobRoles)).
		Int("places", ref.Places.Len()).
		Msg("reference data loaded")

	processor := cv.NewProcessor(cv.NewExtractor(cv.NewProseAnnotator(), ref))

	logger.Info().Str("host", cfg.DatabaseHost).Msg("connecting to database")
	db, err := storage.NewDB(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("db open")
	}
	defer db.Close()
	logger.Info().Msg("database connected")

	apiSrv := api.NewAPI(db, cv.NewCVParser(cfg.UploadsDir, cfg.KeepUploads), processor, api.Options{
		DefaultTenantID: cfg.DefaultTenantID,
		MaxUploadMB:     cfg.MaxUploadMB,
	})
	router := api.NewRouter(apiSrv)

	port := strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // file uploads
		WriteTimeout: 2 * time.Minute,  // NLP tagging of long documents
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
		close(idleConnsClosed)
	}()

	logger.Info().Str("port", port).Msg("API server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server")
	}

	<-idleConnsClosed
}
