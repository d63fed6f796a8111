// Command parse_resume parses resume files from the command line.
//
// By default it prints each parsed record and touches nothing else. With
// --dry-run=false the records are stored in the database, and with --server
// the files are posted to a running API instead.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"resume-parser/internal/config"
	"resume-parser/internal/cv"
	"resume-parser/internal/logger"
	"resume-parser/internal/storage"
	rphttp "resume-parser/pkg/http"
)

type options struct {
	dryRun    bool
	tenantID  string
	serverURL string
	skills    string
	jobRoles  string
	locations string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "parse_resume [files...]",
		Short: "Parse resumes into candidate records",
		Long:  "Parse PDF, DOC or DOCX resumes and print, store or upload the extracted candidate records.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.serverURL != "" {
				return runRemote(cmd.Context(), cmd.OutOrStdout(), opts, args)
			}
			return runLocal(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", true, "If true, do not persist records; just print them")
	cmd.Flags().StringVar(&opts.tenantID, "tenant", "", "Tenant ID for stored candidates (default from DEFAULT_TENANT_ID)")
	cmd.Flags().StringVar(&opts.serverURL, "server", "", "Post files to a running API at this base URL instead of parsing locally")
	cmd.Flags().StringVar(&opts.skills, "skills", "", "Skills reference table (overrides SKILLS_FILE)")
	cmd.Flags().StringVar(&opts.jobRoles, "job-roles", "", "Job role reference table (overrides JOB_ROLES_FILE)")
	cmd.Flags().StringVar(&opts.locations, "locations", "", "Location gazetteer table (overrides LOCATIONS_FILE)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Per-file timeout when posting to --server")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runLocal(ctx context.Context, out io.Writer, opts *options, files []string) error {
	cfg := config.LoadConfig()
	logger.InitWithWriter(logger.Config{Level: cfg.LogLevel, Format: "pretty"}, os.Stderr)

	skills, jobRoles, locations := cfg.SkillsFile, cfg.JobRolesFile, cfg.LocationsFile
	if opts.skills != "" {
		skills = opts.skills
	}
	if opts.jobRoles != "" {
		jobRoles = opts.jobRoles
	}
	if opts.locations != "" {
		locations = opts.locations
	}
	ref, err := cv.LoadReference(skills, jobRoles, locations)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	processor := cv.NewProcessor(cv.NewExtractor(cv.NewProseAnnotator(), ref))

	var db *storage.DB
	if !opts.dryRun {
		if err := cfg.Validate(); err != nil {
			return err
		}
		db, err = storage.NewDB(cfg.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		defer db.Close()
	}

	tenantID := opts.tenantID
	if tenantID == "" {
		tenantID = cfg.DefaultTenantID
	}

	failed := 0
	for _, path := range files {
		rec, err := processor.Process(ctx, path)
		if err != nil {
			logger.Error().Err(err).Str("file", path).Msg("parse failed")
			failed++
			continue
		}

		data, err := rec.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", data)

		if db == nil {
			continue
		}
		id, err := db.SaveCandidate(ctx, rec, tenantID)
		if err != nil {
			logger.Error().Err(err).Str("file", path).Msg("save failed")
			failed++
			continue
		}
		logger.Info().Str("file", path).Str("candidate_id", id).Msg("candidate stored")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func runRemote(ctx context.Context, out io.Writer, opts *options, files []string) error {
	client := rphttp.NewClient(opts.serverURL, opts.timeout)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("server %s: %w", opts.serverURL, err)
	}

	failed := 0
	for _, path := range files {
		res, err := client.UploadFile(ctx, path, opts.tenantID)
		if err != nil {
			fmt.Fprintf(out, "%s\terror\t%v\n", path, err)
			failed++
			continue
		}
		if !res.OK() {
			fmt.Fprintf(out, "%s\t%d\t%s\n", path, res.StatusCode, res.Error)
			failed++
			continue
		}
		fmt.Fprintf(out, "%s\t%d\t%s\n", path, res.StatusCode, res.CandidateID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
