package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const DefaultTenantID = "default_tenant_id"

type Config struct {
	// Database: either DatabaseURL or the individual parts
	DatabaseURL      string
	DatabaseName     string `validate:"required_without=DatabaseURL"`
	DatabaseUser     string `validate:"required_without=DatabaseURL"`
	DatabasePassword string
	DatabaseHost     string `validate:"required_without=DatabaseURL"`
	DatabasePort     int    `validate:"min=1,max=65535"`
	DatabaseSSLMode  string `validate:"oneof=disable require verify-ca verify-full"`

	// HTTP
	Port        int   `validate:"min=1,max=65535"`
	MaxUploadMB int64 `validate:"min=1"`

	// Uploads
	UploadsDir  string `validate:"required"`
	KeepUploads bool

	// Reference data
	SkillsFile    string `validate:"required"`
	JobRolesFile  string `validate:"required"`
	LocationsFile string `validate:"required"`

	DefaultTenantID string `validate:"required"`

	// Logging
	LogLevel  string
	LogFormat string `validate:"oneof=json pretty"`
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Debug().Err(err).Msg("no .env in working directory, trying parent directory")
		if err = godotenv.Load("../../.env"); err != nil {
			log.Debug().Msg("no .env file found, using environment variables")
		}
	}

	return &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabaseName:     os.Getenv("DATABASE_NAME"),
		DatabaseUser:     os.Getenv("DATABASE_USER"),
		DatabasePassword: os.Getenv("DATABASE_PASSWORD"),
		DatabaseHost:     envOr("DATABASE_HOST", "localhost"),
		DatabasePort:     envInt("DATABASE_PORT", 5432),
		DatabaseSSLMode:  envOr("DATABASE_SSLMODE", "disable"),
		Port:             envInt("PORT", 8080),
		MaxUploadMB:      int64(envInt("MAX_UPLOAD_MB", 10)),
		UploadsDir:       envOr("UPLOADS_DIR", "./uploads"),
		KeepUploads:      envBool("KEEP_UPLOADS", false),
		SkillsFile:       envOr("SKILLS_FILE", "data/skills.csv"),
		JobRolesFile:     envOr("JOB_ROLES_FILE", "data/job_role.csv"),
		LocationsFile:    envOr("LOCATIONS_FILE", "data/locations.csv"),
		DefaultTenantID:  envOr("DEFAULT_TENANT_ID", DefaultTenantID),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "json"),
	}
}

// Validate checks field constraints declared in the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DSN returns DatabaseURL when set, otherwise a postgres:// URL built from the parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DatabaseHost, strconv.Itoa(c.DatabasePort)),
		Path:   "/" + c.DatabaseName,
	}
	if c.DatabasePassword != "" {
		u.User = url.UserPassword(c.DatabaseUser, c.DatabasePassword)
	} else {
		u.User = url.User(c.DatabaseUser)
	}
	q := url.Values{}
	q.Set("sslmode", c.DatabaseSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("not a boolean, using default")
		return def
	}
	return b
}
