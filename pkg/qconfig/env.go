package qconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qlog"
	"github.com/quatton/qstage/pkg/qstage"
)

// EnvConfig configures the HTTP server. Every variable is read with the
// QSTAGE_ prefix, e.g. QSTAGE_PORT.
type EnvConfig struct {
	Port          string `envconfig:"PORT" default:"3000"`
	Environment   string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	StrictRestart bool   `envconfig:"RESTART_STRICT" default:"false"`
	Template      string `envconfig:"TEMPLATE"`
	CodeID        string `envconfig:"CODE" default:"lammps"`
	Backend       string `envconfig:"BACKEND" default:"s3"`

	// File names inside the job working directory. Empty means the default.
	NamesInput       string `envconfig:"NAMES_INPUT"`
	NamesStructure   string `envconfig:"NAMES_STRUCTURE"`
	NamesPotential   string `envconfig:"NAMES_POTENTIAL"`
	NamesLog         string `envconfig:"NAMES_LOG"`
	NamesOutput      string `envconfig:"NAMES_OUTPUT"`
	NamesTrajectory  string `envconfig:"NAMES_TRAJECTORY"`
	NamesVariables   string `envconfig:"NAMES_VARIABLES"`
	NamesRestart     string `envconfig:"NAMES_RESTART"`
	NamesReadRestart string `envconfig:"NAMES_READ_RESTART"`
	NamesStderr      string `envconfig:"NAMES_STDERR"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"qstage"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"false"`

	ValkeyAddr     string        `envconfig:"VALKEY_ADDR"`
	ValkeyPassword string        `envconfig:"VALKEY_PASSWORD"`
	ValkeyDB       int           `envconfig:"VALKEY_DB" default:"0"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"168h"`
	ClaimTTL       time.Duration `envconfig:"CLAIM_TTL" default:"6h"`
}

func isDev() bool {
	env := os.Getenv(EnvPrefix + "_ENVIRONMENT")
	return env == "" || env == "development"
}

// LoadEnv reads and validates the server environment. In development a .env
// file in the working directory is loaded first.
func LoadEnv(logger *qlog.Logger) (*EnvConfig, error) {
	if logger == nil {
		logger = qlog.NewQuiet()
	}
	if isDev() {
		if err := godotenv.Load(); err != nil {
			logger.Info("No .env file found")
		} else {
			logger.Info("Loaded .env file")
		}
	}

	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, qerr.New(qerr.CodeConfiguration, fmt.Errorf("failed to load environment variables: %w", err))
	}

	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		errors = append(errors, "  ❌ PORT must be a number between 1 and 65535")
	}

	if cfg.S3Endpoint != "" && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		errors = append(errors, "  ❌ S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	if cfg.ValkeyDB < 0 {
		errors = append(errors, "  ❌ VALKEY_DB must not be negative")
	}

	if cfg.CacheTTL < 0 || cfg.ClaimTTL < 0 {
		errors = append(errors, "  ❌ CACHE_TTL and CLAIM_TTL must not be negative")
	}

	if _, err := qlog.ParseLevel(cfg.LogLevel); err != nil {
		errors = append(errors, "  ❌ LOG_LEVEL must be one of debug, info, warn, error")
	}

	if err := cfg.FileNames().Validate(); err != nil {
		errors = append(errors, "  ❌ NAMES_READ_RESTART must not be "+qstage.ParentRestartFilename)
	}

	if len(errors) > 0 {
		return nil, qerr.Errorf(qerr.CodeConfiguration, "environment validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return &cfg, nil
}

// FileNames returns the configured file names with defaults filled in.
func (c *EnvConfig) FileNames() qstage.FileNames {
	return qstage.FileNames{
		Input:       c.NamesInput,
		Structure:   c.NamesStructure,
		Potential:   c.NamesPotential,
		Log:         c.NamesLog,
		Output:      c.NamesOutput,
		Trajectory:  c.NamesTrajectory,
		Variables:   c.NamesVariables,
		Restart:     c.NamesRestart,
		ReadRestart: c.NamesReadRestart,
		Stderr:      c.NamesStderr,
	}.WithDefaults()
}

// S3 returns the object store settings, or nil when none are configured.
func (c *EnvConfig) S3() *S3Config {
	if c.S3Endpoint == "" {
		return nil
	}
	return &S3Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		UseSSL:    c.S3UseSSL,
	}
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(fmtr func(string, ...any)) {
	fmtr("📋 Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Log level: %s\n", c.LogLevel)
	fmtr("  Strict restart: %t\n", c.StrictRestart)
	fmtr("  Code: %s (backend %s)\n", c.CodeID, c.Backend)
	fmtr("  Log file: %s\n", c.FileNames().Log)

	if c.Template != "" {
		fmtr("  Template: %s\n", c.Template)
	} else {
		fmtr("  Template: built-in\n")
	}

	if c.S3Endpoint != "" {
		fmtr("  Object store: ✓ %s/%s (ssl=%t)\n", c.S3Endpoint, c.S3Bucket, c.S3UseSSL)
		fmtr("    Access key: %s\n", MaskSecret(c.S3AccessKey))
		fmtr("    Secret key: %s\n", MaskSecret(c.S3SecretKey))
	} else {
		fmtr("  Object store: ✗ Disabled\n")
	}

	if c.ValkeyAddr != "" {
		fmtr("  Result cache: ✓ valkey %s/%d (ttl=%s)\n", c.ValkeyAddr, c.ValkeyDB, c.CacheTTL)
		fmtr("    Password: %s\n", MaskSecret(c.ValkeyPassword))
	} else {
		fmtr("  Result cache: in memory (ttl=%s)\n", c.CacheTTL)
	}
}
