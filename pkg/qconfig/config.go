// Package qconfig loads qstage configuration from project files, local
// overrides and the environment.
package qconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qlog"
	"github.com/quatton/qstage/pkg/qstage"
)

const (
	EnvPrefix  = "QSTAGE"
	ConfigRoot = ".qstage"
)

// Config is the CLI configuration.
type Config struct {
	// CodeID is the executable jobs are started with.
	CodeID string `mapstructure:"code"`
	// Backend identifies where parent folders are read from.
	Backend  string           `mapstructure:"backend"`
	Template string           `mapstructure:"template"`
	Names    qstage.FileNames `mapstructure:"names"`
	Restart  RestartConfig    `mapstructure:"restart"`
	Log      LogConfig        `mapstructure:"log"`
	S3       S3Config         `mapstructure:"s3"`
	Valkey   ValkeyConfig     `mapstructure:"valkey"`

	v *viper.Viper
}

type RestartConfig struct {
	// Strict rejects jobs that give both a restart file and a parent folder.
	Strict bool `mapstructure:"strict"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type ValkeyConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LoadConfig reads cfgFile, or qstage.yaml merged with .qstage/config.yaml
// when cfgFile is empty. QSTAGE_* environment variables override both.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, qerr.New(qerr.CodeConfiguration, fmt.Errorf("reading config file %s: %w", cfgFile, err))
		}
	} else {
		// Project config, tracked
		for _, name := range []string{"qstage.yaml", "qstage.yml", ".qstage.yaml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err != nil {
					return nil, qerr.New(qerr.CodeConfiguration, fmt.Errorf("reading %s: %w", name, err))
				}
				break
			}
		}

		// Local overrides, untracked
		localConfigPath := filepath.Join(ConfigRoot, "config.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, qerr.New(qerr.CodeConfiguration, fmt.Errorf("merging local config: %w", err))
			}
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, qerr.New(qerr.CodeConfiguration, fmt.Errorf("unmarshaling config: %w", err))
	}
	cfg.Names = cfg.Names.WithDefaults()
	if err := cfg.Names.Validate(); err != nil {
		return nil, err
	}
	if _, err := qlog.ParseLevel(cfg.Log.Level); err != nil {
		return nil, qerr.New(qerr.CodeConfiguration, err)
	}

	cfg.v = v
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	names := qstage.DefaultFileNames()
	for key, value := range map[string]string{
		"names.input":        names.Input,
		"names.structure":    names.Structure,
		"names.potential":    names.Potential,
		"names.log":          names.Log,
		"names.output":       names.Output,
		"names.trajectory":   names.Trajectory,
		"names.variables":    names.Variables,
		"names.restart":      names.Restart,
		"names.read_restart": names.ReadRestart,
		"names.stderr":       names.Stderr,
	} {
		v.SetDefault(key, value)
	}

	v.SetDefault("code", "lammps")
	v.SetDefault("backend", "localhost")
	v.SetDefault("template", "")
	v.SetDefault("restart.strict", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.bucket", "qstage")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", false)

	v.SetDefault("valkey.addr", "")
	v.SetDefault("valkey.password", "")
	v.SetDefault("valkey.db", 0)
	v.SetDefault("valkey.prefix", "qstage:")
	v.SetDefault("valkey.ttl", "168h")
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() slog.Level {
	level, _ := qlog.ParseLevel(c.Log.Level)
	return level
}

// S3Enabled reports whether an object store is configured.
func (c *Config) S3Enabled() bool {
	return c.S3.Endpoint != ""
}

// ValkeyEnabled reports whether a result cache is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.Valkey.Addr != ""
}

// GetString returns a raw value, e.g. for flags bound after loading.
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// ConfigFileUsed returns the config file that was read, if any.
func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}
