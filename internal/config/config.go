// Package config loads hygiene settings from .env, an optional YAML file
// and HYGIENE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nexuscrm/hygiene/internal/infrastructure/database"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// EnvPrefix prefixes every environment override, e.g. HYGIENE_SERVER_PORT
const EnvPrefix = "HYGIENE"

// Config holds every runtime setting
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Profile  string         `mapstructure:"profile"`
	Workers  int            `mapstructure:"workers"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the REST server
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig is the connection plus the CRM table runs read from
type DatabaseConfig struct {
	database.Config `mapstructure:",squash"`
	Table           string `mapstructure:"table"`
}

// ScheduleConfig enables periodic runs; an empty Cron disables them.
// Source is "table" or the path of a CSV/JSON file.
type ScheduleConfig struct {
	Cron   string `mapstructure:"cron"`
	Source string `mapstructure:"source"`
}

// AuthConfig protects the API; an empty secret disables auth
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// OutboxConfig tunes the alert outbox worker
type OutboxConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// NotifyConfig configures alert notifiers beyond the log
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: constants.DefaultServerPort},
		Database: DatabaseConfig{
			Config: database.Config{Port: constants.DefaultDatabasePort, Name: constants.DefaultDatabaseName},
			Table:  constants.DefaultSourceTable,
		},
		Schedule: ScheduleConfig{Source: constants.SourceTable},
		Workers:  constants.DefaultWorkers,
		Outbox:   OutboxConfig{Interval: constants.DefaultOutboxInterval},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.port", defaults.Server.Port)

	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.name", defaults.Database.Name)
	v.SetDefault("database.table", defaults.Database.Table)

	v.SetDefault("schedule.cron", defaults.Schedule.Cron)
	v.SetDefault("schedule.source", defaults.Schedule.Source)

	v.SetDefault("profile", defaults.Profile)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("auth.jwt_secret", defaults.Auth.JWTSecret)
	v.SetDefault("outbox.interval", defaults.Outbox.Interval)
	v.SetDefault("notify.webhook_url", defaults.Notify.WebhookURL)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// legacyEnv lets the TIDB_* variables used by existing NexusCRM deployments
// configure the database.
var legacyEnv = map[string]string{
	"database.host":     "TIDB_HOST",
	"database.port":     "TIDB_PORT",
	"database.user":     "TIDB_USER",
	"database.password": "TIDB_PASSWORD",
	"database.name":     "TIDB_DATABASE",
}

// NewViper loads envFile (when present) and configFile (when set) into a
// fresh viper instance with defaults and environment overrides.
func NewViper(envFile, configFile string) (*viper.Viper, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Outbox.Interval <= 0 {
		return fmt.Errorf("outbox.interval must be positive, got %s", c.Outbox.Interval)
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Schedule.Source != constants.SourceTable {
		switch strings.ToLower(filepath.Ext(c.Schedule.Source)) {
		case ".csv", ".json":
		default:
			return fmt.Errorf("schedule.source must be %q or a .csv/.json path, got %q", constants.SourceTable, c.Schedule.Source)
		}
	}
	return nil
}
