// Package config loads worklens settings from worklens.yaml and
// WORKLENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings.
type Config struct {
	Database DatabaseConfig
	Query    QueryConfig
	Log      LogConfig
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string
}

// QueryConfig bounds and anchors query execution.
type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
	Timezone     string
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: "worklens.db"},
		Query: QueryConfig{
			DefaultLimit: 100,
			MaxLimit:     1000,
			Timezone:     "UTC",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads worklens.yaml from dir (if non-empty) and the working
// directory, then applies environment overrides such as
// WORKLENS_DATABASE_PATH. A missing file is not an error.
func Load(dir string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("worklens")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("WORKLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("query.default_limit", cfg.Query.DefaultLimit)
	v.SetDefault("query.max_limit", cfg.Query.MaxLimit)
	v.SetDefault("query.timezone", cfg.Query.Timezone)
	v.SetDefault("log.level", cfg.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.Database.Path = v.GetString("database.path")
	cfg.Query.DefaultLimit = v.GetInt("query.default_limit")
	cfg.Query.MaxLimit = v.GetInt("query.max_limit")
	cfg.Query.Timezone = v.GetString("query.timezone")
	cfg.Log.Level = v.GetString("log.level")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks limits, the timezone name and the log level.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("config: database.path is empty")
	}
	if c.Query.MaxLimit < 0 {
		return fmt.Errorf("config: query.max_limit %d is negative", c.Query.MaxLimit)
	}
	if c.Query.DefaultLimit < 0 {
		return fmt.Errorf("config: query.default_limit %d is negative", c.Query.DefaultLimit)
	}
	if c.Query.MaxLimit > 0 && c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("config: query.default_limit %d exceeds query.max_limit %d",
			c.Query.DefaultLimit, c.Query.MaxLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Query.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: query.timezone: %w", err)
	}
	return loc, nil
}

// LogLevel parses log.level (debug, info, warn, error).
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}
