package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the complete process configuration of the user-role service
type Config struct {
	Port            uint16        `env:"PORT" env-default:"8080"`
	BaseURL         string        `env:"BASE_URL" env-default:"http://localhost:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogJSON  bool   `env:"LOG_JSON" env-default:"false"`

	SeedData bool `env:"SEED_DATA" env-default:"true"`

	RoleIDFormat           string `env:"ROLE_ID_FORMAT" env-default:"uuid"`
	RoleCleanupConcurrency int    `env:"ROLE_CLEANUP_CONCURRENCY" env-default:"8"`

	// APIPrefixBase, when set, replaces Prefix with <base>/user and <base>/role
	APIPrefixBase string `env:"API_PREFIX_BASE" env-default:""`
	Prefix        PrefixConfig
	Store         StoreConfig
}

// Load reads an optional .env file and then the environment into a Config
func Load() (Config, error) {
	loadEnvFile()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	if cfg.APIPrefixBase != "" {
		cfg.Prefix = BuildPrefixesFromBase(cfg.APIPrefixBase)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values cleanenv cannot check on its own
func (c Config) Validate() error {
	var errs ValidationErrors
	errs.add(RequireOneOf("STORE_PERSISTENCE", c.Store.Persistence,
		PersistenceMongo, PersistencePostgres, PersistenceRedis, PersistenceSQLite, PersistenceFile, PersistenceMemory))
	errs.add(RequireOneOf("ROLE_ID_FORMAT", c.RoleIDFormat, "uuid", "ulid"))
	errs.add(RequirePositive("ROLE_CLEANUP_CONCURRENCY", c.RoleCleanupConcurrency))
	errs.add(RequireAbsoluteURL("BASE_URL", c.BaseURL))
	errs.add(RequirePositiveDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout))

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SlogLevel converts LogLevel into a slog.Level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadEnvFile loads .env from ENV_FILE, the executable's directory or the working directory
func loadEnvFile() {
	envFile := GetEnvOrDefault("ENV_FILE", "")
	if envFile == "" {
		if execPath, err := os.Executable(); err == nil {
			envFile = filepath.Join(filepath.Dir(execPath), ".env")
		}
		if _, err := os.Stat(envFile); envFile == "" || os.IsNotExist(err) {
			cwd, _ := os.Getwd()
			envFile = filepath.Join(cwd, ".env")
		}
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Debug("No .env file found (using environment variables or defaults)")
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}
}
