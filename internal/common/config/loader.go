// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configs/config.yaml, an optional
// environment-specific overlay, and environment variables.
func Load() (*Config, error) {
	// Best effort; system environment variables win when no .env exists.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "program-pipeline")
	viper.SetDefault("app.version", "0.1.0")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", 10)

	viper.SetDefault("database.postgres.host", "localhost")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.database", "programs")
	viper.SetDefault("database.postgres.user", "postgres")
	viper.SetDefault("database.postgres.max_connections", 10)
	viper.SetDefault("database.postgres.max_idle", 5)
	viper.SetDefault("database.postgres.sslmode", "disable")

	viper.SetDefault("database.redis.address", "localhost:6379")
	viper.SetDefault("database.redis.db", 0)

	viper.SetDefault("generator.timeout", 30000)
	viper.SetDefault("generator.max_retries", 3)
	viper.SetDefault("generator.max_tokens", 4096)
	viper.SetDefault("generator.temperature", 0.7)

	viper.SetDefault("pipeline.stale_processing_age", 600)
	viper.SetDefault("pipeline.status_cache_ttl", 300)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func validateConfig(cfg *Config) error {
	if cfg.Generator.BaseURL == "" {
		return fmt.Errorf("generator.base_url is required")
	}
	if cfg.Generator.MaxRetries < 0 {
		return fmt.Errorf("generator.max_retries must not be negative")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", cfg.Server.Port)
	}
	return nil
}
