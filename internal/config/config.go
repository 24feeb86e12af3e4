package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jcbcouch/dotnetwebapi/internal/identity"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver is "mysql" or "memory". The memory driver keeps posts in
	// process and is meant for local runs and tests.
	Driver string
	DSN    string
}

type AuthConfig struct {
	Mode      identity.Mode
	JWTSecret string
}

type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("DB_DRIVER", "mysql")
	viper.SetDefault("AUTH_MODE", string(identity.ModeRequired))
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Driver: viper.GetString("DB_DRIVER"),
			DSN:    os.Getenv("DB_DSN"),
		},
		Auth: AuthConfig{
			Mode:      identity.Mode(viper.GetString("AUTH_MODE")),
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Database.Driver != "mysql" && cfg.Database.Driver != "memory" {
		return nil, fmt.Errorf("config: unknown DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == "mysql" && cfg.Database.DSN == "" {
		return nil, fmt.Errorf("config: DB_DSN is required with the mysql driver")
	}
	if !cfg.Auth.Mode.Valid() {
		return nil, fmt.Errorf("config: unknown AUTH_MODE %q", cfg.Auth.Mode)
	}
	if cfg.Auth.Mode == identity.ModeRequired && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required when AUTH_MODE=required")
	}

	return cfg, nil
}
