package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	AppName       string   `mapstructure:"APP_NAME"`
	StorageDriver string   `mapstructure:"STORAGE_DRIVER"`
	DataPath      string   `mapstructure:"DATA_PATH"`
	DatabaseURL   string   `mapstructure:"DATABASE_URL"`
	AdminUsername string   `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string   `mapstructure:"ADMIN_PASSWORD"`
	SessionSecret string   `mapstructure:"SESSION_SECRET"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_NAME", "vision-records")
	v.SetDefault("STORAGE_DRIVER", "sqlite")
	v.SetDefault("DATA_PATH", "vision-records.db")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "vision123")
	v.SetDefault("SESSION_SECRET", "dev-only-session-secret")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("APP_NAME")
	v.BindEnv("STORAGE_DRIVER")
	v.BindEnv("DATA_PATH")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("ADMIN_USERNAME")
	v.BindEnv("ADMIN_PASSWORD")
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The postgres driver
// needs a connection string, and production refuses to start on the default
// credential pair or session secret.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "sqlite", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is \"postgres\"")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be \"sqlite\", \"postgres\" or \"memory\", got %q", c.StorageDriver)
	}

	if !c.IsDev() {
		if c.AdminPassword == "vision123" {
			return fmt.Errorf("ADMIN_PASSWORD must be changed from the default outside development")
		}
		if c.SessionSecret == "dev-only-session-secret" {
			return fmt.Errorf("SESSION_SECRET must be changed from the default outside development")
		}
	}
	return nil
}
