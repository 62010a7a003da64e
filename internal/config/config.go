package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	DatabaseURL        string   `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	AIServiceURL       string   `mapstructure:"AI_SERVICE_URL"`
	AITimeoutSeconds   int      `mapstructure:"AI_TIMEOUT_SECONDS"`
	FHIRServerURL      string   `mapstructure:"FHIR_SERVER_URL"`
	DefaultClinicianID string   `mapstructure:"DEFAULT_CLINICIAN_ID"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AI_SERVICE_URL", "http://localhost:8002")
	v.SetDefault("AI_TIMEOUT_SECONDS", 120)
	v.SetDefault("DEFAULT_CLINICIAN_ID", "dr-house")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AI_SERVICE_URL")
	v.BindEnv("AI_TIMEOUT_SECONDS")
	v.BindEnv("FHIR_SERVER_URL")
	v.BindEnv("DEFAULT_CLINICIAN_ID")

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

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AITimeout returns the note-generation call budget as a duration.
func (c *Config) AITimeout() time.Duration {
	if c.AITimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

// Validate checks that the configuration is safe to run. FHIR_SERVER_URL may
// be empty; the export-push endpoint reports upstream failure if it is used
// without one.
func (c *Config) Validate() error {
	if c.AIServiceURL == "" {
		return fmt.Errorf("AI_SERVICE_URL is required")
	}
	if c.DefaultClinicianID == "" {
		return fmt.Errorf("DEFAULT_CLINICIAN_ID must not be empty")
	}
	return nil
}
