package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	BodyLimit   string   `mapstructure:"BODY_LIMIT"`

	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         int    `mapstructure:"SMTP_PORT"`
	SMTPUsername     string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword     string `mapstructure:"SMTP_PASSWORD"`
	EmailFromName    string `mapstructure:"EMAIL_FROM_NAME"`
	EmailFromAddress string `mapstructure:"EMAIL_FROM_ADDRESS"`
	EmailMode        string `mapstructure:"EMAIL_MODE"`
	EmailLogDir      string `mapstructure:"EMAIL_LOG_DIR"`
}

// Email dispatch modes. The mode is an explicit configuration choice; the
// mail package never inspects the environment on its own.
const (
	EmailModeSMTP = "smtp"
	EmailModeLog  = "log"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:4200")
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM_NAME", "Hospital Management System")
	v.SetDefault("EMAIL_MODE", EmailModeLog)
	v.SetDefault("EMAIL_LOG_DIR", "logs")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("SMTP_HOST")
	v.BindEnv("SMTP_PORT")
	v.BindEnv("SMTP_USERNAME")
	v.BindEnv("SMTP_PASSWORD")
	v.BindEnv("EMAIL_FROM_NAME")
	v.BindEnv("EMAIL_FROM_ADDRESS")
	v.BindEnv("EMAIL_MODE")
	v.BindEnv("EMAIL_LOG_DIR")

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

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. SMTP delivery
// requires a host and a from address; the log mode needs neither.
func (c *Config) Validate() error {
	switch c.EmailMode {
	case EmailModeLog:
		if c.EmailLogDir == "" {
			return fmt.Errorf("EMAIL_LOG_DIR is required when EMAIL_MODE is %q", EmailModeLog)
		}
	case EmailModeSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_MODE is %q", EmailModeSMTP)
		}
		if c.EmailFromAddress == "" {
			return fmt.Errorf("EMAIL_FROM_ADDRESS is required when EMAIL_MODE is %q", EmailModeSMTP)
		}
		if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.SMTPPort)
		}
	default:
		return fmt.Errorf("EMAIL_MODE must be %q or %q, got %q", EmailModeLog, EmailModeSMTP, c.EmailMode)
	}

	return nil
}
