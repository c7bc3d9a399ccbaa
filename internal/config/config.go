package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/Dan9191/finance-service/internal/utils"
)

// Config holds application configuration
type Config struct {
	Port           string
	DBConn         string
	LogLevel       string
	JWTSecret      string
	EncryptionKey  string
	FormStorePath  string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SenderEmail    string
	ReportSchedule string
}

var defaults = map[string]string{
	"PORT":            "8080",
	"DB_CONN":         "host=localhost port=5436 user=test password=test dbname=finance sslmode=disable",
	"LOG_LEVEL":       "INFO",
	"JWT_SECRET":      "secret",
	"ENCRYPTION_KEY":  "",
	"FORM_STORE_PATH": "data/forms.db",
	"GEMINI_API_KEY":  "",
	"GEMINI_MODEL":    "gemini-2.5-flash",
	"GEMINI_BASE_URL": "https://generativelanguage.googleapis.com/v1beta",
	"SMTP_HOST":       "localhost",
	"SMTP_PORT":       "587",
	"SMTP_USERNAME":   "",
	"SMTP_PASSWORD":   "",
	"SENDER_EMAIL":    "reports@finance.local",
	"REPORT_SCHEDULE": "0 8 1 * *",
}

// NewConfig loads configuration from .env, an optional config file and
// environment variables, in increasing precedence.
func NewConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		DBConn:         v.GetString("DB_CONN"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		EncryptionKey:  v.GetString("ENCRYPTION_KEY"),
		FormStorePath:  v.GetString("FORM_STORE_PATH"),
		GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
		GeminiModel:    v.GetString("GEMINI_MODEL"),
		GeminiBaseURL:  v.GetString("GEMINI_BASE_URL"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetString("SMTP_PORT"),
		SMTPUsername:   v.GetString("SMTP_USERNAME"),
		SMTPPassword:   v.GetString("SMTP_PASSWORD"),
		SenderEmail:    v.GetString("SENDER_EMAIL"),
		ReportSchedule: v.GetString("REPORT_SCHEDULE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.EncryptionKey != "" {
		if _, err := utils.ParseKey(c.EncryptionKey); err != nil {
			return fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
		}
	}
	if c.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			return fmt.Errorf("invalid REPORT_SCHEDULE: %w", err)
		}
	}
	return nil
}

// EncryptionKeyBytes returns the decoded form store key, or nil when
// encryption is disabled.
func (c *Config) EncryptionKeyBytes() []byte {
	if c.EncryptionKey == "" {
		return nil
	}
	key, err := utils.ParseKey(c.EncryptionKey)
	if err != nil {
		return nil
	}
	return key
}
