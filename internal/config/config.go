package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Token             string        `validate:"required,contains=:"`
	ChatID            int64         `validate:"required"`
	ChatName          string        `validate:"required"`
	Timeout           time.Duration `validate:"gt=0"`
	RecentOutcomes    int           `validate:"gte=0"`
	PollTimeout       time.Duration `validate:"gte=0"`
	WebhookBaseURL    string        `validate:"omitempty,url"`
	WebhookSecret     string
	ServerPort        string `validate:"required,numeric"`
	LogLevel          string `validate:"oneof=debug info warn error"`
	LogFile           string
	LogMaxSizeMB      int `validate:"gt=0"`
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string `validate:"required_with=AdminUsername"`
	CORSAllowOrigins  []string
}

// AuditEnabled reports whether challenge outcomes go to the database.
func (c *Config) AuditEnabled() bool { return c.DBHost != "" }

// AdminEnabled reports whether the admin API accepts logins.
func (c *Config) AdminEnabled() bool { return c.AdminUsername != "" && c.JWTSecret != "" }

// Load reads configuration from the environment. Values from a .env file
// in the working directory are used for variables that are not set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var errs []string
	chatID, err := strconv.ParseInt(getEnv("CHAT_ID", "0"), 10, 64)
	if err != nil {
		errs = append(errs, "CHAT_ID must be an integer")
	}

	cfg := &Config{
		Token:             getEnv("TOKEN", ""),
		ChatID:            chatID,
		ChatName:          getEnv("CHAT_NAME", "Swiss Mech Chat"),
		Timeout:           seconds("TIMEOUT", 300, &errs),
		RecentOutcomes:    integer("RECENT_OUTCOMES", 256, &errs),
		PollTimeout:       seconds("POLL_TIMEOUT", 30, &errs),
		WebhookBaseURL:    getEnv("WEBHOOK_BASE_URL", ""),
		WebhookSecret:     getEnv("WEBHOOK_SECRET", ""),
		ServerPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:           getEnv("LOG_FILE", "logs/gatekeeper-bot.log"),
		LogMaxSizeMB:      integer("LOG_MAX_SIZE_MB", 5, &errs),
		DBHost:            getEnv("DB_HOST", ""),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "gatekeeper"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		CORSAllowOrigins:  strings.Split(getEnv("CORS_ALLOW_ORIGINS", "*"), ","),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func integer(key string, fallback int, errs *[]string) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, key+" must be an integer")
		return fallback
	}
	return n
}

func seconds(key string, fallback int, errs *[]string) time.Duration {
	return time.Duration(integer(key, fallback, errs)) * time.Second
}
