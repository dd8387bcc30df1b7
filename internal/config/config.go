package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string
	Location    *time.Location
	CORSOrigins []string

	// Requests per minute per IP on the public registration form.
	PublicRateLimit int

	RabbitMQ RabbitMQConfig
	SMTP     SMTPConfig
	WhatsApp WhatsAppConfig
	Workers  WorkerConfig
}

type RabbitMQConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type WhatsAppConfig struct {
	AccessToken        string
	PhoneID            string
	BaseURL            string
	TemplateActivation string
	TemplateRenewal    string
	TemplateReminder   string
}

type WorkerConfig struct {
	ExpirationInterval time.Duration
	ReminderInterval   time.Duration
	ReminderDaysBefore int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RabbitMQ: RabbitMQConfig{
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASS", "guest"),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("MAIL_HOST"),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     os.Getenv("MAIL_FROM"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:        os.Getenv("WHATSAPP_ACCESS_TOKEN"),
			PhoneID:            os.Getenv("WHATSAPP_PHONE_ID"),
			BaseURL:            getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
			TemplateActivation: getEnv("WHATSAPP_TEMPLATE_ACTIVATION", "convenio_ativado"),
			TemplateRenewal:    getEnv("WHATSAPP_TEMPLATE_RENEWAL", "convenio_renovado"),
			TemplateReminder:   getEnv("WHATSAPP_TEMPLATE_REMINDER", "convenio_vencendo"),
		},
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL é obrigatório"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET é obrigatório"))
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE inválido: %w", err))
	}
	cfg.Location = loc

	cfg.SMTP.Port, err = getInt("MAIL_PORT", 587)
	errs = appendErr(errs, err)
	cfg.PublicRateLimit, err = getInt("PUBLIC_RATE_LIMIT", 10)
	errs = appendErr(errs, err)
	cfg.Workers.ReminderDaysBefore, err = getInt("REMINDER_DAYS_BEFORE", 7)
	errs = appendErr(errs, err)
	cfg.Workers.ExpirationInterval, err = getDuration("EXPIRATION_INTERVAL", time.Hour)
	errs = appendErr(errs, err)
	cfg.Workers.ReminderInterval, err = getDuration("REMINDER_INTERVAL", time.Hour)
	errs = appendErr(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q não é um número", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q não é uma duração válida", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}
