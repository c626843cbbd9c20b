package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Payments PaymentConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type PaymentConfig struct {
	StripeWebhookSecret      string
	MercadoPagoAccessToken   string
	MercadoPagoWebhookSecret string
	MercadoPagoBaseURL       string
}

type BookingConfig struct {
	// CancellationWindowHours is how close to class start a customer may
	// still cancel on their own. Admin cancellations are not bound by it.
	CancellationWindowHours int
	WebhookTimeoutSeconds   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Talasofilia Pilates"),
		},
		Payments: PaymentConfig{
			StripeWebhookSecret:      getEnv("STRIPE_WEBHOOK_SECRET", ""),
			MercadoPagoAccessToken:   getEnv("MERCADO_PAGO_ACCESS_TOKEN", ""),
			MercadoPagoWebhookSecret: getEnv("MERCADO_PAGO_WEBHOOK_SECRET", ""),
			MercadoPagoBaseURL:       getEnv("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com"),
		},
		Booking: BookingConfig{
			CancellationWindowHours: getEnvAsInt("CANCELLATION_WINDOW_HOURS", 2),
			WebhookTimeoutSeconds:   getEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 25),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
