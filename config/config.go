package config

import "os"

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	GoogleClientID string

	PaymentAPIURL string
	PaymentAPIKey string

	SMSAPIURL      string
	SMSAPIKey      string
	SMSUsername    string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
	OrderEmailTo string
}

func LoadConfig() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "postgres"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "tottembo"),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		PaymentAPIURL: os.Getenv("PAYMENT_API_URL"),
		PaymentAPIKey: os.Getenv("PAYMENT_API_KEY"),

		SMSAPIURL:   getEnv("SMS_API_URL", "https://api.sandbox.africastalking.com/version1/messaging"),
		SMSAPIKey:   os.Getenv("SMS_API_KEY"),
		SMSUsername: getEnv("SMS_USERNAME", "sandbox"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		OrderEmailTo: os.Getenv("ORDER_EMAIL_TO"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
