package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Payment  PaymentConfig
	Mail     MailConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	AllowedOrigin string
}

type AdminConfig struct {
	Username string
	Password string
	// PasswordHash, when set, takes precedence over Password and is
	// compared with bcrypt.
	PasswordHash string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	// URL is optional; when empty the postgres event ledger and the
	// fulfillment audit table are disabled and redis handles dedup alone.
	URL string
}

type KafkaConfig struct {
	Brokers          []string
	TopicFulfillment string
	ConsumerGroup    string
}

type PaymentConfig struct {
	APIBaseURL    string
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type MailConfig struct {
	SMTPHost      string
	SMTPPort      string
	From          string
	OperatorEmail string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	ProductName       string
	UnitPriceCents    int64
	ShippingFeeCents  int64
	Currency          string
	ShippingCountry   string
	NotifyEmail       string
	SessionTTLSeconds int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	unitPrice, _ := strconv.ParseInt(getEnv("UNIT_PRICE_CENTS", "1500"), 10, 64)
	shippingFee, _ := strconv.ParseInt(getEnv("SHIPPING_FEE_CENTS", "500"), 10, 64)
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_SECONDS", "3600"))

	operatorEmail := getEnv("OPERATOR_EMAIL", "orders@example.com")

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			Env:           getEnv("ENV", "development"),
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     getEnv("ADMIN_PASSWORD", "password"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Kafka: KafkaConfig{
			Brokers:          strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicFulfillment: getEnv("KAFKA_TOPIC_FULFILLMENT", "fulfillment-events"),
			ConsumerGroup:    getEnv("KAFKA_CONSUMER_GROUP", "storefront-notifier"),
		},
		Payment: PaymentConfig{
			APIBaseURL:    getEnv("PAYMENT_API_URL", "https://api.payproc.example"),
			SecretKey:     getEnv("PAYMENT_SECRET_KEY", ""),
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			SuccessURL:    getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/success"),
			CancelURL:     getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/cancel"),
		},
		Mail: MailConfig{
			SMTPHost:      getEnv("SMTP_HOST", "localhost"),
			SMTPPort:      getEnv("SMTP_PORT", "1025"),
			From:          getEnv("MAIL_FROM", "noreply@example.com"),
			OperatorEmail: operatorEmail,
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Business: BusinessConfig{
			ProductName:       getEnv("PRODUCT_NAME", "Classic Tee"),
			UnitPriceCents:    unitPrice,
			ShippingFeeCents:  shippingFee,
			Currency:          getEnv("CURRENCY", "usd"),
			ShippingCountry:   getEnv("SHIPPING_COUNTRY", "US"),
			NotifyEmail:       getEnv("NOTIFY_EMAIL", operatorEmail),
			SessionTTLSeconds: sessionTTL,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
