package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AllowedOrigins is the fixed CORS allowlist for the storefront.
var AllowedOrigins = []string{
	"https://ecom-dik.vercel.app",
	"http://localhost:5173",
}

// Store drivers.
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Midtrans MidtransConfig
	Store    StoreConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MidtransConfig holds payment gateway credentials.
type MidtransConfig struct {
	ServerKey    string `validate:"required"`
	ClientKey    string
	IsProduction bool
	Timeout      time.Duration `validate:"gt=0"`
}

// StoreConfig selects and configures the order document store.
type StoreConfig struct {
	Driver          string `validate:"required,oneof=firestore postgres"`
	Collection      string `validate:"required"`
	CredentialsJSON string `validate:"required_if=Driver firestore"`
	ProjectID       string
	Database        DatabaseConfig
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool
	Addr     string `validate:"required_if=Enabled true"`
	Password string
	DB       int
	LockTTL  time.Duration `validate:"gt=0"`
}

// KafkaConfig holds the status event publisher configuration.
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string `validate:"required_if=Enabled true,dive,required"`
	StatusTopic string   `validate:"required_if=Enabled true"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Midtrans: MidtransConfig{
			ServerKey:    getEnv("MIDTRANS_SERVER_KEY", ""),
			ClientKey:    getEnv("MIDTRANS_CLIENT_KEY", ""),
			IsProduction: getBoolEnv("MIDTRANS_IS_PRODUCTION", true),
			Timeout:      getDurationEnv("MIDTRANS_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver:          getEnv("ORDER_STORE", StoreFirestore),
			Collection:      getEnv("ORDERS_COLLECTION", "orders"),
			CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", "postgres"),
				DBName:   getEnv("DB_NAME", "ecom_dik"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			LockTTL:  getDurationEnv("RECONCILE_LOCK_TTL", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled:     getBoolEnv("KAFKA_ENABLED", false),
			Brokers:     getListEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			StatusTopic: getEnv("KAFKA_STATUS_TOPIC", "orders.status"),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "midtrans-dik"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
