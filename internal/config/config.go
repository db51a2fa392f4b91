package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

type Config struct {
	HTTPPort      string `envconfig:"APP_PORT" default:"8080"`
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"mongodb"`
	ListLimit     int64  `envconfig:"LIST_DEFAULT_LIMIT" default:"100"`
	SwaggerHost   string `envconfig:"SWAGGER_HOST" default:"localhost:8080"`
	Auth          AuthConfig
	MongoDB       MongoDBConfig
	Kafka         KafkaConfig
	RateLimit     RateLimitConfig
	Log           LogConfig
}

type AuthConfig struct {
	APIKey    string        `envconfig:"APP_ACCESS_API_KEY" required:"true"`
	JWTSecret string        `envconfig:"APP_JWT_SECRET" required:"true"`
	Issuer    string        `envconfig:"APP_JWT_ISSUER" default:"FX Transactions"`
	TokenTTL  time.Duration `envconfig:"APP_TOKEN_TTL" default:"8760h"`
}

type MongoDBConfig struct {
	URI               string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database          string        `envconfig:"MONGO_DATABASE" default:"fx_transactions"`
	Collection        string        `envconfig:"MONGO_COLLECTION" default:"transactions"`
	Timeout           time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
	RetryAttempts     int           `envconfig:"MONGO_RETRY_ATTEMPTS" default:"5"`
	RetryDelay        time.Duration `envconfig:"MONGO_RETRY_DELAY" default:"1s"`
	MigrationsEnabled bool          `envconfig:"MONGO_MIGRATIONS_ENABLED" default:"true"`
	MigrationsPath    string        `envconfig:"MONGO_MIGRATIONS_PATH" default:"migrations"`
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"fx-transactions"`
}

type RateLimitConfig struct {
	Enabled bool   `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	Rate    string `envconfig:"RATE_LIMIT" default:"100-M"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:"transactions.log"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: could not load %s, falling back to process environment: %v", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongoDB, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("LIST_DEFAULT_LIMIT must be positive, got %d", c.ListLimit)
	}
	if c.MongoDB.RetryAttempts <= 0 {
		return fmt.Errorf("MONGO_RETRY_ATTEMPTS must be positive, got %d", c.MongoDB.RetryAttempts)
	}
	return nil
}
