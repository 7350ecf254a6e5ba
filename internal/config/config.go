// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Database struct {
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	Sendgrid struct {
		APIKey string `json:"api_key"`
		From   string `json:"from"`
	} `json:"sendgrid"`
	SMTP    map[string]SMTPConfig `json:"smtp"`
	Kafka   KafkaConfig           `json:"kafka"`
	BaseURL string                `json:"base_url"`
}

// SMTPConfig describes one SMTP relay, keyed in Config.SMTP by the email
// provider name that uses it.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// KafkaConfig describes the broker connection used to ingest
// account-created notifications from the platform account directory.
// An empty broker list disables the consumer.
type KafkaConfig struct {
	Brokers             []string `json:"brokers"`
	ClientID            string   `json:"client_id"`
	AccountCreatedTopic string   `json:"account_created_topic"`
	ConsumerGroup       string   `json:"consumer_group"`
	Protocol            string   `json:"protocol"`
}

func Load() *Config {
	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "lattice")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.ExpiryPeriod = time.Hour * 24

	// Sendgrid configuration
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Sendgrid.From = getEnv("SENDGRID_FROM", "")

	// SMTP configuration; only wired when a host is set
	if host := getEnv("SMTP_HOST", ""); host != "" {
		port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
		if err != nil {
			port = 587
		}
		cfg.SMTP = map[string]SMTPConfig{
			"smtp": {
				Host:     host,
				Port:     port,
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
				From:     getEnv("SMTP_FROM", ""),
			},
		}
	}

	// Kafka configuration
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.ClientID = getEnv("KAFKA_CLIENT_ID", "lattice")
	cfg.Kafka.AccountCreatedTopic = getEnv("KAFKA_ACCOUNT_CREATED_TOPIC", "accounts.created")
	cfg.Kafka.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", "lattice-upgrade")
	cfg.Kafka.Protocol = getEnv("KAFKA_PROTOCOL", "plaintext")

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
