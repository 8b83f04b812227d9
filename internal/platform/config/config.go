package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string

	// PostgresDSN enables the postgres order store when set; the in-memory
	// store backs the process otherwise (dev / tests).
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig

	// TemplateFile optionally replaces the built-in activation template
	// catalog with a YAML catalog.
	TemplateFile string

	LogLevel string
}

// RedisConfig configures the offer display cache client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the notification producer.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// OfferCacheTTL bounds staleness of denormalized offer display data.
var OfferCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("ORDER_GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("KAFKA_NOTIFICATION_TOPIC")
	if topic == "" {
		topic = "order-notifications"
	}

	var brokers []string
	if b := os.Getenv("KAFKA_BROKERS"); b != "" {
		brokers = strings.Split(b, ",")
	}

	return Server{
		Addr:         addr,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		TemplateFile: os.Getenv("TEMPLATE_FILE"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
