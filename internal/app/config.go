package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config описывает настройки запуска сервиса. Значения читаются из окружения,
// пустые поля заполняются значениями по умолчанию.
type Config struct {
	// HTTPAddr — адрес публичного API.
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера: /metrics и health checks.
	MetricsAddr string
	// DatabaseURL — DSN PostgreSQL; пустое значение включает in-memory хранилище.
	DatabaseURL string
	// KafkaBrokers — список брокеров; пустой список отключает Kafka,
	// outbox worker публикует события через логирующий publisher.
	KafkaBrokers []string
	// SeedDemo включает загрузку демо-данных в память при старте.
	SeedDemo bool
	// OutboxPollInterval — частота опроса transactional outbox.
	OutboxPollInterval time.Duration
	// ShutdownTimeout — время на graceful shutdown HTTP-серверов.
	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает базовые настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		OutboxPollInterval: time.Second,
		ShutdownTimeout:    5 * time.Second,
	}
}

// LoadConfig читает конфигурацию из переменных окружения поверх значений
// по умолчанию.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if addr := strings.TrimSpace(os.Getenv("CARDAPIO_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := strings.TrimSpace(os.Getenv("CARDAPIO_METRICS_ADDR")); addr != "" {
		cfg.MetricsAddr = addr
	}
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			broker = strings.TrimSpace(broker)
			if broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CARDAPIO_SEED_DEMO")); raw != "" {
		if seed, err := strconv.ParseBool(raw); err == nil {
			cfg.SeedDemo = seed
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CARDAPIO_OUTBOX_POLL_INTERVAL")); raw != "" {
		if interval, err := time.ParseDuration(raw); err == nil && interval > 0 {
			cfg.OutboxPollInterval = interval
		}
	}

	return cfg
}
