package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cardapio/internal/storage/memory"
	"github.com/vladislavdragonenkov/cardapio/internal/storage/postgres"
)

// Dependencies содержит хранилища и внешние клиенты приложения.
type Dependencies struct {
	CartStore   domain.CartStore
	Orders      domain.OrderRepository
	Restaurants domain.RestaurantRepository
	Menu        domain.MenuRepository
	Outbox      domain.OutboxRepository
	Timeline    domain.TimelineRepository
	Idempotency domain.IdempotencyRepository

	// PG заполняется только при работе поверх PostgreSQL.
	PG *postgres.Store
	// KafkaProducer заполняется только при настроенных брокерах.
	KafkaProducer *kafka.Producer

	Logger *log.Entry
}

// NewDependencies собирает зависимости: PostgreSQL при заданном DSN,
// иначе in-memory хранилище для локальной разработки и тестов.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.DatabaseURL != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}

		deps.PG = store
		deps.CartStore = postgres.NewCartStore(store)
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Restaurants = postgres.NewRestaurantRepository(store)
		deps.Menu = postgres.NewMenuRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		deps.Timeline = postgres.NewTimelineRepository(store)
		deps.Idempotency = postgres.NewIdempotencyRepository(store)
		logger.Info("storage: postgres")
	} else {
		deps.CartStore = memory.NewCartStore()
		deps.Orders = memory.NewOrderRepository()
		deps.Restaurants = memory.NewRestaurantRepository()
		deps.Menu = memory.NewMenuRepository()
		deps.Outbox = memory.NewOutboxRepository()
		deps.Timeline = memory.NewTimelineRepository()
		deps.Idempotency = memory.NewIdempotencyRepository()
		logger.Info("storage: in-memory")

		if cfg.SeedDemo {
			if err := memory.SeedDemoData(deps.Restaurants, deps.Menu); err != nil {
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			logger.Info("demo data seeded")
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.KafkaProducer = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	return deps, nil
}

// Close освобождает внешние ресурсы.
func (d *Dependencies) Close() {
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka producer")
		}
	}
	if d.PG != nil {
		if err := d.PG.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}

// OutboxPublisher возвращает publisher для outbox worker: Kafka при наличии
// брокеров, иначе логирующая заглушка, чтобы backlog не накапливался.
func (d *Dependencies) OutboxPublisher() domain.OutboxPublisher {
	if d.KafkaProducer != nil {
		return kafka.NewOutboxPublisher(d.KafkaProducer, kafka.TopicOrderEvents)
	}
	return &loggingPublisher{logger: d.Logger.WithField("component", "outbox-log-publisher")}
}

// DLQPublisher возвращает publisher для мёртвых сообщений или nil без Kafka.
// Мёртвые сообщения сохраняют исходный тип агрегата, поэтому topic здесь
// фиксированный, а не выбирается по агрегату.
func (d *Dependencies) DLQPublisher() domain.OutboxPublisher {
	if d.KafkaProducer == nil {
		return nil
	}
	return kafka.NewFixedTopicPublisher(d.KafkaProducer, kafka.TopicDeadLetterQueue)
}

// loggingPublisher пишет события в лог вместо брокера. Используется в
// окружениях без Kafka, чтобы outbox-поток оставался рабочим.
type loggingPublisher struct {
	logger *log.Entry
}

func (p *loggingPublisher) Publish(event domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"event_type":   event.EventType,
		"aggregate_id": event.AggregateID,
	}).Info("outbox event published to log")
	return nil
}
