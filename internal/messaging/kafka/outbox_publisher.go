package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в Kafka topic, выбирая
// topic по типу агрегата (order/tenant).
type OutboxTopicPublisher struct {
	producer     *Producer
	defaultTopic string
	// fixedTopic отключает маршрутизацию по агрегату: все сообщения идут
	// в defaultTopic. Нужен для DLQ, где агрегат исходного сообщения
	// сохраняется.
	fixedTopic bool
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer, defaultTopic string) domain.OutboxPublisher {
	if defaultTopic == "" {
		defaultTopic = TopicOrderEvents
	}
	return &OutboxTopicPublisher{
		producer:     producer,
		defaultTopic: defaultTopic,
	}
}

// NewFixedTopicPublisher создаёт паблишер, публикующий все сообщения в один
// topic независимо от типа агрегата. Используется для Dead Letter Queue.
func NewFixedTopicPublisher(producer *Producer, topic string) domain.OutboxPublisher {
	return &OutboxTopicPublisher{
		producer:     producer,
		defaultTopic: topic,
		fixedTopic:   true,
	}
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.PublishEvent(p.topicFor(event), key, envelope)
}

// topicFor выбирает topic по типу агрегата.
func (p *OutboxTopicPublisher) topicFor(event domain.OutboxMessage) string {
	if p.fixedTopic {
		return p.defaultTopic
	}
	switch event.AggregateType {
	case "order":
		return TopicOrderEvents
	case "tenant":
		return TopicTenantEvents
	default:
		return p.defaultTopic
	}
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
