package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicOrderEvents {
			t.Errorf("expected topic %s, got %s", TopicOrderEvents, msg.Topic)
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var envelope struct {
			ID          string          `json:"id"`
			EventType   string          `json:"event_type"`
			Payload     json.RawMessage `json:"payload"`
			PublishedAt string          `json:"published_at"`
		}
		if err := json.Unmarshal(value, &envelope); err != nil {
			return err
		}
		if envelope.ID != "outbox-1" || envelope.EventType != "order.created" {
			t.Errorf("unexpected envelope: %+v", envelope)
		}
		if string(envelope.Payload) != `{"order_id":"order-123"}` {
			t.Errorf("unexpected payload: %s", envelope.Payload)
		}
		return nil
	})

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: "order",
		AggregateID:   "order-123",
		EventType:     "order.created",
		Payload:       []byte(`{"order_id":"order-123"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_TenantTopic(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicTenantEvents {
			t.Errorf("tenant event must go to %s, got %s", TopicTenantEvents, msg.Topic)
		}
		return nil
	})

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: "tenant",
		AggregateID:   "rest-1",
		EventType:     "tenant.approved",
		Payload:       []byte(`{"restaurant_id":"rest-1"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFixedTopicPublisher_DeadLettersKeepDLQTopic(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	// Мёртвые сообщения сохраняют исходный агрегат (order/tenant), но
	// обязаны попадать в DLQ topic, а не обратно в живые topics.
	for i := 0; i < 2; i++ {
		mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			if msg.Topic != TopicDeadLetterQueue {
				t.Errorf("dead letter routed to %q, want %q", msg.Topic, TopicDeadLetterQueue)
			}
			return nil
		})
	}

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-dlq-publisher-test"),
	}
	publisher := NewFixedTopicPublisher(producer, TopicDeadLetterQueue)

	deadLetters := []domain.OutboxMessage{
		{
			ID:            "outbox-dlq-1",
			AggregateType: "order",
			AggregateID:   "order-666",
			EventType:     "dlq.order.created",
			Payload:       []byte(`{"order_id":"order-666"}`),
		},
		{
			ID:            "outbox-dlq-2",
			AggregateType: "tenant",
			AggregateID:   "rest-666",
			EventType:     "dlq.tenant.approved",
			Payload:       []byte(`{"restaurant_id":"rest-666"}`),
		},
	}
	for _, dead := range deadLetters {
		if err := publisher.Publish(dead); err != nil {
			t.Fatalf("publish dead letter %s: %v", dead.ID, err)
		}
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-3",
		AggregateType: "order",
		AggregateID:   "order-234",
		EventType:     "order.status_changed",
		Payload:       []byte(`{"status":"confirmed"}`),
	})
	if err == nil {
		t.Fatal("expected publish error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicOrderEvents)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-4"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}
