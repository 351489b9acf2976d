package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/storage/memory"
)

func newOutboxMessage(id string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     "order.created",
		Payload:       []byte(`{"order_id":"order-1"}`),
	}
}

func TestOutboxRepository_EnqueuePull(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, err := repo.Enqueue(newOutboxMessage("msg-1"))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if msg.ID != "msg-1" {
		t.Fatalf("expected id msg-1, got %s", msg.ID)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}
}

func TestOutboxRepository_EnqueueGeneratesID(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, err := repo.Enqueue(newOutboxMessage(""))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestOutboxRepository_PullPendingLimit(t *testing.T) {
	repo := memory.NewOutboxRepository()

	for _, id := range []string{"msg-1", "msg-2", "msg-3"} {
		if _, err := repo.Enqueue(newOutboxMessage(id)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	pending, err := repo.PullPending(2)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pending))
	}
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	repo := memory.NewOutboxRepository()
	if _, err := repo.Enqueue(newOutboxMessage("msg-1")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := repo.MarkSent("msg-1"); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, _ := repo.PullPending(10)
	if len(pending) != 0 {
		t.Fatalf("sent message must leave backlog, got %d", len(pending))
	}

	if err := repo.MarkSent("missing"); err == nil {
		t.Fatal("expected error for unknown message")
	}
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	repo := memory.NewOutboxRepository()
	if _, err := repo.Enqueue(newOutboxMessage("msg-1")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := repo.MarkFailed("msg-1"); err != nil {
		t.Fatalf("mark failed failed: %v", err)
	}

	pending, _ := repo.PullPending(10)
	if len(pending) != 0 {
		t.Fatalf("failed message must leave backlog, got %d", len(pending))
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	repo := memory.NewOutboxRepository()

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 0 || !stats.OldestPendingAt.IsZero() {
		t.Fatalf("expected empty stats, got %+v", stats)
	}

	if _, err := repo.Enqueue(newOutboxMessage("msg-1")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := repo.Enqueue(newOutboxMessage("msg-2")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	stats, err = repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("expected 2 pending, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() || stats.OldestPendingAt.After(time.Now().UTC()) {
		t.Fatalf("unexpected oldest pending time: %s", stats.OldestPendingAt)
	}

	if err := repo.MarkSent("msg-1"); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}
	stats, _ = repo.Stats()
	if stats.PendingCount != 1 {
		t.Fatalf("expected 1 pending after send, got %d", stats.PendingCount)
	}
}
