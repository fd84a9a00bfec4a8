package repository

import (
	"context"
	"time"
)

// OutboxEvent is a domain event staged in the same transaction as the order
// write. The poller ships staged events to Kafka and marks them processed.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// OutboxStore is what the outbox poller needs from the order repository.
type OutboxStore interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventID int64) error
}
