package repository

import (
	"context"

	"github.com/hotspot-explorer/internal/domain"
)

// StreamRepository wraps Redis Streams consumer-group operations.
type StreamRepository interface {
	// CreateConsumerGroup creates group on stream; an existing group is not an error.
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch redelivers the consumer's unacknowledged messages, or when
	// there are none reads up to count new ones, without blocking.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	// PublishToStream JSON-encodes data into the "data" field of a new entry.
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
