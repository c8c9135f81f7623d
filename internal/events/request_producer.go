package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RequestProducer struct {
	client     *redis.Client
	streamName string
	maxLen     int64
}

// NewRequestProducer creates a producer that appends to streamName, trimming it
// approximately to maxLen entries when maxLen is positive.
func NewRequestProducer(client *redis.Client, streamName string, maxLen int64) *RequestProducer {
	return &RequestProducer{
		client:     client,
		streamName: streamName,
		maxLen:     maxLen,
	}
}

func (p *RequestProducer) Publish(ctx context.Context, event *RequestEvent) error {
	args := &redis.XAddArgs{
		Stream: p.streamName,
		Values: event.Values(),
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish request event: %w", err)
	}

	return nil
}
