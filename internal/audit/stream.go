package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream is the consumer-group view of the request stream.
type Stream interface {
	Read(ctx context.Context) ([]redis.XMessage, error)
	Ack(ctx context.Context, ids ...string) error
	// Rewind makes the next Read start over from this consumer's unacknowledged entries.
	Rewind()
}

type RedisStream struct {
	client   redis.Cmdable
	stream   string
	group    string
	consumer string
	count    int64
	block    time.Duration

	// backlog is set while pending entries may still be waiting for this consumer.
	backlog atomic.Bool
}

// NewRedisStream starts with a backlog pass so entries left pending by a
// previous run are delivered before new ones.
func NewRedisStream(client redis.Cmdable, stream, group, consumer string, count int, block time.Duration) *RedisStream {
	s := &RedisStream{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: consumer,
		count:    int64(count),
		block:    block,
	}
	s.backlog.Store(true)
	return s
}

// EnsureGroup creates the consumer group and the stream if needed.
func (s *RedisStream) EnsureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", s.group, err)
	}
	return nil
}

// Read delivers this consumer's pending entries first and new entries once the
// backlog is empty. It returns no messages and no error when the block time passes quietly.
func (s *RedisStream) Read(ctx context.Context) ([]redis.XMessage, error) {
	if s.backlog.Load() {
		messages, err := s.read(ctx, "0", -1)
		if err != nil {
			return nil, err
		}
		if len(messages) > 0 {
			return messages, nil
		}
		s.backlog.Store(false)
	}
	return s.read(ctx, ">", s.block)
}

func (s *RedisStream) Rewind() {
	s.backlog.Store(true)
}

// read passes a negative block to leave BLOCK out; 0 would block forever.
func (s *RedisStream) read(ctx context.Context, id string, block time.Duration) ([]redis.XMessage, error) {
	args := &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, id},
		Count:    s.count,
		Block:    block,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	var messages []redis.XMessage
	for _, st := range streams {
		messages = append(messages, st.Messages...)
	}
	return messages, nil
}

// Len is the number of entries still held in the stream, acknowledged or not.
func (s *RedisStream) Len(ctx context.Context) (int64, error) {
	n, err := s.client.XLen(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read stream length: %w", err)
	}
	return n, nil
}

func (s *RedisStream) Ack(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.client.XAck(ctx, s.stream, s.group, ids...).Err()
}
