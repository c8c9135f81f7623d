// Package audit moves request events from the Redis stream into ClickHouse.
package audit

import (
	"context"
	"time"

	"github.com/Varun5711/campusapi/internal/clickhouse"
	"github.com/Varun5711/campusapi/internal/enrichment"
	"github.com/Varun5711/campusapi/internal/events"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Sink interface {
	InsertRequestEvents(ctx context.Context, rows []clickhouse.RequestEventRow) error
}

type Worker struct {
	stream       Stream
	sink         Sink
	log          *logger.Logger
	pollInterval time.Duration
}

func NewWorker(stream Stream, sink Sink, log *logger.Logger, pollInterval time.Duration) *Worker {
	return &Worker{
		stream:       stream,
		sink:         sink,
		log:          log,
		pollInterval: pollInterval,
	}
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		messages, err := w.stream.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("Failed to read from stream: %v", err)
			w.sleep(ctx)
			continue
		}
		if len(messages) == 0 {
			continue
		}

		if err := w.ProcessBatch(ctx, messages); err != nil {
			w.log.Error("Failed to process batch, retrying in %v: %v", w.pollInterval, err)
			w.stream.Rewind()
			w.sleep(ctx)
		}
	}
}

// ProcessBatch stores a batch and acknowledges it. Malformed entries are
// acknowledged and skipped. Nothing is acknowledged when the insert fails, so
// the entries stay pending for this consumer.
func (w *Worker) ProcessBatch(ctx context.Context, messages []redis.XMessage) error {
	rows := make([]clickhouse.RequestEventRow, 0, len(messages))
	ids := make([]string, 0, len(messages))

	for _, msg := range messages {
		ids = append(ids, msg.ID)

		event, err := events.ParseRequestEvent(msg.Values)
		if err != nil {
			w.log.Warn("Skipping malformed event %s: %v", msg.ID, err)
			continue
		}
		rows = append(rows, ToRow(event))
	}

	if err := w.sink.InsertRequestEvents(ctx, rows); err != nil {
		return err
	}

	if err := w.stream.Ack(ctx, ids...); err != nil {
		return err
	}

	w.log.Debug("Stored %d request events (%d skipped)", len(rows), len(ids)-len(rows))
	return nil
}

func ToRow(e *events.RequestEvent) clickhouse.RequestEventRow {
	info := enrichment.Enrich(e.ClientIP, e.UserAgent)

	var isBot uint8
	if info.IsBot {
		isBot = 1
	}

	return clickhouse.RequestEventRow{
		EventID:        uuid.NewString(),
		RequestID:      e.RequestID,
		Method:         e.Method,
		Path:           e.Path,
		Status:         uint16(e.Status),
		DurationMs:     uint32(max(e.DurationMs, 0)),
		UserID:         e.UserID,
		OccurredAt:     time.UnixMilli(e.Timestamp).UTC(),
		IPAddress:      e.ClientIP,
		Network:        info.Network,
		UserAgent:      e.UserAgent,
		Browser:        info.Browser,
		BrowserVersion: info.BrowserVersion,
		OS:             info.OS,
		DeviceType:     info.DeviceType,
		IsBot:          isBot,
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}
