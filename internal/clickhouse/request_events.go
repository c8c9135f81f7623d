package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// RequestEventRow is one row of request_events.
type RequestEventRow struct {
	EventID        string
	RequestID      string
	Method         string
	Path           string
	Status         uint16
	DurationMs     uint32
	UserID         int64
	OccurredAt     time.Time
	IPAddress      string
	Network        string
	UserAgent      string
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
	IsBot          uint8
}

const requestEventsDDL = `
CREATE TABLE IF NOT EXISTS %s.request_events (
	event_id        String,
	request_id      String,
	method          LowCardinality(String),
	path            String,
	status          UInt16,
	duration_ms     UInt32,
	user_id         Int64,
	occurred_at     DateTime64(3),
	ip_address      String,
	network         LowCardinality(String),
	user_agent      String,
	browser         LowCardinality(String),
	browser_version String,
	os              LowCardinality(String),
	device_type     LowCardinality(String),
	is_bot          UInt8
) ENGINE = MergeTree
PARTITION BY toYYYYMM(occurred_at)
ORDER BY (occurred_at, path)
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	if err := c.conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", c.database)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", c.database, err)
	}
	if err := c.conn.Exec(ctx, fmt.Sprintf(requestEventsDDL, c.database)); err != nil {
		return fmt.Errorf("failed to create request_events: %w", err)
	}
	return nil
}

func (c *Client) InsertRequestEvents(ctx context.Context, rows []RequestEventRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO %s.request_events (
		event_id, request_id, method, path, status, duration_ms, user_id, occurred_at,
		ip_address, network, user_agent, browser, browser_version, os, device_type, is_bot
	)`, c.database))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, r := range rows {
		err := batch.Append(
			r.EventID,
			r.RequestID,
			r.Method,
			r.Path,
			r.Status,
			r.DurationMs,
			r.UserID,
			r.OccurredAt,
			r.IPAddress,
			r.Network,
			r.UserAgent,
			r.Browser,
			r.BrowserVersion,
			r.OS,
			r.DeviceType,
			r.IsBot,
		)
		if err != nil {
			batch.Abort()
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

type PathStats struct {
	Method       string
	Path         string
	Requests     uint64
	Errors       uint64
	AvgLatencyMs float64
}

// TopPaths returns the busiest routes since the given time.
func (c *Client) TopPaths(ctx context.Context, since time.Time, limit int) ([]PathStats, error) {
	query := fmt.Sprintf(`
		SELECT
			method,
			path,
			count() AS requests,
			countIf(status >= 500) AS errors,
			avg(duration_ms) AS avg_latency
		FROM %s.request_events
		WHERE occurred_at >= ?
		GROUP BY method, path
		ORDER BY requests DESC
		LIMIT ?
	`, c.database)

	rows, err := c.conn.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query path stats: %w", err)
	}
	defer rows.Close()

	var stats []PathStats
	for rows.Next() {
		var s PathStats
		if err := rows.Scan(&s.Method, &s.Path, &s.Requests, &s.Errors, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stats, nil
}
