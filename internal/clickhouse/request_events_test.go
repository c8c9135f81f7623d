package clickhouse

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEvents_Live(t *testing.T) {
	addr := os.Getenv("CLICKHOUSE_ADDR")
	if addr == "" {
		t.Skip("CLICKHOUSE_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, Config{Addr: addr, Database: "audit_test", Username: "default"})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.EnsureSchema(ctx))

	path := "/api/test/" + uuid.NewString()
	now := time.Now().UTC()
	rows := []RequestEventRow{
		{EventID: uuid.NewString(), Method: "GET", Path: path, Status: 200, DurationMs: 4, OccurredAt: now},
		{EventID: uuid.NewString(), Method: "GET", Path: path, Status: 500, DurationMs: 8, OccurredAt: now},
	}
	require.NoError(t, client.InsertRequestEvents(ctx, rows))
	require.NoError(t, client.InsertRequestEvents(ctx, nil))

	stats, err := client.TopPaths(ctx, now.Add(-time.Minute), 1000)
	require.NoError(t, err)

	var found *PathStats
	for i := range stats {
		if stats[i].Path == path {
			found = &stats[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, uint64(2), found.Requests)
	assert.Equal(t, uint64(1), found.Errors)
	assert.InDelta(t, 6.0, found.AvgLatencyMs, 0.001)
}
