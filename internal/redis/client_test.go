package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, Config{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

func TestNewClient_Live(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := NewClient(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("expected ping to succeed, got %v", err)
	}
	if stats := client.Stats(); stats.TotalConns == 0 {
		t.Error("expected at least one pooled connection")
	}
}
