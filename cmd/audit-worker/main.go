package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/campusapi/internal/audit"
	"github.com/Varun5711/campusapi/internal/clickhouse"
	"github.com/Varun5711/campusapi/internal/config"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/redis"
)

const (
	reportInterval = 5 * time.Minute
	reportWindow   = time.Hour
	reportLimit    = 5
)

func main() {
	log := logger.New("audit-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	if !cfg.Redis.Enabled() {
		log.Fatal("REDIS_ADDR is required: request events are read from a Redis stream")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.NewClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	chClient, err := clickhouse.NewClient(ctx, clickhouse.Config{
		Addr:     cfg.ClickHouse.Addr,
		Database: cfg.ClickHouse.Database,
		Username: cfg.ClickHouse.Username,
		Password: cfg.ClickHouse.Password,
		MaxConns: cfg.ClickHouse.MaxConns,
	})
	if err != nil {
		log.Fatal("Failed to connect to ClickHouse: %v", err)
	}
	defer chClient.Close()

	if err := chClient.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to create request_events table: %v", err)
	}

	stream := audit.NewRedisStream(redisClient, cfg.Redis.StreamName, cfg.Audit.ConsumerGroup, cfg.Audit.ConsumerName, cfg.Audit.BatchSize, cfg.Audit.BlockTime)
	if err := stream.EnsureGroup(ctx); err != nil {
		log.Fatal("Failed to create consumer group: %v", err)
	}

	go report(ctx, stream, chClient, log)

	log.Info("Processing request events from %s as %s/%s", cfg.Redis.StreamName, cfg.Audit.ConsumerGroup, cfg.Audit.ConsumerName)
	audit.NewWorker(stream, chClient, log, cfg.Audit.PollInterval).Run(ctx)
	log.Info("Shutting down")
}

// report logs the stream size and the busiest routes of the last hour.
func report(ctx context.Context, stream *audit.RedisStream, ch *clickhouse.Client, log *logger.Logger) {
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if n, err := stream.Len(ctx); err != nil {
			log.Warn("%v", err)
		} else {
			log.Info("Request stream holds %d entries", n)
		}

		stats, err := ch.TopPaths(ctx, time.Now().Add(-reportWindow), reportLimit)
		if err != nil {
			log.Warn("Failed to query top paths: %v", err)
			continue
		}
		for _, s := range stats {
			log.Info("Last hour: %s %s requests=%d errors=%d avg=%.1fms", s.Method, s.Path, s.Requests, s.Errors, s.AvgLatencyMs)
		}
	}
}
