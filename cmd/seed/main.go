package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/cache"
	"github.com/Varun5711/campusapi/internal/config"
	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/idgen"
	"github.com/Varun5711/campusapi/internal/lock"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/qrcode"
	"github.com/Varun5711/campusapi/internal/redis"
	"github.com/Varun5711/campusapi/internal/service"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/tokens"
)

const (
	seedLockKey = "campusapi:seed"
	seedLockTTL = 2 * time.Minute
)

func main() {
	log := logger.New("seed")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	if cfg.Database.PrimaryDSN == "" {
		log.Fatal("DB_PRIMARY_DSN is required")
	}
	if err := auth.SetHashCost(cfg.Password.BcryptCost); err != nil {
		log.Fatal("Invalid BCRYPT_COST: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN: cfg.Database.PrimaryDSN,
		MaxConns:   2,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	idGen, err := idgen.NewGenerator(cfg.Snowflake.DatacenterID, cfg.Snowflake.WorkerID)
	if err != nil {
		log.Fatal("Failed to create ID generator: %v", err)
	}

	s := &seeder{
		svc: service.New(service.Dependencies{
			Repos:    storage.NewPostgresRepositories(dbManager),
			JWT:      auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn),
			Registry: tokens.NewMemoryRegistry(),
			Cache:    cache.NewMultiTierCache(16, nil, 0, ""),
			QR:       qrcode.NewGenerator(cfg.HTTP.BaseURL, 0),
			IDs:      idGen,
			Log:      log,
		}),
		log: log,
	}

	if !cfg.Redis.Enabled() {
		if err := s.run(ctx); err != nil {
			log.Fatal("Seeding failed: %v", err)
		}
		return
	}

	redisClient, err := redis.NewClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	err = lock.NewDistributedLock(redisClient, seedLockKey, seedLockTTL).Do(ctx, s.run)
	if errors.Is(err, lock.ErrLockNotAcquired) {
		log.Warn("Another seed run holds the lock, nothing to do")
		return
	}
	if err != nil {
		log.Fatal("Seeding failed: %v", err)
	}
}
