package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/cache"
	"github.com/Varun5711/campusapi/internal/config"
	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/events"
	"github.com/Varun5711/campusapi/internal/handlers"
	"github.com/Varun5711/campusapi/internal/healthcheck"
	"github.com/Varun5711/campusapi/internal/idgen"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/middleware"
	"github.com/Varun5711/campusapi/internal/qrcode"
	"github.com/Varun5711/campusapi/internal/ratelimit"
	"github.com/Varun5711/campusapi/internal/redis"
	"github.com/Varun5711/campusapi/internal/service"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/tokens"
	redislib "github.com/redis/go-redis/v9"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	streamMaxLen        = 100000
	healthCheckInterval = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
	qrCodeSize          = 256
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(probe())
	}

	log := logger.New("api-server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	if cfg.UsingDevSecret {
		log.Warn("JWT_SECRET is not set, signing tokens with the development secret")
	}
	if err := auth.SetHashCost(cfg.Password.BcryptCost); err != nil {
		log.Fatal("Invalid BCRYPT_COST: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idGen, err := idgen.NewGenerator(cfg.Snowflake.DatacenterID, cfg.Snowflake.WorkerID)
	if err != nil {
		log.Fatal("Failed to create ID generator: %v", err)
	}

	checks := map[string]healthcheck.Check{}

	var repos storage.Repositories
	if cfg.Database.PrimaryDSN == "" {
		log.Warn("DB_PRIMARY_DSN is not set, data is kept in process memory and lost on exit")
		repos = storage.NewMemoryStorage().Repositories()
	} else {
		dbManager, err := database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.PrimaryDSN,
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer func() {
			for _, st := range dbManager.Stats() {
				log.Debug("Pool %s: %d total, %d idle, %d acquired", st.Name, st.Total, st.Idle, st.Acquired)
			}
			dbManager.Close()
		}()

		repos = storage.NewPostgresRepositories(dbManager)
		checks["database"] = dbManager.Ping
	}

	var (
		registry  tokens.Registry
		rateStore ratelimit.Store
		publisher middleware.EventPublisher
		l2        redislib.Cmdable
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		registry = tokens.NewRedisRegistry(redisClient)
		rateStore = ratelimit.NewRedisStore(redisClient, "ratelimit:")
		publisher = events.NewRequestProducer(redisClient.Client, cfg.Redis.StreamName, streamMaxLen)
		l2 = redisClient
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else {
		log.Warn("REDIS_ADDR is not set, rate limits and refresh tokens are per process")
		memRegistry := tokens.NewMemoryRegistry()
		go memRegistry.Run(ctx, cfg.RateLimit.SweepInterval)
		registry = memRegistry
		memStore := ratelimit.NewMemoryStore()
		go memStore.Run(ctx, cfg.RateLimit.SweepInterval)
		rateStore = memStore
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)

	services := service.New(service.Dependencies{
		Repos:    repos,
		JWT:      jwtManager,
		Registry: registry,
		Cache:    cache.NewMultiTierCache(cfg.Cache.L1Capacity, l2, cfg.Cache.L2TTL, "cache:"),
		QR:       qrcode.NewGenerator(cfg.HTTP.BaseURL, qrCodeSize),
		IDs:      idGen,
		Log:      log,
	})

	router := handlers.NewRouter(handlers.RouterConfig{
		Services:  services,
		Tokens:    jwtManager,
		RateStore: rateStore,
		RateLimit: cfg.RateLimit,
		Publisher: publisher,
		Checks:    checks,
		Log:       log,
	})

	healthServer := healthcheck.NewServer(checks, log.With("component", "grpc-health"))
	listener, err := net.Listen("tcp", ":"+cfg.HTTP.GRPCHealthPort)
	if err != nil {
		log.Fatal("Failed to listen on :%s: %v", cfg.HTTP.GRPCHealthPort, err)
	}
	go func() {
		if err := healthServer.Serve(listener); err != nil {
			log.Error("gRPC health server stopped: %v", err)
		}
	}()
	go healthServer.Watch(ctx, healthCheckInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Listening on :%s (gRPC health on :%s)", cfg.HTTP.Port, cfg.HTTP.GRPCHealthPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed: %v", err)
	}
}

// probe backs the container health check: exit 0 only while the local
// health service reports SERVING.
func probe() int {
	port := os.Getenv("GRPC_HEALTH_PORT")
	if port == "" {
		port = "9090"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	status, err := healthcheck.Probe(ctx, "localhost:"+port, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println(status)
	if status != healthpb.HealthCheckResponse_SERVING {
		return 1
	}
	return 0
}
