package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	JWT        JWTConfig        `yaml:"jwt"`
	Password   PasswordConfig   `yaml:"password"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Cache      CacheConfig      `yaml:"cache"`
	Audit      AuditConfig      `yaml:"audit"`
	Snowflake  SnowflakeConfig  `yaml:"snowflake"`

	// UsingDevSecret is set when JWT_SECRET was empty and the development secret is in use.
	UsingDevSecret bool `yaml:"-"`
}

type HTTPConfig struct {
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	GRPCHealthPort string        `yaml:"grpc_health_port" env:"GRPC_HEALTH_PORT" env-default:"9090"`
	BaseURL        string        `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DatabaseConfig struct {
	PrimaryDSN      string        `yaml:"primary_dsn" env:"DB_PRIMARY_DSN"`
	ReplicaDSNs     []string      `yaml:"replica_dsns" env:"DB_REPLICA_DSNS" env-separator:","`
	MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"25"`
	MinConns        int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig with an empty Addr means every shared store falls back to process memory.
type RedisConfig struct {
	Addr       string `yaml:"addr" env:"REDIS_ADDR"`
	Password   string `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	StreamName string `yaml:"stream_name" env:"REDIS_STREAM_NAME" env-default:"requests:stream"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type ClickHouseConfig struct {
	Addr     string `yaml:"addr" env:"CLICKHOUSE_ADDR" env-default:"localhost:9000"`
	Database string `yaml:"database" env:"CLICKHOUSE_DATABASE" env-default:"audit"`
	Username string `yaml:"username" env:"CLICKHOUSE_USERNAME" env-default:"default"`
	Password string `yaml:"password" env:"CLICKHOUSE_PASSWORD"`
	MaxConns int    `yaml:"max_conns" env:"CLICKHOUSE_MAX_CONNS" env-default:"10"`
}

type JWTConfig struct {
	Secret           string        `yaml:"secret" env:"JWT_SECRET"`
	AccessExpiresIn  time.Duration `yaml:"expires_in" env:"JWT_EXPIRES_IN" env-default:"1h"`
	RefreshExpiresIn time.Duration `yaml:"refresh_expires_in" env:"JWT_REFRESH_EXPIRES_IN" env-default:"168h"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

type RateLimitConfig struct {
	Requests      int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"100"`
	Window        time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"15m"`
	AuthRequests  int           `yaml:"auth_requests" env:"AUTH_RATE_LIMIT_REQUESTS" env-default:"5"`
	AuthWindow    time.Duration `yaml:"auth_window" env:"AUTH_RATE_LIMIT_WINDOW" env-default:"15m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"RATE_LIMIT_SWEEP_INTERVAL" env-default:"1m"`
}

type CacheConfig struct {
	L1Capacity int           `yaml:"l1_capacity" env:"CACHE_L1_CAPACITY" env-default:"1000"`
	L2TTL      time.Duration `yaml:"l2_ttl" env:"CACHE_L2_TTL" env-default:"10m"`
}

type AuditConfig struct {
	ConsumerGroup string        `yaml:"consumer_group" env:"AUDIT_CONSUMER_GROUP" env-default:"audit-group"`
	ConsumerName  string        `yaml:"consumer_name" env:"AUDIT_CONSUMER_NAME" env-default:"worker-1"`
	BatchSize     int           `yaml:"batch_size" env:"AUDIT_BATCH_SIZE" env-default:"100"`
	PollInterval  time.Duration `yaml:"poll_interval" env:"AUDIT_POLL_INTERVAL" env-default:"1s"`
	BlockTime     time.Duration `yaml:"block_time" env:"AUDIT_BLOCK_TIME" env-default:"5s"`
}

type SnowflakeConfig struct {
	DatacenterID int64 `yaml:"datacenter_id" env:"SNOWFLAKE_DATACENTER_ID" env-default:"1"`
	WorkerID     int64 `yaml:"worker_id" env:"SNOWFLAKE_WORKER_ID" env-default:"1"`
}

func Load() (*Config, error) {
	// Load .env if it exists (local dev), ignore if not (K8s uses ConfigMaps/Secrets)
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = devJWTSecret
		cfg.UsingDevSecret = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimit.Requests <= 0 || c.RateLimit.AuthRequests <= 0 {
		return fmt.Errorf("rate limit thresholds must be positive")
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.AuthWindow <= 0 {
		return fmt.Errorf("rate limit windows must be positive")
	}
	if c.JWT.AccessExpiresIn < 0 || c.JWT.RefreshExpiresIn < 0 {
		return fmt.Errorf("token lifetimes must not be negative")
	}
	return nil
}
