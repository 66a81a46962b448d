package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Database DatabaseConfig `env:",prefix=DB_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	Wallet   WalletConfig   `env:",prefix=WALLET_"`
	Cache    CacheConfig    `env:",prefix=CACHE_"`
	App      AppConfig      `env:",prefix=APP_"`

	JWTSecret string `env:"JWT_SECRET,default=change-me"`
}

// DevJWTSecret is the signing secret used when JWT_SECRET is unset. It is
// only accepted outside production.
const DevJWTSecret = "change-me"

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type ServerConfig struct {
	Port         string `env:"PORT,default=3000"`
	AllowOrigins string `env:"ALLOW_ORIGINS,default=http://localhost:5173"`
}

// DatabaseConfig holds store connection settings. Driver is "postgres" in
// every deployed environment; "sqlite" is accepted for local runs.
type DatabaseConfig struct {
	Driver          string        `env:"DRIVER,default=postgres"`
	Host            string        `env:"HOST,default=localhost"`
	Port            string        `env:"PORT,default=5432"`
	User            string        `env:"USER,default=postgres"`
	Password        string        `env:"PASSWORD,default=postgres"`
	Name            string        `env:"NAME,default=loyalty"`
	SSLMode         string        `env:"SSL_MODE,default=disable"`
	Path            string        `env:"PATH,default=loyalty.db"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS,default=100"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS,default=10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME,default=1h"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME,default=30m"`
}

type RedisConfig struct {
	Enabled  bool   `env:"ENABLED,default=true"`
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB,default=0"`
}

type WalletConfig struct {
	DefaultCurrency string `env:"DEFAULT_CURRENCY,default=COIN"`
}

type CacheConfig struct {
	CouponTTL time.Duration `env:"COUPON_TTL,default=5m"`
	StatsTTL  time.Duration `env:"STATS_TTL,default=30s"`
}

type AppConfig struct {
	Environment string `env:"ENVIRONMENT,default=development"`
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that are only safe for local runs.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return ErrMissingJWTSecret
	}
	return nil
}

// DSN returns the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Addr returns the redis address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction checks if the app runs in production mode.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
