package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "COIN", cfg.Wallet.DefaultCurrency)
	assert.Equal(t, 30*time.Second, cfg.Cache.StatsTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("CACHE_COUPON_TTL", "90s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Cache.CouponTTL)
}

func TestLoad_ProductionSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "development keeps default secret", env: "development", secret: ""},
		{name: "production without secret", env: "production", secret: "", wantErr: true},
		{name: "production with default secret", env: "production", secret: DevJWTSecret, wantErr: true},
		{name: "production with real secret", env: "production", secret: "k3y-from-vault"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENVIRONMENT", tt.env)
			t.Setenv("JWT_SECRET", tt.secret)

			cfg, err := Load(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingJWTSecret)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.env, cfg.App.Environment)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("SEED_BALANCE", "250")
	assert.Equal(t, 250, GetIntEnv("SEED_BALANCE", 1))
	t.Setenv("SEED_BALANCE", "abc")
	assert.Equal(t, 1, GetIntEnv("SEED_BALANCE", 1))
}
