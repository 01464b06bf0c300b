package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_PORT", "")
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_DB", "")
	t.Setenv("POSTGRES_SSLMODE", "")
	t.Setenv("GO_ENV", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CART_SESSION_CACHE_SIZE", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 1024, cfg.CartSessionCacheSize)
	assert.True(t, cfg.IsDev())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=autoparts sslmode=disable", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", ":9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/x")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("GO_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "postgres://u:p@db/x", cfg.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.False(t, cfg.IsDev())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("POSTGRES_PORT", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_PORT")
}
