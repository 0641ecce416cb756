package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "naturalmede-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.RabbitMQ.Enabled())
	assert.False(t, cfg.Wompi.RequireSignature, "en development se aceptan webhooks sin secreto")
	assert.Equal(t, "COP", cfg.Wompi.Currency)
	assert.Equal(t, 365, cfg.Audit.DefaultRetentionDays)
}

func TestLoad_ProduccionExigeSecretoJWT(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProduccionExigeFirmaWompi(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Wompi.RequireSignature)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "tienda", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/tienda?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestLoad_PoolDeConexiones(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MAX_CONN_LIFETIME", "15m")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 2*time.Minute, cfg.DB.MaxConnIdleTime)
}
