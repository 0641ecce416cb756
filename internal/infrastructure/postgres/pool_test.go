package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/pkg/config"
)

func TestPoolConfigFor_LimitesDesdeConfiguracion(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		Host: "db.internal", Port: 5433, User: "app", Password: "x", DBName: "tienda", SSLMode: "disable",
		MaxConns: 8, MinConns: 20, MaxConnLifetime: 10 * time.Minute, MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(8), pc.MinConns, "el mínimo no supera al máximo")
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFor_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://u:p@pg.example.com:6543/otra?sslmode=require", Host: "ignorado"})
	require.NoError(t, err)

	assert.Equal(t, "pg.example.com", pc.ConnConfig.Host)
	assert.Equal(t, "otra", pc.ConnConfig.Database)
}
