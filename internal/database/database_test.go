package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "gfps", SSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=gfps sslmode=require", ConnString(cfg))
}

func TestPoolConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "gfps", SSLMode: "disable",
		MaxConnections: 8, MaxIdleConnections: 3,
	}

	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 5*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "gfps", pc.ConnConfig.Database)
	assert.Equal(t, uint16(5432), pc.ConnConfig.Port)
}

func TestPoolConfigClampsIdleToMax(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "gfps", SSLMode: "disable",
		MaxConnections: 2, MaxIdleConnections: 5,
	}

	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, pc.MaxConns, pc.MinConns)
}

func TestSchemaCoversRequiredTables(t *testing.T) {
	for _, table := range RequiredTables {
		assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestSchemaAgainstDatabase(t *testing.T) {
	db := SetupTestDB(t)

	missing, err := db.MissingTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)
}
