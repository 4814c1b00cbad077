package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-script-runner/internal/database"
)

func TestParseConfig_validURL_populatesFields(t *testing.T) {
	t.Parallel()

	cfg, err := database.ParseConfig("postgres://loader:pw@db.internal:6543/app?sslmode=disable&connect_timeout=3")

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, uint16(6543), cfg.Port)
	assert.Equal(t, "loader", cfg.User)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, "app", cfg.Database)
}

func TestParseConfig_invalidURL_returnsInvalidURLError(t *testing.T) {
	t.Parallel()

	_, err := database.ParseConfig("postgres://u:p@localhost:5432/db?sslmode=sometimes")

	require.ErrorIs(t, err, database.ErrInvalidDatabaseURL)
}

func TestConnect_invalidURL_returnsInvalidURLError(t *testing.T) {
	t.Parallel()

	_, err := database.Connect(context.Background(), "not-a-valid-url")

	require.ErrorIs(t, err, database.ErrInvalidDatabaseURL)
}

func TestConnect_unreachableHost_returnsConnectionFailed(t *testing.T) {
	t.Parallel()

	// Port 1 on loopback refuses immediately.
	_, err := database.Connect(context.Background(),
		"postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=2")

	require.ErrorIs(t, err, database.ErrConnectionFailed)
}
