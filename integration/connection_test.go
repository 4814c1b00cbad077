//go:build integration

package integration

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-script-runner/internal/database"
)

func TestConnect_validConnection_succeeds(t *testing.T) {
	t.Parallel()

	dsn := SetupPostgresDSN(t)
	ctx := context.Background()

	conn, err := database.Connect(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close(context.Background())
	})

	var result int

	err = conn.QueryRow(ctx, "SELECT 1").Scan(&result)
	require.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestConnect_wrongPassword_returnsConnectionFailed(t *testing.T) {
	t.Parallel()

	dsn := SetupPostgresDSN(t)
	cfg, err := database.ParseConfig(dsn)
	require.NoError(t, err)

	bad := "postgres://" + cfg.User + ":wrong@" + cfg.Host + ":" +
		strconv.Itoa(int(cfg.Port)) + "/" + cfg.Database + "?sslmode=disable"

	_, err = database.Connect(context.Background(), bad)

	require.ErrorIs(t, err, database.ErrConnectionFailed)
}
