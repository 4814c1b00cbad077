//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aqasim81/sql-script-runner/internal/database"
	"github.com/aqasim81/sql-script-runner/internal/executor"
)

const (
	postgresImage = "postgres:16-alpine"
	testDB        = "runscripts_test"
	testUser      = "runscripts"
	testPassword  = "P@ssw0rd"
)

// SetupPostgresDSN starts a PostgreSQL 16 container and returns its
// connection string. The container is terminated when the test completes.
func SetupPostgresDSN(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDB,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return "postgres://" + testUser + ":P%40ssw0rd@" + host + ":" + port.Port() + "/" + testDB + "?sslmode=disable"
}

// SetupPostgres starts a container and returns a connection for
// inspecting the database, closed when the test completes.
func SetupPostgres(t *testing.T) (*pgx.Conn, string) {
	t.Helper()

	dsn := SetupPostgresDSN(t)
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close(context.Background())
	})

	return conn, dsn
}

// WriteScripts writes each name/body pair into a fresh scripts directory.
func WriteScripts(t *testing.T, scripts map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, sql := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644))
	}

	return dir
}

// Connector opens real connections the way the CLI does.
func Connector(dsn string) executor.ConnectFunc {
	return func(ctx context.Context) (executor.Conn, error) {
		conn, err := database.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}

		return conn, nil
	}
}
