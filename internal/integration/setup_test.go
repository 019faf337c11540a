package integration

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Hamzabaloch08/taskApp-backend/internal/db"
	"github.com/Hamzabaloch08/taskApp-backend/internal/ids"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// openDB migrates and connects to DATABASE_URL, skipping the test when it is
// not set.
func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, db.Migrate(dsn))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// uniqueEmail keeps runs against a shared database independent.
func uniqueEmail(prefix string) string {
	return prefix + "-" + strings.ToLower(ids.New()) + "@example.com"
}
