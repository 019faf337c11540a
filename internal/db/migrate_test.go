package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/tasks?sslmode=disable",
		MigrationURL("postgres://u:p@localhost:5432/tasks?sslmode=disable"))
	assert.Equal(t, "pgx5://localhost/tasks", MigrationURL("postgresql://localhost/tasks"))
	assert.Equal(t, "pgx5://already", MigrationURL("pgx5://already"))
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	require.Len(t, names, 4)

	ups := 0
	for _, n := range names {
		if strings.HasSuffix(n, ".up.sql") {
			ups++
		}
	}
	assert.Equal(t, 2, ups)
	assert.Equal(t, "000001_create_users.down.sql", names[0])
}
