package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_replies.sql", "001_tickets.sql", "notes.md", "003_users.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_tickets.sql", "002_replies.sql", "003_users.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}
