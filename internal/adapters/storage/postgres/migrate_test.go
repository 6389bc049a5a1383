package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_PairedAndConstrained(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
	assert.Positive(t, ups)

	raw, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)
	sql := string(raw)

	for _, want := range []string{
		"UNIQUE (request_id, walker_id)",
		"walk_applications_one_assigned_idx",
		"ON DELETE CASCADE",
		"CREATE TABLE IF NOT EXISTS walk_events",
	} {
		assert.Contains(t, sql, want)
	}
}
