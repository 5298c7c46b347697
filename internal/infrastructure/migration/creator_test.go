package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabinetquote/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add quotes table", "add_quotes_table"},
		{"Add-Quote-Index", "add_quote_index"},
		{"add__space__position", "add_space_position"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add item notes", "Free-form notes per cabinet item", at)
	require.NoError(t, err)

	assert.Equal(t, "20261019083000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20261019083000_add_item_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20261019083000_add_item_notes.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Free-form notes per cabinet item")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	_, err = createMigrationAt(dir, "add item notes", "", at)
	assert.Error(t, err, "existing files must not be overwritten")
}

func TestCreateMigration_EmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20261101000000_b.up.sql":   {},
		"20261101000000_b.down.sql": {},
		"20261019000000_a.up.sql":   {},
		"20261019000000_a.down.sql": {},
		"README.md":                 {},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20261019000000_a", "20261101000000_b"}, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		_, err := migrations.FS.Open(name + ".down.sql")
		assert.NoError(t, err, name)
	}
}
