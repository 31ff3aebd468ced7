package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add invoice notes", "add notes column to invoices")
		require.NoError(t, err)
		require.NotNil(t, mf)

		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
		assert.Contains(t, filepath.Base(mf.UpPath), "add_invoice_notes.up.sql")
		assert.Contains(t, filepath.Base(mf.DownPath), "add_invoice_notes.down.sql")
		assert.Len(t, mf.Version, 14)
	})

	t.Run("stubs carry the description", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "create payments table", "payments against invoices")
		require.NoError(t, err)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "create payments table")
		assert.Contains(t, string(up), "payments against invoices")
		assert.Contains(t, string(up), "UP migration")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
		assert.Contains(t, string(down), "DOWN migration")
	})

	t.Run("creates the migrations directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "migrations")

		_, err := CreateMigration(dir, "initial schema", "")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add invoice notes", "add_invoice_notes"},
		{"Add-Invoice-Notes", "add_invoice_notes"},
		{"create_payments_table", "create_payments_table"},
		{"UPPER CASE", "upper_case"},
		{"many   spaces", "many_spaces"},
		{"trailing space ", "trailing_space"},
		{"chars!@#$%stripped", "charsstripped"},
		{"v2 schema", "v2_schema"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists pairs once, sorted", func(t *testing.T) {
		dir := t.TempDir()

		for _, name := range []string{
			"20260101000000_create_customers.up.sql",
			"20260101000000_create_customers.down.sql",
			"20260102000000_create_invoices.up.sql",
			"20260102000000_create_invoices.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"20260101000000_create_customers",
			"20260102000000_create_invoices",
		}, migrations)
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
