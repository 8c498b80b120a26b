package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add banner table", "add_banner_table"},
		{"Add-Banner-Table", "add_banner_table"},
		{"add__banner__table", "add_banner_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"trailing_", "trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_Sequential(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add banner table", "Homepage banners")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, "000001_add_banner_table", first.BaseName())

	second, err := CreateMigration(dir, "Add-Index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	up, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_index")

	_, err = CreateMigration(dir, "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000010_later.up.sql", "000010_later.down.sql",
		"000002_second.up.sql", "000002_second.down.sql",
		"README.md", "bad_name.up.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	list, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].Version)
	assert.Equal(t, "second", list[0].Name)
	assert.NotEmpty(t, list[0].DownPath)
	assert.Equal(t, uint(10), list[1].Version)

	missing, err := ListMigrations(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestListMigrations_Repository(t *testing.T) {
	list, err := ListMigrations("../../../migrations")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, uint(1), list[0].Version)
	assert.Equal(t, "init_schema", list[0].Name)
	assert.NotEmpty(t, list[0].UpPath)
	assert.NotEmpty(t, list[0].DownPath)
}
