package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffoldNumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	up, down, err := Scaffold(dir, "Add user table", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0001_add_user_table.up.sql"), up)
	assert.Equal(t, filepath.Join(dir, "0001_add_user_table.down.sql"), down)

	b, err := os.ReadFile(up)
	require.NoError(t, err)
	assert.Equal(t, "-- Add user table\n\n", string(b))

	up, _, err = Scaffold(dir, "add index on email!", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0002_add_index_on_email.up.sql"), up)
}

func TestScaffoldRespectsFloor(t *testing.T) {
	dir := t.TempDir()

	// The schema already carries versions from another source.
	up, _, err := Scaffold(dir, "first local change", 4)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0005_first_local_change.up.sql"), up)

	// On-disk files past the floor still win.
	up, _, err = Scaffold(dir, "second local change", 4)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0006_second_local_change.up.sql"), up)
}

func TestScaffoldCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	up, down, err := Scaffold(dir, "first", 0)
	require.NoError(t, err)
	assert.FileExists(t, up)
	assert.FileExists(t, down)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "add_user_table", slugify("Add user table"))
	assert.Equal(t, "fix_fk_on_orders", slugify("  Fix FK on orders!  "))
	assert.Equal(t, "migration", slugify("---"))
}
