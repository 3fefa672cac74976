package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLoadsEmbeddedSet(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)

	migrations := src.Migrations()
	require.Len(t, migrations, 4)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, "widen_container_status", migrations[1].Name)
	assert.Equal(t, "container_status_notify_trigger", migrations[2].Name)
	assert.Equal(t, "add_suspended_subscription_status", migrations[3].Name)
	assert.Equal(t, int64(4), src.MaxVersion())

	for _, m := range migrations {
		assert.NotEmpty(t, m.UpSQL, m.UpFilename())
		assert.NotEmpty(t, m.DownSQL, m.DownFilename())
	}
}

func TestInitialSchemaCoversAllTables(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)

	initial, ok := src.Get(1)
	require.True(t, ok)
	for _, table := range Tables {
		assert.Contains(t, initial.UpSQL, "CREATE TABLE "+table, "missing table %s", table)
		assert.Contains(t, initial.DownSQL, "DROP TABLE IF EXISTS "+table)
	}
	for _, typ := range EnumTypes {
		assert.True(t,
			strings.Contains(initial.UpSQL, "CREATE TYPE "+typ),
			"missing enum type %s", typ)
	}
}

func TestTablesOrderedChildrenFirst(t *testing.T) {
	index := make(map[string]int, len(Tables))
	for i, table := range Tables {
		index[table] = i
	}

	// Referencing tables must come before the tables they reference so a
	// drop loop never trips a foreign key.
	assert.Less(t, index["orders"], index["users"])
	assert.Less(t, index["orders"], index["subscription_types"])
	assert.Less(t, index["subscriptions"], index["users"])
	assert.Less(t, index["containers"], index["users"])
	assert.Less(t, index["containers"], index["images"])
}
