// Package migrations embeds the versioned SQL for the browseterm schema.
package migrations

import (
	"embed"

	"github.com/browseterm/browseterm-db/internal/migrate"
)

//go:embed sql/*.sql
var files embed.FS

// Source loads the embedded migration set.
func Source() (*migrate.Source, error) {
	return migrate.LoadSource(files, "sql")
}

// Tables lists every table the embedded migrations create, children first.
// Used by destructive tooling (init) to clear a database.
var Tables = []string{
	"orders",
	"subscriptions",
	"containers",
	"subscription_types",
	"images",
	"users",
}

// EnumTypes lists the custom Postgres types the migrations create.
var EnumTypes = []string{
	"order_status",
	"subscription_status",
	"currency",
	"container_status",
	"auth_provider",
}
