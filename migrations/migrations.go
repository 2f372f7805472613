// Package migrations embeds the SQL schema for the config_documents store
// and the auth clients and tokens tables.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgresql/*.sql mysql/*.sql
var files embed.FS

// FS returns the migration files for driver ("postgres" or "mysql").
func FS(driver string) (fs.FS, error) {
	dir := "postgresql"
	switch driver {
	case "postgres":
	case "mysql":
		dir = "mysql"
	default:
		return nil, fmt.Errorf("unsupported migration driver %q", driver)
	}
	return fs.Sub(files, dir)
}
