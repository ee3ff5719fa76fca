package ironlog

import "embed"

// MigrationsFS holds the schema migrations for every supported database driver,
// one subdirectory per driver.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var MigrationsFS embed.FS
