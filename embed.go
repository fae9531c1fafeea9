package moneydrop

import "embed"

// MigrationsFS holds the embedded SQL migrations applied on startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
