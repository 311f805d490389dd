package postgres

import "embed"

// Migrations holds the golang-migrate schema files for the saves table,
// rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS
