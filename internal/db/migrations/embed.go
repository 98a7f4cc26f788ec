package migrations

import "embed"

// FS contiene los scripts SQL aplicados por goose al arrancar.
//
//go:embed *.sql
var FS embed.FS
