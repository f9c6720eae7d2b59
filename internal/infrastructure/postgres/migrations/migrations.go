// Package migrations embebe los scripts SQL del esquema para que viajen dentro del binario.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
