// Package migrations embeds the FlightRoute schema migrations for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
