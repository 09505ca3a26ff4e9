// Package migrations embeds the SQL schema of a message store. Real stores are
// produced by the phone; this schema covers the subset the exporter reads and
// is used to build demo and test databases.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
