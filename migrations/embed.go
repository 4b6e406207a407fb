// Package migrations carries the cyclemate SQLite schema. app_state holds the
// serialized state document and app_lock holds the passcode hash.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var scripts embed.FS

// FS returns the numbered schema scripts. Scripts are append-only: a shipped
// script is never edited, a follow-up script is added instead.
func FS() fs.FS {
	return scripts
}
