// Package assets embeds the default lexicon and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed lexicon.yaml sql/*.sql
var FS embed.FS

// Lexicon returns the raw default lexicon document.
func Lexicon() ([]byte, error) {
	return FS.ReadFile("lexicon.yaml")
}

// Migrations returns the migration files rooted at sql/.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
