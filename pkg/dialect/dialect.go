package dialect

import (
	"path/filepath"
	"strings"
)

// Dialect is the flavour of an Idris document.
type Dialect int

const (
	// Plain is an ordinary .idr source file.
	Plain Dialect = iota
	// Literate is a .lidr file where code lines start with "> ".
	Literate
	// Fenced is a markdown file with ```idris code blocks.
	Fenced
)

func (d Dialect) String() string {
	switch d {
	case Plain:
		return "idris"
	case Literate:
		return "lidr"
	case Fenced:
		return "markdown"
	default:
		return "unknown"
	}
}

// FromLanguageID maps an editor language id onto a dialect.
func FromLanguageID(id string) (Dialect, bool) {
	switch strings.ToLower(id) {
	case "idris":
		return Plain, true
	case "lidr":
		return Literate, true
	case "markdown":
		return Fenced, true
	default:
		return Plain, false
	}
}

// FromFilename picks the dialect from a file extension.
func FromFilename(name string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".idr":
		return Plain, true
	case ".lidr":
		return Literate, true
	case ".md", ".markdown":
		return Fenced, true
	default:
		return Plain, false
	}
}
