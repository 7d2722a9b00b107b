package diagnostic

import (
	"encoding/json"
	"sort"
)

// Collection holds diagnostics per resolved file. It is driven from the
// host's single event loop and is not safe for concurrent use.
type Collection struct {
	files map[string][]Diagnostic
}

func NewCollection() *Collection {
	return &Collection{files: make(map[string][]Diagnostic)}
}

// Append adds d to its file's list. Nothing is replaced or deduplicated.
func (c *Collection) Append(d Diagnostic) {
	c.files[d.Path] = append(c.files[d.Path], d)
}

func (c *Collection) Get(path string) []Diagnostic {
	return c.files[path]
}

// Clear drops one file's diagnostics, e.g. when its document is closed.
func (c *Collection) Clear(path string) {
	delete(c.files, path)
}

func (c *Collection) Reset() {
	c.files = make(map[string][]Diagnostic)
}

// Files returns the paths that have diagnostics, sorted.
func (c *Collection) Files() []string {
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type lspPlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type lspRange struct {
	Start lspPlace `json:"start"`
	End   lspPlace `json:"end"`
}

type lspDiagnostic struct {
	Severity int      `json:"severity"`
	Message  string   `json:"message"`
	Range    lspRange `json:"range"`
	Source   string   `json:"source"`
}

// MarshalJSON renders the collection as a map from path to LSP-shaped
// diagnostics.
func (c *Collection) MarshalJSON() ([]byte, error) {
	out := make(map[string][]lspDiagnostic, len(c.files))
	for path, diags := range c.files {
		list := make([]lspDiagnostic, 0, len(diags))
		for _, d := range diags {
			list = append(list, lspDiagnostic{
				Severity: int(d.Severity),
				Message:  d.Message,
				Source:   "idris",
				Range: lspRange{
					Start: lspPlace{Line: d.Range.Start.Line, Character: d.Range.Start.Character},
					End:   lspPlace{Line: d.Range.End.Line, Character: d.Range.End.Character},
				},
			})
		}
		out[path] = list
	}
	return json.Marshal(out)
}
