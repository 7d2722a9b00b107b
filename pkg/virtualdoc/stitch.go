package virtualdoc

import (
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/idrisls/pkg/semtok"
)

// Spacer separates stitched fragments.
const Spacer = "\n\n"

var ErrInvalidSpan = errors.Base("invalid metadata span")

// Document is generated, read-only text plus the metadata spans over it.
type Document struct {
	Text  string
	Spans []semtok.Span
}

// Fragment is one piece of a reply. A label fragment carries no spans of
// its own and is highlighted as a module name over its whole length.
type Fragment struct {
	Text  string        `yaml:"text" json:"text"`
	Label bool          `yaml:"label,omitempty" json:"label,omitempty"`
	Spans []semtok.Span `yaml:"spans,omitempty" json:"spans,omitempty"`
}

// Label builds a fragment that will be highlighted as a module.
func Label(name string) Fragment {
	return Fragment{Text: name, Label: true}
}

type stitcher struct {
	text   []byte
	offset int
	spans  []semtok.Span
}

func (s *stitcher) add(text string, spans []semtok.Span, spanBase int) {
	for _, sp := range spans {
		s.spans = append(s.spans, sp.Shift(s.offset+spanBase))
	}
	s.text = append(s.text, text...)
	s.text = append(s.text, Spacer...)
	s.offset += utf8.RuneCountInString(text) + utf8.RuneCountInString(Spacer)
}

func (s *stitcher) document() Document {
	return Document{Text: string(s.text), Spans: s.spans}
}

// Stitch joins fragments in order, each followed by Spacer, shifting every
// fragment's spans by the number of characters that precede it.
func Stitch(fragments []Fragment) Document {
	s := &stitcher{spans: []semtok.Span{}}
	for _, f := range fragments {
		if f.Label {
			n := utf8.RuneCountInString(f.Text)
			var spans []semtok.Span
			if n > 0 {
				spans = []semtok.Span{{Start: 0, Length: n, Category: semtok.CategoryModule}}
			}
			s.add(f.Text, spans, 0)
			continue
		}
		s.add(f.Text, f.Spans, 0)
	}
	return s.document()
}

// Decl is a declaration returned when browsing a namespace.
type Decl struct {
	Name  string        `yaml:"name" json:"name"`
	Spans []semtok.Span `yaml:"spans" json:"spans"`
}

// BrowseNamespace lays out child namespaces first, then declarations.
func BrowseNamespace(subModules []string, decls []Decl) Document {
	fragments := make([]Fragment, 0, len(subModules)+len(decls))
	for _, m := range subModules {
		fragments = append(fragments, Label(m))
	}
	for _, d := range decls {
		fragments = append(fragments, Fragment{Text: d.Name, Spans: d.Spans})
	}
	return Stitch(fragments)
}

// Metavariable is an unsolved hole with its type. Spans are relative to
// Type.
type Metavariable struct {
	Name  string        `yaml:"name" json:"name"`
	Type  string        `yaml:"type" json:"type"`
	Spans []semtok.Span `yaml:"spans" json:"spans"`
}

// Metavariables lays out each hole as its name on one line and its type on
// the next.
func Metavariables(metavars []Metavariable) Document {
	s := &stitcher{spans: []semtok.Span{}}
	for _, m := range metavars {
		name := m.Name + "\n"
		s.add(name+m.Type, m.Spans, utf8.RuneCountInString(name))
	}
	return s.document()
}

// Validate checks that every span lies inside the text, is non-empty, and
// that spans are ordered by start.
func (d Document) Validate() error {
	n := utf8.RuneCountInString(d.Text)
	prev := 0
	for i, sp := range d.Spans {
		if sp.Length <= 0 || sp.Start < 0 || sp.End() > n {
			return errors.Errorf("span %d [%d,%d) outside text of length %d: %w", i, sp.Start, sp.End(), n, ErrInvalidSpan)
		}
		if sp.Start < prev {
			return errors.Errorf("span %d starts at %d before span %d at %d: %w", i, sp.Start, i-1, prev, ErrInvalidSpan)
		}
		prev = sp.Start
	}
	return nil
}

// Tokens encodes the document's spans as highlight tokens.
func (d Document) Tokens() ([]uint32, error) {
	return semtok.EncodeFlat(d.Text, d.Spans)
}
