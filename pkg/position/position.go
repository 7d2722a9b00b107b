package position

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// Place is a zero-indexed (line, character) pair. It points before the
// character at Character on Line. Characters are Unicode code points.
type Place struct {
	Line      int
	Character int
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// ParsePlace reads the LINE:CHARACTER form produced by String.
func ParsePlace(s string) (Place, error) {
	var p Place
	if _, err := fmt.Sscanf(s, "%d:%d", &p.Line, &p.Character); err != nil {
		return p, errors.Errorf("parsing position %q: %w", s, err)
	}
	if p.Line < 0 || p.Character < 0 {
		return p, errors.Errorf("position %q is negative", s)
	}
	return p, nil
}

// Before reports whether p sorts strictly before o.
func (p Place) Before(o Place) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// Range is an ordered pair of places, Start <= End.
type Range struct {
	Start Place
	End   Place
}

func NewRange(startLine, startCol, endLine, endCol int) Range {
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Contains reports whether p lies in [Start, End).
func (r Range) Contains(p Place) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// GetLineAndColumn converts a character offset into a zero-based place.
// Offsets past the end of the text clamp to the end.
func GetLineAndColumn(text string, offset int) Place {
	var place Place
	i := 0
	for _, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			place.Line++
			place.Character = 0
		} else {
			place.Character++
		}
		i++
	}
	return place
}

// OffsetOf converts a place into a character offset. The second result is
// false when the place does not exist in the text.
func OffsetOf(text string, p Place) (int, bool) {
	if p.Line < 0 || p.Character < 0 {
		return 0, false
	}
	lines := strings.Split(text, "\n")
	if p.Line >= len(lines) {
		return 0, false
	}
	offset := 0
	for i := 0; i < p.Line; i++ {
		offset += utf8.RuneCountInString(lines[i]) + 1
	}
	if p.Character > utf8.RuneCountInString(lines[p.Line]) {
		return 0, false
	}
	return offset + p.Character, true
}

// End returns the place just after the final character of text.
func End(text string) Place {
	return GetLineAndColumn(text, utf8.RuneCountInString(text))
}

// AtOrBeyondEnd reports whether p is at the end of text or past it.
func AtOrBeyondEnd(text string, p Place) bool {
	return !p.Before(End(text))
}

// Lines splits text on newlines. A trailing newline yields a final empty line,
// matching how editors count lines.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}
