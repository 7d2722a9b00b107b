package hover

import (
	"context"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/walteh/idrisls/pkg/classify"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/position"
)

// Action is what a hover asks the Idris process for.
type Action int

const (
	ActionTypeOf Action = iota
	ActionTypeAt
	ActionNothing
)

func (a Action) String() string {
	switch a {
	case ActionTypeOf:
		return "Type Of"
	case ActionTypeAt:
		return "Type At"
	case ActionNothing:
		return "Nothing"
	default:
		return "unknown"
	}
}

// Term is the word under the cursor.
type Term struct {
	Name  string
	Range position.Range
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' || r == '.'
}

// WordAt returns the identifier touching place, if any.
func WordAt(text string, place position.Place) (Term, bool) {
	lines := position.Lines(text)
	if place.Line < 0 || place.Line >= len(lines) {
		return Term{}, false
	}
	line := []rune(lines[place.Line])
	if place.Character < 0 || place.Character > len(line) {
		return Term{}, false
	}

	start, end := place.Character, place.Character
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	for end < len(line) && isWordRune(line[end]) {
		end++
	}
	if start == end {
		return Term{}, false
	}

	return Term{
		Name:  string(line[start:end]),
		Range: position.NewRange(place.Line, start, place.Line, end),
	}, true
}

// CurrentWord is WordAt with one markdown adjustment: word boundaries there
// leave out a preceding '?', so holes are widened to include it.
func CurrentWord(doc classify.Document, place position.Place) (Term, bool) {
	term, ok := WordAt(doc.Text, place)
	if !ok {
		return term, false
	}
	if doc.Dialect != dialect.Fenced {
		return term, true
	}
	line := []rune(position.Lines(doc.Text)[term.Range.Start.Line])
	if s := term.Range.Start.Character; s > 0 && line[s-1] == '?' {
		term.Range.Start.Character--
		term.Name = "?" + term.Name
	}
	return term, true
}

// Target decides what, if anything, a hover at place should ask about. It
// stays silent outside code and when hovering is switched off.
func Target(ctx context.Context, action Action, doc classify.Document, place position.Place) (Term, bool) {
	if action == ActionNothing {
		return Term{}, false
	}
	if !classify.IsCode(doc, place) {
		zerolog.Ctx(ctx).Trace().Stringer("place", place).Msg("hover outside code")
		return Term{}, false
	}
	return CurrentWord(doc, place)
}
