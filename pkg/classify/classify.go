package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/docstate"
	"github.com/walteh/idrisls/pkg/position"
)

var (
	openingFence = regexp.MustCompile("^\\s*(```|~~~)\\s*idris\\s*$")
	closingFence = regexp.MustCompile("^\\s*(```|~~~)\\s*$")
)

// Document is a text snapshot together with its dialect.
type Document struct {
	Text    string
	Dialect dialect.Dialect
}

// IsCode reports whether place lies in executable code.
func IsCode(doc Document, place position.Place) bool {
	state, ok := StateAt(doc, place)
	return ok && state == docstate.Code
}

// StateAt returns the lexical state at place. The second result is false
// when place is outside any code region: past the end of the document, on a
// prose line, or on a fence line.
func StateAt(doc Document, place position.Place) (docstate.State, bool) {
	if place.Line < 0 || place.Character < 0 || position.AtOrBeyondEnd(doc.Text, place) {
		return docstate.Code, false
	}

	switch doc.Dialect {
	case dialect.Plain:
		return docstate.Scan(doc.Text, place), true
	case dialect.Literate:
		return literateState(doc.Text, place)
	case dialect.Fenced:
		return fencedState(doc.Text, place)
	default:
		return docstate.Code, false
	}
}

// block is a run of lines [start, end) that is scanned in isolation.
type block struct {
	start int
	end   int
}

func (b block) scan(lines []string, place position.Place) docstate.State {
	sub := strings.Join(lines[b.start:b.end], "\n")
	rel := position.Place{Line: place.Line - b.start, Character: place.Character}
	return docstate.Scan(sub, rel)
}

// IsLiterateCodeLine reports whether a line of a literate file is code.
func IsLiterateCodeLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "> ")
}

func literateState(text string, place position.Place) (docstate.State, bool) {
	lines := position.Lines(text)
	if !IsLiterateCodeLine(lines[place.Line]) {
		return docstate.Code, false
	}

	b := block{start: place.Line, end: place.Line + 1}
	for b.start > 0 && IsLiterateCodeLine(lines[b.start-1]) {
		b.start--
	}
	for b.end < len(lines) && IsLiterateCodeLine(lines[b.end]) {
		b.end++
	}

	return b.scan(lines, place), true
}

// IsFence reports whether a markdown line opens or closes an idris block.
func IsFence(line string) bool {
	return openingFence.MatchString(line) || closingFence.MatchString(line)
}

func fencedState(text string, place position.Place) (docstate.State, bool) {
	lines := position.Lines(text)
	if IsFence(lines[place.Line]) {
		return docstate.Code, false
	}

	open := -1
	for i := place.Line - 1; i >= 0; i-- {
		if closingFence.MatchString(lines[i]) {
			return docstate.Code, false
		}
		if openingFence.MatchString(lines[i]) {
			open = i
			break
		}
	}
	if open < 0 {
		return docstate.Code, false
	}

	// an unterminated block runs to the end of the document
	b := block{start: open + 1, end: len(lines)}
	for i := place.Line + 1; i < len(lines); i++ {
		if closingFence.MatchString(lines[i]) {
			b.end = i
			break
		}
	}

	return b.scan(lines, place), true
}
