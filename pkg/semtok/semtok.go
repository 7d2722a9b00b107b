package semtok

import (
	"fortio.org/safecast"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrMalformedMetadata is returned when a span covers a newline.
	ErrMalformedMetadata = errors.Base("metadata span crosses a line boundary")
	// ErrSpanOutOfRange is returned for empty spans or spans outside the text.
	ErrSpanOutOfRange = errors.Base("metadata span out of range")
	// ErrUnorderedSpans is returned when a span starts before the previous one ends.
	ErrUnorderedSpans = errors.Base("metadata spans out of order")
)

type encoder struct {
	text []rune

	pos  int
	line int
	char int

	lastLine  int
	lastStart int
}

// Encode converts ordered spans over text into delta-encoded tokens, one per
// span.
func Encode(text string, spans []Span) ([]Token, error) {
	enc := &encoder{text: []rune(text)}
	tokens := make([]Token, 0, len(spans))

	for i, span := range spans {
		if span.Length <= 0 || span.Start < 0 || span.End() > len(enc.text) {
			return nil, errors.Errorf("span %d [%d,%d) in text of length %d: %w", i, span.Start, span.End(), len(enc.text), ErrSpanOutOfRange)
		}
		if span.Start < enc.pos {
			return nil, errors.Errorf("span %d starts at %d before offset %d: %w", i, span.Start, enc.pos, ErrUnorderedSpans)
		}

		tok, err := enc.token(span)
		if err != nil {
			return nil, errors.Errorf("span %d: %w", i, err)
		}
		tokens = append(tokens, tok)
	}

	return tokens, nil
}

func (e *encoder) walkTo(offset int) {
	for e.pos < offset {
		if e.text[e.pos] == '\n' {
			e.line++
			e.char = 0
		} else {
			e.char++
		}
		e.pos++
	}
}

func (e *encoder) token(span Span) (Token, error) {
	e.walkTo(span.Start)

	deltaLine := e.line - e.lastLine
	deltaStart := e.char
	if deltaLine == 0 {
		deltaStart = e.char - e.lastStart
	}

	e.lastLine = e.line
	e.lastStart = e.char

	for e.pos < span.End() {
		if e.text[e.pos] == '\n' {
			return Token{}, errors.Errorf("newline at offset %d inside [%d,%d): %w", e.pos, span.Start, span.End(), ErrMalformedMetadata)
		}
		e.char++
		e.pos++
	}

	return newToken(deltaLine, deltaStart, span.Length, span.Category)
}

func newToken(deltaLine, deltaStart, length int, cat Category) (Token, error) {
	dl, err := safecast.Conv[uint32](deltaLine)
	if err != nil {
		return Token{}, errors.Errorf("line delta: %w", err)
	}
	ds, err := safecast.Conv[uint32](deltaStart)
	if err != nil {
		return Token{}, errors.Errorf("start delta: %w", err)
	}
	l, err := safecast.Conv[uint32](length)
	if err != nil {
		return Token{}, errors.Errorf("length: %w", err)
	}
	return Token{
		DeltaLine:  dl,
		DeltaStart: ds,
		Length:     l,
		Type:       cat.TokenType(),
		Modifiers:  0,
	}, nil
}

// Flatten lays tokens out as the five-integers-per-token array clients expect.
func Flatten(tokens []Token) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	for _, t := range tokens {
		data = append(data, t.DeltaLine, t.DeltaStart, t.Length, t.Type, t.Modifiers)
	}
	return data
}

// EncodeFlat is Encode followed by Flatten.
func EncodeFlat(text string, spans []Span) ([]uint32, error) {
	tokens, err := Encode(text, spans)
	if err != nil {
		return nil, err
	}
	return Flatten(tokens), nil
}
