/*
Package docstate answers a single question about Idris source text: what
lexical state holds at a given place?

The scanner is deliberately coarse. It knows about strings, comments and
doc comments and nothing else:

	State            Opens with   Closes with
	-----            ----------   -----------
	String           "            unescaped "
	MultiLineString  """          unescaped """
	LineComment      --           newline
	BlockComment     {-           first -}   (no nesting)
	DocComment       |||          newline

A quote is escaped when it is preceded by an odd number of backslashes.
*/
package docstate

import (
	"github.com/walteh/idrisls/pkg/position"
)

// State is the lexical state at a place in the text.
type State int

const (
	Code State = iota
	LineComment
	BlockComment
	DocComment
	String
	MultiLineString
)

func (s State) String() string {
	switch s {
	case Code:
		return "code"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	case DocComment:
		return "doc-comment"
	case String:
		return "string"
	case MultiLineString:
		return "multi-line-string"
	default:
		return "unknown"
	}
}

type delimiter int

const (
	noDelim delimiter = iota
	stringDelim
	multiLineStringDelim
	newLine
	startLineComment
	startBlockComment
	endBlockComment
	startDocComment
)

func nextState(current State, delim delimiter) State {
	switch current {
	case Code:
		switch delim {
		case stringDelim:
			return String
		case multiLineStringDelim:
			return MultiLineString
		case startLineComment:
			return LineComment
		case startBlockComment:
			return BlockComment
		case startDocComment:
			return DocComment
		default:
			return Code
		}
	case LineComment, DocComment:
		if delim == newLine {
			return Code
		}
		return current
	case BlockComment:
		if delim == endBlockComment {
			return Code
		}
		return current
	case String:
		if delim == stringDelim {
			return Code
		}
		return current
	case MultiLineString:
		if delim == multiLineStringDelim {
			return Code
		}
		return current
	default:
		return current
	}
}

// scanner is single-use: Scan builds a fresh one for every call.
type scanner struct {
	text  []rune
	end   position.Place
	state State
	line  int
	col   int
	pos   int
}

// Scan walks text from the start until it reaches end and returns the state
// it is in at that point. Scanning also stops at the end of the text.
func Scan(text string, end position.Place) State {
	s := &scanner{
		text:  []rune(text),
		end:   end,
		state: Code,
	}
	return s.run()
}

func (s *scanner) run() State {
	for !s.atEnd() && s.pos < len(s.text) {
		if delim := s.consumeDelim(); delim != noDelim {
			s.state = nextState(s.state, delim)
			continue
		}
		if s.text[s.pos] == '\n' {
			s.newLine()
		} else {
			s.col++
		}
		s.pos++
	}
	return s.state
}

// atEnd compares line and column independently. For an end column past the
// length of its line the scan carries on into following lines until some
// line is long enough.
func (s *scanner) atEnd() bool {
	return s.line >= s.end.Line && s.col >= s.end.Character
}

func (s *scanner) newLine() {
	s.line++
	s.col = 0
}

func (s *scanner) at(i int) rune {
	if i < 0 || i >= len(s.text) {
		return 0
	}
	return s.text[i]
}

func (s *scanner) lookingAt(prefix string) bool {
	i := s.pos
	for _, r := range prefix {
		if s.at(i) != r {
			return false
		}
		i++
	}
	return true
}

// escaped reports whether the character at pos has an odd run of
// backslashes directly before it.
func (s *scanner) escaped() bool {
	n := 0
	for s.at(s.pos-1-n) == '\\' {
		n++
	}
	return n%2 != 0
}

func (s *scanner) advance(n int) {
	s.pos += n
	s.col += n
}

func (s *scanner) consumeDelim() delimiter {
	switch s.state {
	case Code:
		switch {
		case s.lookingAt(`"""`):
			s.advance(3)
			return multiLineStringDelim
		case s.lookingAt(`"`):
			s.advance(1)
			return stringDelim
		case s.lookingAt("--"):
			s.advance(2)
			return startLineComment
		case s.lookingAt("{-"):
			s.advance(2)
			return startBlockComment
		case s.lookingAt("|||"):
			s.advance(3)
			return startDocComment
		}
	case LineComment, DocComment:
		if s.lookingAt("\n") {
			s.newLine()
			s.pos++
			return newLine
		}
	case BlockComment:
		if s.lookingAt("-}") {
			s.advance(2)
			return endBlockComment
		}
	case String:
		if s.lookingAt(`"`) && !s.escaped() {
			s.advance(1)
			return stringDelim
		}
	case MultiLineString:
		if s.lookingAt(`"""`) && !s.escaped() {
			s.advance(3)
			return multiLineStringDelim
		}
	}
	return noDelim
}
