// Package edits cleans up text returned by interactive-editing replies and
// works out where it should go. Applying the edits is left to the editor.
package edits

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/walteh/idrisls/pkg/dialect"
)

var (
	repeatedPrefix = regexp.MustCompile(`^(> )+`)
	caseBlock      = regexp.MustCompile(`(\s+)case block in \w+ at .*? _ (.*?)$`)
	indentedText   = regexp.MustCompile(`^\s+\S+`)
	literateBlank  = regexp.MustCompile(`^>\s*$`)
)

// TrimHole drops the leading '?' of a hole name.
func TrimHole(name string) string {
	return strings.TrimPrefix(name, "?")
}

// FixLiteratePrefix repairs literate replies that come back with the "> "
// prefix repeated. The first line's repeats are dropped, and repeats on
// later lines become indentation.
func FixLiteratePrefix(s string) string {
	if !strings.HasPrefix(s, "> > ") {
		return s
	}
	width := utf8.RuneCountInString(repeatedPrefix.FindString(s))

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		sliced := ""
		if runes := []rune(line); width < len(runes) {
			sliced = string(runes[width:])
		}
		if extra := repeatedPrefix.FindString(sliced); extra != "" {
			lines[i] = "> " + strings.Repeat(" ", len(extra)) + sliced[len(extra):]
		} else {
			lines[i] = "> " + sliced
		}
	}
	return strings.Join(lines, "\n")
}

// CaseBlockStatement trims the "case block in f at file:l:c-c _" noise that
// add-missing replies carry when run inside a case expression, keeping the
// indentation. The clause is rewritten with "=>" and a doubled "??" is
// collapsed.
func CaseBlockStatement(reply string) string {
	m := caseBlock.FindStringSubmatch(reply)
	if m == nil {
		return reply
	}
	indent, stmt := m[1], m[2]
	stmt = strings.Replace(stmt, "=", "=>", 1)
	stmt = strings.Replace(stmt, "??", "?", 1)
	return indent + stmt
}

// LineAfterDecl returns the first line after declLine that is not indented,
// which is where a new clause goes. It may be len(lines).
func LineAfterDecl(lines []string, declLine int) int {
	for next := declLine + 1; next <= len(lines); next++ {
		if next == len(lines) || !indentedText.MatchString(lines[next]) {
			return next
		}
	}
	return declLine + 1
}

// PrevEmptyLine returns the closest blank line above fromLine. In literate
// files a bare ">" counts as blank.
func PrevEmptyLine(lines []string, fromLine int, d dialect.Dialect) int {
	for line := min(fromLine-1, len(lines)-1); line > 0; line-- {
		if isBlank(lines[line], d) {
			return line
		}
	}
	return fromLine - 1
}

func isBlank(line string, d dialect.Dialect) bool {
	switch d {
	case dialect.Literate:
		return literateBlank.MatchString(line)
	case dialect.Plain, dialect.Fenced:
		return strings.TrimSpace(line) == ""
	default:
		return strings.TrimSpace(line) == ""
	}
}

// Indent returns the leading whitespace of line.
func Indent(line string) string {
	return line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
}

// NewLine is what starts an inserted declaration in the given dialect.
func NewLine(d dialect.Dialect) string {
	if d == dialect.Literate {
		return "> \n"
	}
	return "\n"
}
