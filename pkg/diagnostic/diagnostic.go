package diagnostic

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/position"
)

var ErrUnresolvablePath = errors.Base("relative diagnostic path with no working directory")

// Mode is the protocol generation spoken by the Idris process.
type Mode int

const (
	// ModeLegacy is Idris 1: one-indexed positions.
	ModeLegacy Mode = iota
	// ModeCurrent is Idris 2: zero-indexed positions.
	ModeCurrent
)

func ModeFor(idris2 bool) Mode {
	if idris2 {
		return ModeCurrent
	}
	return ModeLegacy
}

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// Convention is how a record's line and column numbers are counted.
type Convention int

const (
	OneIndexed Convention = iota
	ZeroIndexed
	// ZeroIndexedLiterate is zero-indexed with columns that do not count the
	// two-character "> " prefix of literate code lines.
	ZeroIndexedLiterate
)

// ConventionFor picks the indexing convention. It never looks at the
// record's content.
func ConventionFor(mode Mode, d dialect.Dialect) Convention {
	switch mode {
	case ModeLegacy:
		return OneIndexed
	case ModeCurrent:
		switch d {
		case dialect.Literate:
			return ZeroIndexedLiterate
		case dialect.Plain, dialect.Fenced:
			return ZeroIndexed
		}
	}
	return ZeroIndexed
}

// ToEditor converts a range in the convention into a zero-indexed editor range.
func (c Convention) ToEditor(start, end position.Place) position.Range {
	switch c {
	case OneIndexed:
		// the end column is already exclusive, so only its line moves
		return position.Range{Start: shift(start, -1, -1), End: shift(end, -1, 0)}
	case ZeroIndexedLiterate:
		return position.Range{Start: shift(start, 0, 2), End: shift(end, 0, 2)}
	case ZeroIndexed:
		return position.Range{Start: start, End: end}
	default:
		return position.Range{Start: start, End: end}
	}
}

func shift(p position.Place, lines, cols int) position.Place {
	return position.Place{
		Line:      max(p.Line+lines, 0),
		Character: max(p.Character+cols, 0),
	}
}

func oneIndexed(places ...position.Place) bool {
	for _, p := range places {
		if p.Line < 1 || p.Character < 1 {
			return false
		}
	}
	return true
}

// Severity of a diagnostic, numbered as LSP clients expect.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Record is a diagnostic as reported by the Idris process, in the process's
// own coordinates.
type Record struct {
	Filename string
	Start    position.Place
	End      position.Place
	Message  string
	Dialect  dialect.Dialect
}

// NewRecord builds a record, taking the dialect from the file extension.
func NewRecord(filename string, start, end position.Place, message string) Record {
	d, _ := dialect.FromFilename(filename)
	return Record{
		Filename: filename,
		Start:    start,
		End:      end,
		Message:  message,
		Dialect:  d,
	}
}

// Diagnostic is a record projected into editor coordinates.
type Diagnostic struct {
	Path     string
	Range    position.Range
	Message  string
	Severity Severity
}

var (
	locationBlock = regexp.MustCompile(`.*:\d+:\d+--\d+:\d+\n(?:.|\n)*?(?:\n\n|\n$)`)
	parseLine     = regexp.MustCompile(`Parse error at line \d+:\d+:\n`)
)

// CleanMessage removes the source location and code excerpt the process
// embeds in its messages, along with any "Parse error at line L:C:" header.
func CleanMessage(msg string) string {
	msg = replaceFirst(parseLine, msg)
	msg = replaceFirst(locationBlock, msg)
	return strings.TrimSpace(msg)
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// Resolve turns a reported filename into an absolute path. Relative names
// are joined onto workDir.
func Resolve(filename, workDir string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	if workDir == "" {
		return "", errors.Errorf("resolving %q: %w", filename, ErrUnresolvablePath)
	}
	return filepath.Join(workDir, filename), nil
}

// Mapper projects records from one session into a Collection.
type Mapper struct {
	mode       Mode
	workDir    string
	collection *Collection
	warnOnce   sync.Once
}

func NewMapper(mode Mode, workDir string, collection *Collection) *Mapper {
	return &Mapper{
		mode:       mode,
		workDir:    workDir,
		collection: collection,
	}
}

func (m *Mapper) Collection() *Collection {
	return m.collection
}

// Map converts rec into editor coordinates. It reports false when the record
// has to be dropped because its path cannot be resolved; the first such drop
// in a session is logged as a warning.
func (m *Mapper) Map(ctx context.Context, rec Record) (Diagnostic, bool) {
	path, err := Resolve(rec.Filename, m.workDir)
	if err != nil {
		m.warnOnce.Do(func() {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("no working directory configured, diagnostics with relative paths are dropped")
		})
		zerolog.Ctx(ctx).Debug().Str("filename", rec.Filename).Msg("dropping diagnostic")
		return Diagnostic{}, false
	}

	conv := ConventionFor(m.mode, rec.Dialect)
	if conv == OneIndexed && !oneIndexed(rec.Start, rec.End) {
		zerolog.Ctx(ctx).Debug().Str("filename", rec.Filename).
			Stringer("start", rec.Start).Stringer("end", rec.End).
			Msg("one-indexed record has a zero line or column, clamping")
	}
	return Diagnostic{
		Path:     path,
		Range:    conv.ToEditor(rec.Start, rec.End),
		Message:  CleanMessage(rec.Message),
		Severity: SeverityError,
	}, true
}

// Add maps rec and appends it to the collection.
func (m *Mapper) Add(ctx context.Context, rec Record) bool {
	d, ok := m.Map(ctx, rec)
	if !ok {
		return false
	}
	m.collection.Append(d)
	return true
}
