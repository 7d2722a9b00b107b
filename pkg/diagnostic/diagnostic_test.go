package diagnostic_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/idrisls/pkg/diagnostic"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/position"
)

func place(line, col int) position.Place {
	return position.Place{Line: line, Character: col}
}

func TestConventionFor(t *testing.T) {
	tests := []struct {
		name    string
		mode    diagnostic.Mode
		dialect dialect.Dialect
		want    diagnostic.Convention
	}{
		{name: "legacy plain", mode: diagnostic.ModeLegacy, dialect: dialect.Plain, want: diagnostic.OneIndexed},
		{name: "legacy literate", mode: diagnostic.ModeLegacy, dialect: dialect.Literate, want: diagnostic.OneIndexed},
		{name: "current plain", mode: diagnostic.ModeCurrent, dialect: dialect.Plain, want: diagnostic.ZeroIndexed},
		{name: "current literate", mode: diagnostic.ModeCurrent, dialect: dialect.Literate, want: diagnostic.ZeroIndexedLiterate},
		{name: "current markdown", mode: diagnostic.ModeCurrent, dialect: dialect.Fenced, want: diagnostic.ZeroIndexed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diagnostic.ConventionFor(tt.mode, tt.dialect))
		})
	}
}

func TestToEditor(t *testing.T) {
	tests := []struct {
		name       string
		convention diagnostic.Convention
		start, end position.Place
		want       position.Range
	}{
		{
			name:       "one indexed",
			convention: diagnostic.OneIndexed,
			start:      place(9, 1),
			end:        place(9, 31),
			want:       position.NewRange(8, 0, 8, 31),
		},
		{
			name:       "zero indexed passes through",
			convention: diagnostic.ZeroIndexed,
			start:      place(3, 1),
			end:        place(3, 5),
			want:       position.NewRange(3, 1, 3, 5),
		},
		{
			name:       "literate prefix",
			convention: diagnostic.ZeroIndexedLiterate,
			start:      place(3, 1),
			end:        place(3, 5),
			want:       position.NewRange(3, 3, 3, 7),
		},
		{
			name:       "one indexed never goes negative",
			convention: diagnostic.OneIndexed,
			start:      place(0, 0),
			end:        place(0, 0),
			want:       position.NewRange(0, 0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.convention.ToEditor(tt.start, tt.end))
		})
	}
}

func TestCleanMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "location block then message",
			in:   "/src/Main.idr:1:1--1:2\n...\n\nActual message",
			want: "Actual message",
		},
		{
			name: "missing cases",
			in:   "getName is not covering.\n\n/home/dev/test-v2.idr:9:1--9:31\n   |\n 9 | getName : (cat: Cat) -> String\n   | ^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^\n\nMissing cases:\n    getName Sherlock\n",
			want: "getName is not covering.\n\nMissing cases:\n    getName Sherlock",
		},
		{
			name: "excerpt runs to end of message",
			in:   "While processing right hand side of getName. Can't find an implementation for Num String.\n\n/home/dev/test-v2.idr:12:20--12:21\n    |\n 12 | getName Sherlock = 8\n    |                    ^\n",
			want: "While processing right hand side of getName. Can't find an implementation for Num String.",
		},
		{
			name: "type mismatch keeps multi line text",
			in:   "When unifying Cat and String.\nMismatch between: Cat and String.\n\n/home/dev/test-v2.idr:12:20--12:23\n    |\n 12 | getName Sherlock = Cas\n    |                    ^^^\n",
			want: "When unifying Cat and String.\nMismatch between: Cat and String.",
		},
		{
			name: "parse error header",
			in:   "Parse error at line 20:1:\nCouldn't parse declaration",
			want: "Couldn't parse declaration",
		},
		{
			name: "nothing to strip",
			in:   "  Undefined name x.  ",
			want: "Undefined name x.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diagnostic.CleanMessage(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	got, err := diagnostic.Resolve("/abs/Main.idr", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/Main.idr", got)

	got, err = diagnostic.Resolve("src/Main.idr", "/work")
	require.NoError(t, err)
	assert.Equal(t, "/work/src/Main.idr", got)

	_, err = diagnostic.Resolve("src/Main.idr", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.ErrUnresolvablePath))
}

func TestMapperAdd(t *testing.T) {
	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	collection := diagnostic.NewCollection()
	mapper := diagnostic.NewMapper(diagnostic.ModeCurrent, "/work", collection)

	ok := mapper.Add(ctx, diagnostic.NewRecord("Notes.lidr", place(3, 1), place(3, 5), "Parse error at line 4:2:\nbad"))
	require.True(t, ok)
	ok = mapper.Add(ctx, diagnostic.NewRecord("Notes.lidr", place(3, 1), place(3, 5), "Parse error at line 4:2:\nbad"))
	require.True(t, ok)

	got := collection.Get("/work/Notes.lidr")
	require.Len(t, got, 2, "diagnostics are appended, not deduplicated")
	assert.Equal(t, diagnostic.Diagnostic{
		Path:     "/work/Notes.lidr",
		Range:    position.NewRange(3, 3, 3, 7),
		Message:  "bad",
		Severity: diagnostic.SeverityError,
	}, got[0])

	collection.Clear("/work/Notes.lidr")
	assert.Empty(t, collection.Get("/work/Notes.lidr"))
	assert.Empty(t, logs.String())
}

func TestMapperDropsUnresolvableOnce(t *testing.T) {
	var logs bytes.Buffer
	ctx := zerolog.New(&logs).Level(zerolog.WarnLevel).WithContext(context.Background())

	collection := diagnostic.NewCollection()
	mapper := diagnostic.NewMapper(diagnostic.ModeLegacy, "", collection)

	assert.False(t, mapper.Add(ctx, diagnostic.NewRecord("Main.idr", place(1, 1), place(1, 2), "x")))
	assert.False(t, mapper.Add(ctx, diagnostic.NewRecord("Other.idr", place(1, 1), place(1, 2), "y")))
	assert.True(t, mapper.Add(ctx, diagnostic.NewRecord("/abs/Main.idr", place(2, 3), place(2, 5), "z")))

	assert.Equal(t, 1, strings.Count(logs.String(), "no working directory configured"))
	assert.Equal(t, []string{"/abs/Main.idr"}, collection.Files())
	assert.Equal(t, position.NewRange(1, 2, 1, 5), collection.Get("/abs/Main.idr")[0].Range)
}

func TestMapperLogsClampedLegacyRecords(t *testing.T) {
	var logs bytes.Buffer
	ctx := zerolog.New(&logs).Level(zerolog.DebugLevel).WithContext(context.Background())

	mapper := diagnostic.NewMapper(diagnostic.ModeLegacy, "/w", diagnostic.NewCollection())

	d, ok := mapper.Map(ctx, diagnostic.NewRecord("Main.idr", place(1, 1), place(1, 4), "fine"))
	require.True(t, ok)
	assert.Equal(t, position.NewRange(0, 0, 0, 4), d.Range)
	assert.NotContains(t, logs.String(), "clamping")

	d, ok = mapper.Map(ctx, diagnostic.NewRecord("Main.idr", place(0, 0), place(1, 3), "broken"))
	require.True(t, ok)
	assert.Equal(t, position.NewRange(0, 0, 0, 3), d.Range)
	assert.Contains(t, logs.String(), "clamping")
	assert.Contains(t, logs.String(), `"start":"0:0"`)

	logs.Reset()
	current := diagnostic.NewMapper(diagnostic.ModeCurrent, "/w", diagnostic.NewCollection())
	_, ok = current.Map(ctx, diagnostic.NewRecord("Main.idr", place(0, 0), place(0, 3), "zero is fine here"))
	require.True(t, ok)
	assert.NotContains(t, logs.String(), "clamping")
}

func TestCollectionJSON(t *testing.T) {
	collection := diagnostic.NewCollection()
	collection.Append(diagnostic.Diagnostic{
		Path:     "/a.idr",
		Range:    position.NewRange(0, 1, 0, 4),
		Message:  "oops",
		Severity: diagnostic.SeverityWarning,
	})

	data, err := json.Marshal(collection)
	require.NoError(t, err)
	assert.JSONEq(t, `{"/a.idr":[{"severity":2,"message":"oops","source":"idris","range":{"start":{"line":0,"character":1},"end":{"line":0,"character":4}}}]}`, string(data))

	collection.Reset()
	assert.Empty(t, collection.Files())
}
