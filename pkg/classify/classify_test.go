package classify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/walteh/idrisls/pkg/classify"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/docstate"
	"github.com/walteh/idrisls/pkg/position"
)

func TestIsCodePlain(t *testing.T) {
	doc := classify.Document{Text: "code\n-- comment\ncode2", Dialect: dialect.Plain}

	assert.False(t, classify.IsCode(doc, position.Place{Line: 1, Character: 2}))
	assert.True(t, classify.IsCode(doc, position.Place{Line: 2, Character: 0}))
	assert.True(t, classify.IsCode(doc, position.Place{Line: 0, Character: 1}))
}

func TestIsCodeLiterate(t *testing.T) {
	text := strings.Join([]string{
		"Some prose with a \" quote and {- opener",
		"",
		"> main : IO ()",
		"> main = putStrLn \"hi\" -- greet",
		"",
		"More prose.",
	}, "\n")
	doc := classify.Document{Text: text, Dialect: dialect.Literate}

	tests := []struct {
		name string
		at   position.Place
		want bool
	}{
		{name: "prose line", at: position.Place{Line: 0, Character: 3}, want: false},
		{name: "code line start", at: position.Place{Line: 2, Character: 2}, want: true},
		{name: "inside string on code line", at: position.Place{Line: 3, Character: 20}, want: false},
		{name: "after string on code line", at: position.Place{Line: 3, Character: 22}, want: true},
		{name: "inside trailing comment", at: position.Place{Line: 3, Character: 28}, want: false},
		{name: "blank line", at: position.Place{Line: 4, Character: 0}, want: false},
		{name: "closing prose", at: position.Place{Line: 5, Character: 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify.IsCode(doc, tt.at))
		})
	}
}

func TestIsCodeFenced(t *testing.T) {
	text := strings.Join([]string{
		"# Title with a \"quote",
		"",
		"```idris",
		"f : Nat -> Nat",
		"f x = x -- id",
		"```",
		"",
		"prose",
		"```",
		"not idris",
		"```",
		"```idris",
		"g = \"open",
	}, "\n")
	doc := classify.Document{Text: text, Dialect: dialect.Fenced}

	tests := []struct {
		name string
		at   position.Place
		want bool
	}{
		{name: "heading", at: position.Place{Line: 0, Character: 2}, want: false},
		{name: "opening fence", at: position.Place{Line: 2, Character: 1}, want: false},
		{name: "code in block", at: position.Place{Line: 3, Character: 0}, want: true},
		{name: "comment in block", at: position.Place{Line: 4, Character: 11}, want: false},
		{name: "closing fence", at: position.Place{Line: 5, Character: 0}, want: false},
		{name: "prose after block", at: position.Place{Line: 7, Character: 2}, want: false},
		{name: "non idris block", at: position.Place{Line: 9, Character: 2}, want: false},
		{name: "unterminated block", at: position.Place{Line: 12, Character: 1}, want: true},
		{name: "string in unterminated block", at: position.Place{Line: 12, Character: 6}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify.IsCode(doc, tt.at))
		})
	}
}

func TestStateAt(t *testing.T) {
	doc := classify.Document{Text: "x = \"str\"", Dialect: dialect.Plain}

	state, ok := classify.StateAt(doc, position.Place{Line: 0, Character: 6})
	assert.True(t, ok)
	assert.Equal(t, docstate.String, state)

	_, ok = classify.StateAt(doc, position.Place{Line: 0, Character: 9})
	assert.False(t, ok, "end of document")

	_, ok = classify.StateAt(doc, position.Place{Line: -1, Character: 0})
	assert.False(t, ok, "negative line")
}

func TestIsCodeBeyondEndProperty(t *testing.T) {
	dialects := []dialect.Dialect{dialect.Plain, dialect.Literate, dialect.Fenced}

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringOfN(rapid.SampledFrom([]rune("ab \n\"-{}|>`")), 0, 80, -1).Draw(rt, "text")
		d := rapid.SampledFrom(dialects).Draw(rt, "dialect")
		end := position.End(text)

		extraLines := rapid.IntRange(0, 3).Draw(rt, "extraLines")
		col := rapid.IntRange(0, 20).Draw(rt, "col")
		at := position.Place{Line: end.Line + extraLines, Character: col}
		if extraLines == 0 {
			at.Character = end.Character + col
		}

		if classify.IsCode(classify.Document{Text: text, Dialect: d}, at) {
			rt.Fatalf("position %s at or beyond end %s classified as code", at, end)
		}
	})
}

func TestIsLiterateCodeLine(t *testing.T) {
	assert.True(t, classify.IsLiterateCodeLine("> x = 1"))
	assert.True(t, classify.IsLiterateCodeLine("   > x = 1"))
	assert.False(t, classify.IsLiterateCodeLine(">x = 1"))
	assert.False(t, classify.IsLiterateCodeLine("x > y"))
}

func TestIsFence(t *testing.T) {
	assert.True(t, classify.IsFence("```idris"))
	assert.True(t, classify.IsFence("``` idris "))
	assert.True(t, classify.IsFence("~~~"))
	assert.True(t, classify.IsFence("```"))
	assert.False(t, classify.IsFence("```haskell"))
	assert.False(t, classify.IsFence("text ```"))
}
