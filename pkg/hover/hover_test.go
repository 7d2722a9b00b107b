package hover_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/idrisls/pkg/classify"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/hover"
	"github.com/walteh/idrisls/pkg/position"
)

func TestWordAt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		at     position.Place
		want   hover.Term
		wantOk bool
	}{
		{
			name:   "middle of word",
			text:   "main = putStrLn x",
			at:     position.Place{Line: 0, Character: 10},
			want:   hover.Term{Name: "putStrLn", Range: position.NewRange(0, 7, 0, 15)},
			wantOk: true,
		},
		{
			name:   "end of word",
			text:   "f x'",
			at:     position.Place{Line: 0, Character: 4},
			want:   hover.Term{Name: "x'", Range: position.NewRange(0, 2, 0, 4)},
			wantOk: true,
		},
		{
			name:   "qualified name",
			text:   "Data.List.length xs",
			at:     position.Place{Line: 0, Character: 3},
			want:   hover.Term{Name: "Data.List.length", Range: position.NewRange(0, 0, 0, 16)},
			wantOk: true,
		},
		{
			name:   "whitespace",
			text:   "a  b",
			at:     position.Place{Line: 0, Character: 2},
			wantOk: false,
		},
		{
			name:   "line out of range",
			text:   "a",
			at:     position.Place{Line: 3, Character: 0},
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := hover.WordAt(tt.text, tt.at)
			require.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentWordHoleInMarkdown(t *testing.T) {
	doc := classify.Document{Text: "```idris\nf = ?hole\n```", Dialect: dialect.Fenced}

	term, ok := hover.CurrentWord(doc, position.Place{Line: 1, Character: 6})
	require.True(t, ok)
	assert.Equal(t, "?hole", term.Name)
	assert.Equal(t, position.NewRange(1, 4, 1, 9), term.Range)

	plain := classify.Document{Text: "f = ?hole", Dialect: dialect.Plain}
	term, ok = hover.CurrentWord(plain, position.Place{Line: 0, Character: 6})
	require.True(t, ok)
	assert.Equal(t, "hole", term.Name)
}

func TestTarget(t *testing.T) {
	ctx := context.Background()
	doc := classify.Document{Text: "f : Nat -- size\nf = 3", Dialect: dialect.Plain}

	term, ok := hover.Target(ctx, hover.ActionTypeOf, doc, position.Place{Line: 0, Character: 5})
	require.True(t, ok)
	assert.Equal(t, "Nat", term.Name)

	_, ok = hover.Target(ctx, hover.ActionTypeOf, doc, position.Place{Line: 0, Character: 12})
	assert.False(t, ok, "inside comment")

	_, ok = hover.Target(ctx, hover.ActionNothing, doc, position.Place{Line: 0, Character: 5})
	assert.False(t, ok, "hover disabled")

	_, ok = hover.Target(ctx, hover.ActionTypeAt, doc, position.Place{Line: 8, Character: 0})
	assert.False(t, ok, "past end")
}
