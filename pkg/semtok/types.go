package semtok

import (
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Category is the semantic class the Idris process attaches to a span.
type Category int

const (
	// CategoryBound is a bound variable. It is also the category used when
	// the process sends a span without a decor.
	CategoryBound Category = iota
	CategoryData
	CategoryFunction
	CategoryKeyword
	CategoryMetaVariable
	CategoryModule
	CategoryType
)

// token type names, in legend order
const (
	typeEnum             = "enum"
	typeFunction         = "function"
	typeMacro            = "macro"
	typeNamespace        = "namespace"
	typeType             = "type"
	typeVariable         = "variable"
	typeVariableReadonly = "variable.readonly"
)

var tokenTypes = []string{
	typeEnum,
	typeFunction,
	typeMacro,
	typeNamespace,
	typeType,
	typeVariable,
	typeVariableReadonly,
}

// ModifierDeclaration is the only modifier in the legend. Nothing sets it yet.
const ModifierDeclaration uint32 = 1 << 0

var tokenModifiers = []string{"declaration"}

// TokenLegend is the legend a client needs to decode token type indexes
// and modifier bits.
type TokenLegend struct {
	TokenTypes     []string
	TokenModifiers []string
}

func Legend() TokenLegend {
	return TokenLegend{
		TokenTypes:     append([]string(nil), tokenTypes...),
		TokenModifiers: append([]string(nil), tokenModifiers...),
	}
}

// categoryTypes maps each category onto its legend entry by name, so the
// indexes follow tokenTypes if the legend is reordered.
var categoryTypes = map[Category]uint32{
	CategoryBound:        legendIndex(typeVariable),
	CategoryData:         legendIndex(typeEnum),
	CategoryFunction:     legendIndex(typeFunction),
	CategoryKeyword:      legendIndex(typeVariableReadonly),
	CategoryMetaVariable: legendIndex(typeMacro),
	CategoryModule:       legendIndex(typeNamespace),
	CategoryType:         legendIndex(typeType),
}

func legendIndex(name string) uint32 {
	i := slices.Index(tokenTypes, name)
	if i < 0 {
		panic("semtok: token type " + name + " missing from legend")
	}
	return uint32(i)
}

// TokenType returns the legend index for the category. Unknown categories
// are highlighted as bound variables.
func (c Category) TokenType() uint32 {
	if t, ok := categoryTypes[c]; ok {
		return t
	}
	return categoryTypes[CategoryBound]
}

// Decor returns the protocol name of the category, e.g. ":function".
func (c Category) Decor() string {
	switch c {
	case CategoryBound:
		return ":bound"
	case CategoryData:
		return ":data"
	case CategoryFunction:
		return ":function"
	case CategoryKeyword:
		return ":keyword"
	case CategoryMetaVariable:
		return ":metavar"
	case CategoryModule:
		return ":module"
	case CategoryType:
		return ":type"
	default:
		return ":unknown"
	}
}

func (c Category) String() string {
	return strings.TrimPrefix(c.Decor(), ":")
}

// ParseDecor reads a protocol decor. The leading colon is optional and an
// empty decor means CategoryBound.
func ParseDecor(decor string) (Category, error) {
	switch strings.TrimPrefix(strings.TrimSpace(decor), ":") {
	case "", "bound":
		return CategoryBound, nil
	case "data":
		return CategoryData, nil
	case "function":
		return CategoryFunction, nil
	case "keyword":
		return CategoryKeyword, nil
	case "metavar":
		return CategoryMetaVariable, nil
	case "module":
		return CategoryModule, nil
	case "type":
		return CategoryType, nil
	default:
		return CategoryBound, errors.Errorf("unknown decor %q", decor)
	}
}

// UnmarshalText lets categories be read straight from yaml or json payloads.
func (c *Category) UnmarshalText(b []byte) error {
	cat, err := ParseDecor(string(b))
	if err != nil {
		return err
	}
	*c = cat
	return nil
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Decor()), nil
}

// Span is a run of characters in generated text that carries a category.
// Start and Length count characters, not bytes.
type Span struct {
	Start    int      `yaml:"start" json:"start"`
	Length   int      `yaml:"length" json:"length"`
	Category Category `yaml:"decor" json:"decor"`
}

// End is the offset just past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Shift moves the span forward by offset characters.
func (s Span) Shift(offset int) Span {
	s.Start += offset
	return s
}

// Token is one delta-encoded highlight unit.
type Token struct {
	DeltaLine  uint32
	DeltaStart uint32
	Length     uint32
	Type       uint32
	Modifiers  uint32
}
