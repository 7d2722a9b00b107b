package tokens

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/idrisls/pkg/semtok"
	"github.com/walteh/idrisls/pkg/virtualdoc"
)

// Reply is a recorded Idris reply to be turned into a virtual document.
// Exactly one of the three shapes is expected.
type Reply struct {
	Fragments     []virtualdoc.Fragment     `yaml:"fragments"`
	SubModules    []string                  `yaml:"submodules"`
	Decls         []virtualdoc.Decl         `yaml:"decls"`
	Metavariables []virtualdoc.Metavariable `yaml:"metavariables"`
}

// Document stitches the reply in the layout its shape calls for.
func (r Reply) Document() (virtualdoc.Document, error) {
	switch {
	case len(r.Metavariables) > 0:
		return virtualdoc.Metavariables(r.Metavariables), nil
	case len(r.SubModules) > 0 || len(r.Decls) > 0:
		return virtualdoc.BrowseNamespace(r.SubModules, r.Decls), nil
	case len(r.Fragments) > 0:
		return virtualdoc.Stitch(r.Fragments), nil
	default:
		return virtualdoc.Document{}, errors.New("reply has no fragments, namespace entries or metavariables")
	}
}

type Handler struct {
	fsys      afero.Fs
	store     *virtualdoc.Store
	highlight bool
}

func NewCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fsys: fsys, store: virtualdoc.NewDefaultStore()}

	cmd := &cobra.Command{
		Use:   "tokens REPLY.yaml",
		Short: "stitch a recorded reply into a virtual document and print its highlight tokens",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().BoolVar(&me.highlight, "highlight", false, "color the document text by token type")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *Handler) Store() *virtualdoc.Store {
	return me.store
}

func (me *Handler) load(path string) (Reply, error) {
	data, err := afero.ReadFile(me.fsys, path)
	if err != nil {
		return Reply{}, errors.Errorf("reading %s: %w", path, err)
	}
	var r Reply
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Reply{}, errors.Errorf("decoding %s: %w", path, err)
	}
	return r, nil
}

func (me *Handler) Run(ctx context.Context, out io.Writer, path string) error {
	reply, err := me.load(path)
	if err != nil {
		return err
	}

	doc, err := reply.Document()
	if err != nil {
		return errors.Errorf("%s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("reply metadata does not fit its text")
	}

	id := me.store.Put(ctx, doc)

	toks, err := me.store.Tokens(id)
	if err != nil {
		if errors.Is(err, semtok.ErrMalformedMetadata) {
			zerolog.Ctx(ctx).Error().Err(err).Str("virtual_doc", id).Msg("highlighting failed")
		}
		return errors.Errorf("encoding tokens for %s: %w", path, err)
	}

	fmt.Fprintln(out, virtualdoc.URI(id))
	fmt.Fprintln(out, "---")
	if me.highlight {
		fmt.Fprintln(out, Highlight(doc))
	} else {
		fmt.Fprint(out, me.store.Content(id))
	}
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, FormatTokens(toks))

	return nil
}

// FormatTokens prints one five-integer token per line.
func FormatTokens(flat []uint32) string {
	var b strings.Builder
	for i := 0; i+4 < len(flat); i += 5 {
		fmt.Fprintf(&b, "%d %d %d %d %d\n", flat[i], flat[i+1], flat[i+2], flat[i+3], flat[i+4])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

var categoryColors = map[semtok.Category]*color.Color{
	semtok.CategoryBound:        color.New(color.FgWhite),
	semtok.CategoryData:         color.New(color.FgRed),
	semtok.CategoryFunction:     color.New(color.FgGreen),
	semtok.CategoryKeyword:      color.New(color.Bold),
	semtok.CategoryMetaVariable: color.New(color.FgMagenta),
	semtok.CategoryModule:       color.New(color.FgCyan),
	semtok.CategoryType:         color.New(color.FgBlue),
}

// Highlight renders the document text with each span colored by category.
// Spans that overlap or fall outside the text are left plain.
func Highlight(doc virtualdoc.Document) string {
	runes := []rune(doc.Text)
	var b strings.Builder
	at := 0
	for _, sp := range doc.Spans {
		if sp.Start < at || sp.End() > len(runes) || sp.Length <= 0 {
			continue
		}
		b.WriteString(string(runes[at:sp.Start]))
		c, ok := categoryColors[sp.Category]
		if !ok {
			c = color.New(color.Reset)
		}
		b.WriteString(c.Sprint(string(runes[sp.Start:sp.End()])))
		at = sp.End()
	}
	b.WriteString(string(runes[at:]))
	return b.String()
}
