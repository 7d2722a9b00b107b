package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/idrisls/pkg/config"
	"github.com/walteh/idrisls/pkg/diagnostic"
	"github.com/walteh/idrisls/pkg/position"
)

// Entry is one recorded diagnostic in the process's own coordinates.
type Entry struct {
	Filename string `yaml:"filename"`
	Start    [2]int `yaml:"start"`
	End      [2]int `yaml:"end"`
	Message  string `yaml:"message"`
}

func (e Entry) Record() diagnostic.Record {
	return diagnostic.NewRecord(
		e.Filename,
		position.Place{Line: e.Start[0], Character: e.Start[1]},
		position.Place{Line: e.End[0], Character: e.End[1]},
		e.Message,
	)
}

type Handler struct {
	fsys    afero.Fs
	json    bool
	workDir string
}

func NewCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fsys: fsys}

	cmd := &cobra.Command{
		Use:   "diagnostics RECORDS.yaml",
		Short: "map recorded Idris diagnostics into editor ranges",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().BoolVar(&me.json, "json", false, "print the collection as LSP diagnostics")
	cmd.Flags().StringVar(&me.workDir, "working-dir", "", "overrides working_dir from the config")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *Handler) load(path string) ([]Entry, error) {
	data, err := afero.ReadFile(me.fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}
	return entries, nil
}

// Collect maps every entry and returns the resulting collection.
func (me *Handler) Collect(ctx context.Context, entries []Entry) *diagnostic.Collection {
	cfg := config.FromContext(ctx)
	workDir := cfg.WorkingDir
	if me.workDir != "" {
		workDir = me.workDir
	}

	mapper := diagnostic.NewMapper(cfg.Mode(), workDir, diagnostic.NewCollection())
	dropped := 0
	for _, e := range entries {
		if !mapper.Add(ctx, e.Record()) {
			dropped++
		}
	}

	zerolog.Ctx(ctx).Debug().Stringer("mode", cfg.Mode()).Int("records", len(entries)).Int("dropped", dropped).Msg("mapped diagnostics")

	return mapper.Collection()
}

func (me *Handler) Run(ctx context.Context, out io.Writer, path string) error {
	entries, err := me.load(path)
	if err != nil {
		return err
	}

	coll := me.Collect(ctx, entries)

	if me.json {
		data, err := json.MarshalIndent(coll, "", "  ")
		if err != nil {
			return errors.Errorf("encoding diagnostics: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprint(out, Format(coll))
	return nil
}

// Format renders the collection the way a compiler prints errors.
func Format(coll *diagnostic.Collection) string {
	var b strings.Builder
	sev := color.New(color.FgRed, color.Bold)
	loc := color.New(color.Bold)
	for _, path := range coll.Files() {
		for _, d := range coll.Get(path) {
			fmt.Fprintf(&b, "%s %s %s\n",
				loc.Sprintf("%s:%d:%d:", d.Path, d.Range.Start.Line+1, d.Range.Start.Character+1),
				sev.Sprintf("%s:", d.Severity),
				d.Message)
		}
	}
	return b.String()
}
