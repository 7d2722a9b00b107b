package classify

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/idrisls/pkg/classify"
	"github.com/walteh/idrisls/pkg/config"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/position"
)

var ErrUnsupportedDialect = errors.Base("dialect not supported in this mode")

type Handler struct {
	fsys     afero.Fs
	at       string
	language string
}

func NewCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fsys: fsys}

	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "report the lexical state at a position in each file",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().StringVar(&me.at, "at", "0:0", "zero-indexed LINE:CHARACTER to classify")
	cmd.Flags().StringVar(&me.language, "language", "", "language id (idris, lidr, markdown); defaults to the file extension")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

// Result is the classification of one file.
type Result struct {
	Path   string
	Place  position.Place
	State  string
	IsCode bool
	InCode bool
}

func (r Result) String() string {
	if !r.InCode {
		return fmt.Sprintf("%s\t%s\toutside code", r.Path, r.Place)
	}
	return fmt.Sprintf("%s\t%s\t%s\tcode=%t", r.Path, r.Place, r.State, r.IsCode)
}

func (me *Handler) dialectFor(cfg *config.Config, path string) (dialect.Dialect, error) {
	var (
		d  dialect.Dialect
		ok bool
	)
	if me.language != "" {
		d, ok = dialect.FromLanguageID(me.language)
	} else {
		d, ok = dialect.FromFilename(path)
	}
	if !ok {
		return d, errors.Errorf("no idris dialect for %s", path)
	}
	if !cfg.Supports(d) {
		return d, errors.Errorf("%s (%s): %w", path, d, ErrUnsupportedDialect)
	}
	return d, nil
}

// Classify reads and classifies a single file.
func (me *Handler) Classify(ctx context.Context, path string, place position.Place) (Result, error) {
	d, err := me.dialectFor(config.FromContext(ctx), path)
	if err != nil {
		return Result{}, err
	}

	data, err := afero.ReadFile(me.fsys, path)
	if err != nil {
		return Result{}, errors.Errorf("reading %s: %w", path, err)
	}

	doc := classify.Document{Text: string(data), Dialect: d}
	state, inCode := classify.StateAt(doc, place)

	zerolog.Ctx(ctx).Debug().Str("path", path).Stringer("dialect", d).Stringer("state", state).Bool("in_code", inCode).Msg("classified")

	return Result{
		Path:   path,
		Place:  place,
		State:  state.String(),
		IsCode: classify.IsCode(doc, place),
		InCode: inCode,
	}, nil
}

// Run classifies every path concurrently. Results are written in argument
// order; every failure is reported, not only the first.
func (me *Handler) Run(ctx context.Context, out io.Writer, paths []string) error {
	place, err := position.ParsePlace(me.at)
	if err != nil {
		return err
	}

	results := make([]Result, len(paths))
	errs := make([]error, len(paths))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		i, p := i, p
		grp.Go(func() error {
			results[i], errs[i] = me.Classify(gctx, p, place)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return errors.Errorf("classifying files: %w", err)
	}

	var merr *multierror.Error
	for i, r := range results {
		if errs[i] != nil {
			merr = multierror.Append(merr, errs[i])
			continue
		}
		fmt.Fprintln(out, r.String())
	}

	return merr.ErrorOrNil()
}
