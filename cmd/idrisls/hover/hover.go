package hover

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/idrisls/pkg/classify"
	"github.com/walteh/idrisls/pkg/config"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/hover"
	"github.com/walteh/idrisls/pkg/position"
)

type Handler struct {
	fsys afero.Fs
	at   string
}

func NewCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fsys: fsys}

	cmd := &cobra.Command{
		Use:   "hover FILE",
		Short: "print the command a hover at a position would send to Idris",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&me.at, "at", "0:0", "zero-indexed LINE:CHARACTER of the cursor")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, path string) error {
	cfg := config.FromContext(ctx)

	place, err := position.ParsePlace(me.at)
	if err != nil {
		return err
	}

	action, err := cfg.Hover()
	if err != nil {
		return err
	}

	d, ok := dialect.FromFilename(path)
	if !ok || !cfg.Supports(d) {
		return errors.Errorf("%s is not a supported idris file", path)
	}

	data, err := afero.ReadFile(me.fsys, path)
	if err != nil {
		return errors.Errorf("reading %s: %w", path, err)
	}

	term, ok := hover.Target(ctx, action, classify.Document{Text: string(data), Dialect: d}, place)
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("path", path).Stringer("place", place).Stringer("action", action).Msg("no hover")
		return nil
	}

	fmt.Fprintf(out, "%s %s %s\n", action, term.Name, term.Range)
	return nil
}
