package ipkg

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/walteh/idrisls/pkg/config"
	"github.com/walteh/idrisls/pkg/ipkg"
)

type Handler struct {
	fsys afero.Fs
}

func NewCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fsys: fsys}

	cmd := &cobra.Command{
		Use:   "ipkg [DIR]",
		Short: "print the arguments used to start Idris in IDE mode",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return me.Run(cmd.Context(), cmd.OutOrStdout(), dir)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, dir string) error {
	cfg := config.FromContext(ctx)
	if dir == "" {
		dir = cfg.WorkingDir
	}

	args, err := ipkg.ArgsForWorkspace(ctx, me.fsys, dir, cfg.Idris2Mode)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Join(append([]string{cfg.IdrisPath}, args...), " "))
	return nil
}
