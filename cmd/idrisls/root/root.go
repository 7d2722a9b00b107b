package root

import (
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/idrisls/cmd/idrisls/classify"
	"github.com/walteh/idrisls/cmd/idrisls/diagnostics"
	"github.com/walteh/idrisls/cmd/idrisls/hover"
	"github.com/walteh/idrisls/cmd/idrisls/ipkg"
	"github.com/walteh/idrisls/cmd/idrisls/tokens"
	"github.com/walteh/idrisls/pkg/config"
	"github.com/walteh/idrisls/pkg/logging"
)

type flags struct {
	configFile string
	debug      bool
	color      bool
}

// NewCommand builds the idrisls command tree over fsys.
func NewCommand(fsys afero.Fs) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "idrisls",
		Short:         "Lexical classification and metadata projection for Idris editors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.PersistentFlags().StringVar(&f.configFile, "config", "", "path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&f.color, "color", false, "human readable, colored log output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithLogger(cmd.Context(), cmd.ErrOrStderr(), f.debug, f.color)

		v := config.New()
		v.SetFs(fsys)

		cfg, err := config.Load(v, f.configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Interface("config", cfg).Msg("loaded config")

		cmd.SetContext(config.WithContext(ctx, cfg))
		return nil
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:    "raw-version",
		Hidden: true,
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
	})

	rootCmd.AddCommand(classify.NewCommand(fsys))
	rootCmd.AddCommand(tokens.NewCommand(fsys))
	rootCmd.AddCommand(diagnostics.NewCommand(fsys))
	rootCmd.AddCommand(hover.NewCommand(fsys))
	rootCmd.AddCommand(ipkg.NewCommand(fsys))

	return rootCmd
}
