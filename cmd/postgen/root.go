package postgen

import (
	"io"
	"os"

	"github.com/arthur-debert/postgen/internal/version"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	verbosity int
	format    string
	answers   string
	target    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "postgen",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&opts.answers, "answers", "", MsgFlagAnswers)
	rootCmd.PersistentFlags().StringVar(&opts.target, "target", "", MsgFlagTarget)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newPromoteCmd(opts))
	rootCmd.AddCommand(newMergeCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// Execute runs the root command and renders a failure on stderr. It
// returns the process exit code.
func Execute(args []string) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	if cmd == nil {
		cmd = rootCmd
	}
	format, _ := cmd.Flags().GetString("format")
	renderer, rerr := rendererFor(format, os.Stderr)
	if rerr != nil {
		renderer = ui.NewTextRenderer(os.Stderr)
	}
	_ = renderer.RenderError(err)
	return 1
}

func rendererFor(format string, w io.Writer) (ui.Renderer, error) {
	f, err := ui.SelectFormat(format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(f, w)
}
