package postgen

import (
	"fmt"

	"github.com/arthur-debert/postgen/internal/version"
	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/merge"
	"github.com/arthur-debert/postgen/pkg/promote"
	"github.com/arthur-debert/postgen/pkg/setup"
	"github.com/arthur-debert/postgen/pkg/ui"
	"github.com/spf13/cobra"
)

// loadConfig layers the answers file, environment and changed flags
func loadConfig(cmd *cobra.Command, opts *globalOptions, flagKeys map[string]string) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if opts.target != "" {
		overrides["target_dir"] = opts.target
	}
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}
	return config.Load(config.LoadOptions{AnswersFile: opts.answers, Overrides: overrides})
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.run")

			cfg, err := loadConfig(cmd, opts, map[string]string{
				"project-name":          "project_name",
				"project-type":          "project_type",
				"provider":              "llm_provider",
				"use-current-directory": "use_current_directory",
			})
			if err != nil {
				return err
			}
			if noBootstrap, _ := cmd.Flags().GetBool("no-bootstrap"); noBootstrap {
				cfg.Bootstrap.Enabled = false
			}

			renderer, err := rendererFor(opts.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := setup.Run(cmd.Context(), setup.Options{Config: cfg})
			if err != nil {
				return err
			}
			logger.Info().Str("run", result.RunID).Str("project", result.ProjectDir).Msg("Setup finished")
			return renderer.RenderSummary(ui.SummarizeSetup(result, cfg.LLMProvider))
		},
	}

	cmd.Flags().String("project-name", "", MsgFlagProjectName)
	cmd.Flags().String("project-type", "", MsgFlagProjectType)
	cmd.Flags().String("provider", "", MsgFlagProvider)
	cmd.Flags().Bool("use-current-directory", false, MsgFlagUseCurrent)
	cmd.Flags().Bool("no-bootstrap", false, MsgFlagNoBootstrap)
	return cmd
}

func newPromoteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "promote <name>",
		Short:   MsgPromoteShort,
		Long:    MsgPromoteLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			renderer, err := rendererFor(opts.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := promote.Promote(promote.Options{
				TargetDir:   cfg.TargetDir,
				ProjectName: args[0],
			})
			if result != nil {
				if rerr := renderer.RenderSummary(ui.SummarizePromotion(result)); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
}

func newMergeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "merge <src> <dst>",
		Short:   MsgMergeShort,
		Long:    MsgMergeLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(opts.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := merge.Merge(filesystem.NewOS(), args[0], args[1]); err != nil {
				return err
			}
			return renderer.RenderSummary(ui.SummarizeMerge(args[0], args[1]))
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults, _ := cmd.Flags().GetBool("defaults"); defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultContent())
				return err
			}
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			out, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().Bool("defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
