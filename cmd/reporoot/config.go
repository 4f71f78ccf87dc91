// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/invowk/reporoot/internal/config"
	"github.com/invowk/reporoot/internal/issue"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `reporoot config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage reporoot configuration",
		Long: `Manage the reporoot configuration file.

Configuration is read from, in order:
  1. the file passed with --config
  2. $XDG_CONFIG_HOME/reporoot/config.cue (platform config directory)
  3. reporoot.cue in the working directory

REPOROOT_* environment variables override file values, e.g.
REPOROOT_STOP_FILE or REPOROOT_MONOREPO_CACHE_SIZE.`,
		// Subcommands load configuration themselves so `config path` and
		// `config init` still work when the current file is invalid.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	cfgCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := app.loadSession(cmd.Context(), flags)
				if err != nil {
					return err
				}
				app.printConfig(s)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				opts := config.LoadOptions{ConfigFilePath: flags.configFile}
				path, err := config.ResolvePath(opts)
				if err != nil {
					app.printError(err, flags.verbose)
					return &ExitError{Code: types.ExitUsage}
				}

				if path == "" {
					def, pathErr := config.DefaultConfigPath("")
					if pathErr != nil {
						return &ExitError{Code: types.ExitNotFound, Err: pathErr}
					}
					fmt.Fprintln(app.stdout, def+" "+SubtitleStyle.Render("(not created)"))
					return nil
				}

				// The file is reported even when it does not load.
				fmt.Fprintln(app.stdout, path)
				if _, err := app.Config.Load(cmd.Context(), opts); err != nil {
					app.printError(err, flags.verbose)
					return &ExitError{Code: types.ExitUsage}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default configuration file",
			Long: `Write the default configuration to the platform config directory.
An existing file is left untouched.`,
			Args: cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				path, created, err := config.CreateDefaultConfig("")
				if err != nil {
					app.printError(issue.NewErrorContext().
						WithOperation("create default configuration").
						WithIssue(issue.ConfigLoadFailedId).
						WithSuggestion("Check that the config directory is writable").
						Wrap(err).
						BuildError(), flags.verbose)
					return &ExitError{Code: types.ExitNotFound}
				}
				if !created {
					fmt.Fprintln(app.stdout, WarningStyle.Render("Configuration already exists: ")+path)
					return nil
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("Created configuration: ")+path)
				return nil
			},
		},
	)

	return cfgCmd
}

func (a *App) printConfig(s *session) {
	var sb strings.Builder
	if s.cfgPath != "" {
		sb.WriteString(SubtitleStyle.Render("// " + s.cfgPath))
	} else {
		sb.WriteString(SubtitleStyle.Render("// defaults (no configuration file)"))
	}
	sb.WriteString("\n")
	sb.WriteString(config.GenerateCUE(s.cfg))
	_, _ = io.WriteString(a.stdout, sb.String())
}
