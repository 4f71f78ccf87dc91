// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/invowk/reporoot/internal/issue"
	"github.com/invowk/reporoot/pkg/reporoot"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with the process arguments and returns the exit code.
func Run() types.ExitCode {
	return NewApp(Dependencies{}).Run(context.Background(), os.Args[1:])
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(int(Run()))
}

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}
	var sess *session

	rootCmd := &cobra.Command{
		Use:   "reporoot [path...]",
		Short: "Find the root directory of a repository",
		Long: TitleStyle.Render("reporoot") + SubtitleStyle.Render(" - find the root directory of a repository") + `

reporoot walks up from each path (the working directory by default) until it
finds a directory containing the stop file, .git/HEAD unless configured
otherwise, and prints that directory.

With --monorepo-package, a root that is a monorepo (pnpm, npm, lerna, nx,
turbo, rush, cargo or go workspaces) is narrowed to the package containing
the path.

` + SubtitleStyle.Render("Exit codes:") + `
  0  every root was found
  1  a root was not found
  2  a path, stop file or flag was invalid`,
		Example: `  reporoot
  reporoot ./services/api ./web
  reporoot --stop-file package.json
  reporoot -m packages/ui/src`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			sess = s
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(app, sess, lookupOptions(cmd, flags, sess), args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.stopFile, "stop-file", "", "marker file or directory identifying the root (default from config, else .git/HEAD)")
	pf.BoolVarP(&flags.monorepoPackage, "monorepo-package", "m", false, "narrow monorepo roots to the package containing the path")
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/reporoot/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	sessionFn := func() *session { return sess }
	rootCmd.AddCommand(newPackagesCommand(app, flags, sessionFn))
	rootCmd.AddCommand(newInfoCommand(app, flags, sessionFn))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// lookupOptions merges flags over configuration. Flags win only when set.
func lookupOptions(cmd *cobra.Command, flags *rootFlags, sess *session) reporoot.Options {
	opts := reporoot.Options{
		StopFile:              sess.cfg.StopFile,
		StopOnMonorepoPackage: sess.cfg.StopOnMonorepoPackage,
		Detector:              sess.detector,
		Logger:                sess.logger,
	}
	if cmd.Flags().Changed("stop-file") {
		opts.StopFile = types.StopFile(flags.stopFile)
	}
	if cmd.Flags().Changed("monorepo-package") {
		opts.StopOnMonorepoPackage = flags.monorepoPackage
	}
	return opts
}

// runFind resolves every path and prints one root per line. A failed path does
// not stop the others; the exit code is the most severe failure.
func runFind(app *App, sess *session, base reporoot.Options, paths []string) error {
	if len(paths) == 0 {
		paths = []string{""}
	}

	code := types.ExitSuccess
	for _, p := range paths {
		opts := base
		opts.Path = types.FilesystemPath(p)
		opts.Getwd = app.Getwd

		res, err := reporoot.Lookup(opts)
		if err != nil {
			code = code.Max(app.reportLookupError(sess, p, err))
			continue
		}
		fmt.Fprintln(app.stdout, res.Root)
	}

	if !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}

// reportLookupError prints a lookup failure and returns its exit code.
func (a *App) reportLookupError(sess *session, path string, err error) types.ExitCode {
	code, ae := describeLookupError(path, err)
	a.printError(ae, sess.verbose)
	return code
}

// describeLookupError turns a lookup failure into an actionable error and the
// exit code it maps to.
func describeLookupError(path string, err error) (types.ExitCode, error) {
	ec := issue.NewErrorContext().WithOperation("find repository root").Wrap(err)
	if path != "" {
		ec.WithResource(path)
	}

	var rerr *reporoot.Error
	if !errors.As(err, &rerr) {
		switch {
		case errors.Is(err, os.ErrPermission):
			ec.WithIssue(issue.PermissionDeniedId)
		case errors.Is(err, reporoot.ErrDetection):
			ec.WithIssue(issue.MonorepoDetectionFailedId).
				WithSuggestion("Retry without --monorepo-package to skip package detection")
		}
		return types.ExitNotFound, ec.BuildError()
	}

	switch {
	case errors.Is(err, types.ErrInvalidStopFile):
		ec.WithIssue(issue.InvalidStopFileId).
			WithSuggestion("Use a path relative to the root, such as .git/HEAD or package.json")
		return types.ExitUsage, ec.BuildError()
	case errors.Is(err, reporoot.ErrPathNotDirectory):
		ec.WithIssue(issue.PathNotDirectoryId).
			WithSuggestion("Pass the directory containing the file")
		return types.ExitUsage, ec.BuildError()
	case errors.Is(err, reporoot.ErrInvalidPath):
		ec.WithIssue(issue.PathNotExistId).
			WithSuggestion("Check the path for typos")
		return types.ExitUsage, ec.BuildError()
	default:
		ec.WithIssue(issue.RootNotFoundId).
			WithSuggestion("Run inside a repository, or pass --stop-file with a marker your project has")
		return types.ExitNotFound, ec.BuildError()
	}
}
