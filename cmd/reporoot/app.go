// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/invowk/reporoot/internal/config"
	"github.com/invowk/reporoot/internal/gitinfo"
	"github.com/invowk/reporoot/internal/issue"
	"github.com/invowk/reporoot/pkg/monorepo"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every Cobra command handler receives an App reference.
	App struct {
		Config  config.Provider
		GitInfo GitInfoReader
		Getwd   func() (string, error)
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  config.Provider
		GitInfo GitInfoReader
		Getwd   func() (string, error)
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// GitInfoReader reads repository details for `reporoot info`.
	GitInfoReader func(dir types.FilesystemPath) (*gitinfo.Info, error)

	// session is the state resolved once per invocation from flags and config.
	session struct {
		cfg      *config.Config
		cfgPath  string
		logger   *log.Logger
		detector *monorepo.CachedDetector
		verbose  bool
	}

	// rootFlags holds the persistent flag values.
	rootFlags struct {
		stopFile        string
		monorepoPackage bool
		configFile      string
		verbose         bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.GitInfo == nil {
		deps.GitInfo = gitinfo.Read
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config:  deps.Config,
		GitInfo: deps.GitInfo,
		Getwd:   deps.Getwd,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
}

// Run executes the CLI with args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) types.ExitCode {
	root := NewRootCommand(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(reportError),
	)
	return exitCodeOf(err)
}

// reportError prints errors that were not already reported by a handler.
func reportError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// exitCodeOf maps a command error to an exit code. Errors that are not
// ExitErrors come from flag and argument parsing.
func exitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitUsage
}

// newLogger creates the stderr logger. Verbose forces debug output.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl := level.Level()
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "reporoot",
		Level:  lvl,
	})
}

// loadSession loads configuration and builds the detector shared by the
// commands of one invocation.
func (a *App) loadSession(ctx context.Context, flags *rootFlags) (*session, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		a.printError(err, flags.verbose)
		return nil, &ExitError{Code: types.ExitUsage}
	}
	cfg := loaded.Config

	s := &session{
		cfg:     cfg,
		cfgPath: loaded.Path,
		verbose: flags.verbose || cfg.UI.Verbose,
	}
	s.logger = newLogger(a.stderr, cfg.Log.Level, s.verbose)
	if loaded.Path != "" {
		s.logger.Debug("configuration loaded", "path", loaded.Path)
	}

	var opts []monorepo.Option
	opts = append(opts, monorepo.WithLogger(s.logger))
	if len(cfg.Monorepo.Tools) > 0 {
		opts = append(opts, monorepo.WithTools(cfg.Monorepo.Tools...))
	}
	s.detector, err = monorepo.NewCachedDetector(monorepo.NewDetector(opts...), cfg.Monorepo.CacheSize)
	if err != nil {
		return nil, &ExitError{Code: types.ExitUsage, Err: err}
	}
	return s, nil
}

// printError writes err to stderr, with suggestions for actionable errors and,
// in verbose mode, the error chain and catalog guidance.
func (a *App) printError(err error, verbose bool) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		_, _ = io.WriteString(a.stderr, ErrorStyle.Render("Error: ")+err.Error()+"\n")
		return
	}

	_, _ = io.WriteString(a.stderr, ErrorStyle.Render("Error: ")+ae.Format(verbose)+"\n")
	if !verbose {
		return
	}
	if entry := ae.Issue(); entry != nil {
		if rendered, renderErr := entry.Render("notty"); renderErr == nil {
			_, _ = io.WriteString(a.stderr, rendered)
		}
	}
}
