// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/invowk/reporoot/internal/gitinfo"
	"github.com/invowk/reporoot/internal/issue"
	"github.com/invowk/reporoot/pkg/reporoot"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/spf13/cobra"
)

// newInfoCommand creates the `reporoot info` command.
func newInfoCommand(app *App, flags *rootFlags, sess func() *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info [path]",
		Short: "Describe how the root of a path was found",
		Long: `Show the start directory, stop file, marker root and, when narrowing applies,
the monorepo package for a path. Git branch, commit and origin remote are shown
when the marker root is a git repository.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sess()
			opts := lookupOptions(cmd, flags, s)
			opts.Getwd = app.Getwd
			if len(args) == 1 {
				opts.Path = types.FilesystemPath(args[0])
			}

			res, err := reporoot.Lookup(opts)
			if err != nil {
				return &ExitError{Code: app.reportLookupError(s, string(opts.Path), err)}
			}
			app.printInfo(s, res)
			return nil
		},
	}
}

func (a *App) printInfo(s *session, res *reporoot.Result) {
	var sb strings.Builder
	field := func(key, value string) {
		fmt.Fprintf(&sb, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-12s", key+":")), value)
	}

	field("root", SuccessStyle.Render(string(res.Root)))
	field("start", string(res.StartDir))
	field("stop file", string(res.StopFile))
	field("marker root", string(res.MarkerRoot))

	if ws, err := s.detector.Detect(res.MarkerRoot); err == nil && ws != nil {
		field("monorepo", string(ws.Tool))
	}
	if res.Package != "" {
		field("package", string(res.Package))
	}

	info, err := a.GitInfo(res.MarkerRoot)
	switch {
	case errors.Is(err, gitinfo.ErrNotRepository):
		s.logger.Debug("marker root is not a git repository", "root", res.MarkerRoot)
	case err != nil:
		s.logger.Warn("git details unavailable", "err", err)
		if s.verbose {
			a.printError(issue.NewErrorContext().
				WithOperation("read git details").
				WithResource(string(res.MarkerRoot)).
				WithIssue(issue.GitInfoUnavailableId).
				Wrap(err).
				BuildError(), true)
		}
	default:
		switch {
		case info.Detached():
			field("branch", SubtitleStyle.Render("(detached)"))
		case info.Branch != "":
			field("branch", info.Branch)
		}
		if info.Commit != "" {
			field("commit", info.ShortCommit())
		} else {
			field("commit", SubtitleStyle.Render("(no commits)"))
		}
		if info.Remote != "" {
			field("remote", info.Remote)
		}
	}

	_, _ = io.WriteString(a.stdout, sb.String())
}
