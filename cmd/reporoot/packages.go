// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/invowk/reporoot/internal/issue"
	"github.com/invowk/reporoot/pkg/monorepo"
	"github.com/invowk/reporoot/pkg/reporoot"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// newPackagesCommand creates the `reporoot packages` command.
func newPackagesCommand(app *App, flags *rootFlags, sess func() *session) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "packages [path]",
		Short: "List the packages of the monorepo containing a path",
		Long: `List the packages declared by the monorepo whose root contains the path
(the working directory by default). The package containing the path is marked.

Exits with status 1 when the root is not a monorepo.`,
		Example: `  reporoot packages
  reporoot packages --plain ./apps/web | cut -f2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sess()
			opts := lookupOptions(cmd, flags, s)
			opts.StopOnMonorepoPackage = true
			opts.Getwd = app.Getwd
			if len(args) == 1 {
				opts.Path = types.FilesystemPath(args[0])
			}
			return runPackages(app, s, opts, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tab-separated name and path lines without styling")

	return cmd
}

func runPackages(app *App, s *session, opts reporoot.Options, plain bool) error {
	res, err := reporoot.Lookup(opts)
	if err != nil {
		return &ExitError{Code: app.reportLookupError(s, string(opts.Path), err)}
	}

	ws, err := s.detector.Detect(res.MarkerRoot)
	if err != nil {
		_, ae := describeLookupError(string(opts.Path), fmt.Errorf("%w: %w", reporoot.ErrDetection, err))
		app.printError(ae, s.verbose)
		return &ExitError{Code: types.ExitNotFound}
	}
	if ws == nil {
		app.printError(issue.NewErrorContext().
			WithOperation("list packages").
			WithResource(string(res.MarkerRoot)).
			WithSuggestion("Check that the workspace manifest sits at the repository root").
			WithIssue(issue.MonorepoDetectionFailedId).
			Wrap(fmt.Errorf("no supported monorepo manifest found")).
			BuildError(), s.verbose)
		return &ExitError{Code: types.ExitNotFound}
	}

	if plain {
		return writePlainPackages(app.stdout, ws)
	}
	renderPackages(app.stdout, ws, res.Package)
	return nil
}

// writePlainPackages prints one "name<TAB>absolute path" line per package.
func writePlainPackages(w io.Writer, ws *monorepo.Workspace) error {
	for _, name := range ws.Names() {
		dir, _ := ws.Abs(name)
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, dir); err != nil {
			return err
		}
	}
	return nil
}

// renderPackages prints the workspace as a styled table. current is marked.
func renderPackages(w io.Writer, ws *monorepo.Workspace, current types.PackageName) {
	names := ws.Names()
	rows := make([][]string, 0, len(names))
	currentRow := -2
	for i, name := range names {
		marker := " "
		if name == current {
			marker = "*"
			currentRow = i
		}
		rows = append(rows, []string{marker, string(name), string(ws.Packages[name])})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("", "NAME", "PATH").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return tableHeaderStyle
			case currentRow:
				return tableCurrentStyle
			default:
				return tableCellStyle
			}
		})

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(fmt.Sprintf("%s workspace", ws.Tool)))
	sb.WriteString(SubtitleStyle.Render(fmt.Sprintf(" %s (%d packages)", ws.Root, len(names))))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	_, _ = io.WriteString(w, sb.String())
}
