// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	PathNotExistId Id = iota + 1
	PathNotDirectoryId
	RootNotFoundId
	InvalidStopFileId
	MonorepoDetectionFailedId
	ConfigLoadFailedId
	PermissionDeniedId
	GitInfoUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
	links []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.links) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.links {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	pathNotExistIssue = &Issue{
		id: PathNotExistId,
		mdMsg: `
# Path does not exist!

The start path you gave does not exist, so there is nothing to search from.

## Things you can try:
- Check the path for typos
- Relative paths are resolved against the current working directory:
~~~
$ pwd
$ reporoot ./path/inside/the/repo
~~~

- Omit the path to search from the current directory:
~~~
$ reporoot
~~~`,
	}

	pathNotDirectoryIssue = &Issue{
		id: PathNotDirectoryId,
		mdMsg: `
# Path is not a directory!

The search starts from a directory, but the path you gave is a file.

## Things you can try:
- Pass the directory that contains the file instead:
~~~
$ reporoot "$(dirname path/to/file.go)"
~~~`,
	}

	rootNotFoundIssue = &Issue{
		id: RootNotFoundId,
		mdMsg: `
# Repository root not found!

No directory between the start path and the filesystem root contains the stop file.

## Things you can try:
- Make sure you are inside a git checkout (the default stop file is ` + "`.git/HEAD`" + `)
- Use a marker that your project does have:
~~~
$ reporoot --stop-file package.json
$ reporoot --stop-file go.work
~~~

- Set a default marker in your config file:
~~~cue
stop_file: "pnpm-workspace.yaml"
~~~`,
		links: []HttpLink{"https://git-scm.com/docs/gitrepository-layout"},
	}

	invalidStopFileIssue = &Issue{
		id: InvalidStopFileId,
		mdMsg: `
# Invalid stop file!

The stop file is joined onto every candidate directory, so it must be a relative path
that stays inside that directory.

## Valid examples:
- ` + "`.git/HEAD`" + ` (default)
- ` + "`package.json`" + `
- ` + "`.hg`" + `

## Rejected values:
- empty or blank names
- absolute paths such as ` + "`/etc/hostname`" + `
- paths escaping the directory such as ` + "`../marker`",
	}

	monorepoDetectionFailedIssue = &Issue{
		id: MonorepoDetectionFailedId,
		mdMsg: `
# Failed to read the monorepo layout!

The repository root looks like a monorepo, but one of its workspace manifests could
not be read.

## Manifests we read:
- rush.json, pnpm-workspace.yaml, lerna.json, nx.json, turbo.json
- package.json (workspaces), Cargo.toml ([workspace]), go.work

## Things you can try:
- Check the manifest named in the error for syntax errors
- Restrict detection to the tools you use:
~~~cue
monorepo: {
  tools: ["pnpm"]
}
~~~

- Search without narrowing to a package:
~~~
$ reporoot --monorepo-package=false
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the reporoot configuration file.

## Configuration file locations:
- Linux: ~/.config/reporoot/config.cue
- macOS: ~/Library/Application Support/reporoot/config.cue
- Windows: %APPDATA%\reporoot\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ reporoot config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
stop_file: ".git/HEAD"
stop_on_monorepo_package: false

monorepo: {
  cache_size: 64
}

log: {
  level: "warn"
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A directory on the way up could not be inspected.

## Things you can try:
- Check the permissions of the start path and its parents
- Run reporoot from a directory you own`,
	}

	gitInfoUnavailableIssue = &Issue{
		id: GitInfoUnavailableId,
		mdMsg: `
# Git information unavailable!

The root was found, but it is not the top of a git repository that can be opened.

## Things you can try:
- Only the default stop file guarantees a git repository at the root
- Run ` + "`git status`" + ` in the root to check the repository is healthy`,
	}

	issues = map[Id]*Issue{
		pathNotExistIssue.Id():            pathNotExistIssue,
		pathNotDirectoryIssue.Id():        pathNotDirectoryIssue,
		rootNotFoundIssue.Id():            rootNotFoundIssue,
		invalidStopFileIssue.Id():         invalidStopFileIssue,
		monorepoDetectionFailedIssue.Id(): monorepoDetectionFailedIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
		gitInfoUnavailableIssue.Id():      gitInfoUnavailableIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
