// SPDX-License-Identifier: MPL-2.0

// Package gitinfo reads branch and commit details of the repository at a root
// directory found by a lookup.
package gitinfo

import (
	"errors"
	"fmt"

	"github.com/invowk/reporoot/pkg/types"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// shortHashLen is the number of hex digits shown for a commit.
const shortHashLen = 12

// ErrNotRepository is returned when the directory has no .git entry.
var ErrNotRepository = errors.New("not a git repository")

// Info describes the checked-out state of a repository.
type Info struct {
	// Branch is the short branch name, or "" when HEAD is detached.
	Branch string
	// Commit is the full HEAD commit hash, or "" before the first commit.
	Commit string
	// Remote is the first URL of the "origin" remote, if any.
	Remote string
}

// Read opens the repository rooted at dir. It does not search parent
// directories.
func Read(dir types.FilesystemPath) (*Info, error) {
	repo, err := git.PlainOpen(string(dir))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", dir, err)
	}

	info := &Info{}

	// HEAD is read unresolved so unborn branches still report their name.
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		info.Branch = head.Target().Short()
	}

	resolved, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	default:
		info.Commit = resolved.Hash().String()
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to read remote %s: %w", git.DefaultRemoteName, err)
	default:
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.Remote = urls[0]
		}
	}

	return info, nil
}

// ShortCommit returns the abbreviated commit hash.
func (i *Info) ShortCommit() string {
	if len(i.Commit) > shortHashLen {
		return i.Commit[:shortHashLen]
	}
	return i.Commit
}

// Detached reports whether HEAD points directly at a commit.
func (i *Info) Detached() bool {
	return i.Branch == "" && i.Commit != ""
}
