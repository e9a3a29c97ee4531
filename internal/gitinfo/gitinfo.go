// Package gitinfo resolves page-level git metadata (last modified time, edit
// links) when the content root sits inside a git worktree. Absence of a
// repository is not an error; callers get a nil Info and skip the fields.
package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
)

// Info wraps an opened repository for metadata lookups.
type Info struct {
	repo *git.Repository
	root string // worktree root (absolute)
	head string
}

// Open locates the repository containing dir. It returns (nil, nil) when dir
// is not inside a worktree.
func Open(dir string) (*Info, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dir: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository; no files to attribute.
		return nil, nil
	}

	info := &Info{repo: repo, root: wt.Filesystem.Root()}
	if head, err := repo.Head(); err == nil {
		info.head = head.Hash().String()
	}
	return info, nil
}

// Head returns the current HEAD commit hash ("" for an unborn branch).
func (i *Info) Head() string { return i.head }

// RepoRelative converts an absolute file path to its worktree-relative,
// slash-separated form.
func (i *Info) RepoRelative(absPath string) (string, error) {
	rel, err := filepath.Rel(i.root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the worktree", absPath)
	}
	return filepath.ToSlash(rel), nil
}

// LastModified returns the committer time of the newest commit touching the
// file. Untracked or never-committed files return the zero time with no
// error.
func (i *Info) LastModified(absPath string) (time.Time, error) {
	rel, err := i.RepoRelative(absPath)
	if err != nil {
		return time.Time{}, err
	}

	iter, err := i.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, nil
	}
	return commit.Committer.When, nil
}

// EditURL joins an edit base URL with the file's worktree-relative path.
// Returns "" when base is empty or the file is outside the worktree.
func (i *Info) EditURL(base, absPath string) string {
	if base == "" {
		return ""
	}
	rel, err := i.RepoRelative(absPath)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + rel
}
