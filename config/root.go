package config

import (
	"github.com/go-git/go-git/v5"
)

// DetectRoot returns the root of the git worktree containing dir, or dir
// itself when it is not inside a repository.
func DetectRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		return dir
	}
	return wt.Filesystem.Root()
}
