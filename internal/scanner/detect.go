// internal/scanner/detect.go
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/repohub/repohub/internal/model"
)

const gitMetadataName = ".git"

// Detect reports whether path is the root of a git repository. It is a
// pure filesystem probe — no git process is spawned — so the walker can
// prune cheaply. Returns nil when path is not a repository root.
func Detect(path string) (*model.Repository, error) {
	gitPath := filepath.Join(path, gitMetadataName)

	info, err := os.Stat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	repo := &model.Repository{
		Path: path,
	}

	if info.IsDir() {
		// Normal git repository
		return repo, nil
	}

	// .git is a file — a linked worktree checkout
	repo.IsWorktree = true

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return nil, err
	}

	// Parse "gitdir: /path/to/main/.git/worktrees/name"
	line := strings.TrimSpace(string(content))
	if strings.HasPrefix(line, "gitdir:") {
		gitdir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
		if idx := strings.Index(gitdir, "/.git/worktrees/"); idx != -1 {
			repo.MainWorktree = gitdir[:idx]
		}
	}

	return repo, nil
}
