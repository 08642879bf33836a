// internal/scanner/walker.go
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/repohub/repohub/internal/model"
)

// Candidate is one directory the walker decided is worth reporting:
// either a detected repository root or a directory it could not read.
type Candidate struct {
	Path  string
	Rel   string
	Depth int
	Repo  *model.Repository // non-nil when the directory is a repository root
	Err   error             // non-nil when the directory could not be inspected
}

type Walker struct {
	// IncludeNested keeps descending below detected repository roots so
	// repositories inside another repository's working tree are reported too.
	IncludeNested bool

	// Ignore, when set, prunes matching directories (never the root itself).
	Ignore func(path string) bool
}

func NewWalker(includeNested bool, ignore func(string) bool) *Walker {
	return &Walker{IncludeNested: includeNested, Ignore: ignore}
}

// Walk traverses root up to maxDepth (0 = the root only) and calls emit for
// every candidate, in deterministic lexicographic order. emit returning false
// stops the walk. Unreadable directories are emitted with Err set rather than
// aborting. Symbolic links are not followed.
func (w *Walker) Walk(ctx context.Context, root string, maxDepth int, emit func(Candidate) bool) error {
	// WalkDir revisits a directory with err set when ReadDir fails; remember
	// the last emitted repository so that revisit doesn't double-report it.
	lastRepoPath := ""

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := relDepth(rel)

		if err != nil {
			if depth <= maxDepth && path != lastRepoPath {
				if !emit(Candidate{Path: path, Rel: rel, Depth: depth, Err: err}) {
					return fs.SkipAll
				}
			}
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if depth > maxDepth {
			return fs.SkipDir
		}

		if d.Name() == gitMetadataName {
			return fs.SkipDir
		}

		if path != root && w.Ignore != nil && w.Ignore(path) {
			return fs.SkipDir
		}

		repo, detectErr := Detect(path)
		if detectErr != nil {
			if !emit(Candidate{Path: path, Rel: rel, Depth: depth, Err: detectErr}) {
				return fs.SkipAll
			}
			return fs.SkipDir
		}

		if repo != nil {
			repo.Rel = rel
			lastRepoPath = path
			if !emit(Candidate{Path: path, Rel: rel, Depth: depth, Repo: repo}) {
				return fs.SkipAll
			}
			// Repositories are assumed non-nested unless opted in
			if !w.IncludeNested {
				return fs.SkipDir
			}
		}

		return nil
	})
}

func relDepth(rel string) int {
	if rel == "." {
		return 0
	}
	depth := 1
	for _, c := range rel {
		if c == filepath.Separator {
			depth++
		}
	}
	return depth
}
