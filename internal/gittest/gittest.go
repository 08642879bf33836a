// internal/gittest/gittest.go
//
// Test fixtures backed by go-git: builds real on-disk repositories that the
// git binary under test can read, without shelling out during setup.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var signature = &object.Signature{
	Name:  "repohub test",
	Email: "test@repohub.local",
	When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// InitRepo creates a repository at dir with a single commit on main.
func InitRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}

	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("main"),
		},
	})
	if err != nil {
		t.Fatalf("init repo %s: %v", dir, err)
	}

	WriteFile(t, dir, "README.md", "fixture\n")
	Commit(t, repo, "initial commit")
	return repo
}

// WriteFile writes an (untracked or modified) file inside the repository.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Stage adds one file to the index.
func Stage(t *testing.T, repo *git.Repository, name string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("stage %s: %v", name, err)
	}
}

// Commit stages everything and commits.
func Commit(t *testing.T, repo *git.Repository, msg string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("stage all: %v", err)
	}
	if _, err := wt.Commit(msg, &git.CommitOptions{Author: signature, Committer: signature}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

// SetUpstream makes main track origin/main and plants the remote-tracking
// ref at the current HEAD, so status reports an upstream with +0 -0 without
// any network involved. Commits made afterwards show up as "ahead".
func SetUpstream(t *testing.T, repo *git.Repository) {
	t.Helper()

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("resolve HEAD: %v", err)
	}
	tracking := plumbing.NewRemoteReferenceName("origin", "main")
	if err := repo.Storer.SetReference(plumbing.NewHashReference(tracking, head.Hash())); err != nil {
		t.Fatalf("set tracking ref: %v", err)
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"file:///dev/null"},
	}); err != nil {
		t.Fatalf("create remote: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg.Branches["main"] = &config.Branch{
		Name:   "main",
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName("main"),
	}
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// DetachHead checks out the current commit directly, leaving HEAD detached.
func DetachHead(t *testing.T, repo *git.Repository) {
	t.Helper()

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("resolve HEAD: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: head.Hash()}); err != nil {
		t.Fatalf("detach HEAD: %v", err)
	}
}

// FakeRepo creates a directory that merely looks like a repository root:
// enough for walker tests that never invoke git.
func FakeRepo(t *testing.T, dir string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("fake repo %s: %v", dir, err)
	}
}
