package status

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repohub/repohub/internal/gittest"
	"github.com/repohub/repohub/internal/model"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestCollectCleanRepository(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	gittest.InitRepo(t, dir)

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir, Rel: "."})
	require.NoError(t, err)
	require.False(t, rec.Failed(), "failure: %+v", rec.Failure)

	assert.Equal(t, "main", rec.Status.Branch)
	assert.False(t, rec.Status.IsDirty())
	assert.NotEmpty(t, rec.Status.CommitHash)
}

func TestCollectDirtyRepository(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	repo := gittest.InitRepo(t, dir)

	gittest.WriteFile(t, dir, "README.md", "changed\n") // modified, unstaged
	gittest.WriteFile(t, dir, "new.go", "package x\n")  // untracked
	gittest.WriteFile(t, dir, "staged.go", "package x\n")
	gittest.Stage(t, repo, "staged.go")

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.False(t, rec.Failed())

	st := rec.Status
	assert.True(t, st.IsDirty())
	assert.Equal(t, 1, st.Modified)
	assert.Equal(t, 1, st.Untracked)
	assert.Equal(t, 1, st.Staged)
	assert.Equal(t, 1, st.Added, "newly staged file counts as added")
}

func TestCollectReportsUpstream(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	repo := gittest.InitRepo(t, dir)
	gittest.SetUpstream(t, repo)

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.False(t, rec.Failed())

	assert.Equal(t, "origin/main", rec.Status.Upstream)
	assert.Equal(t, 0, rec.Status.Ahead)
	assert.Equal(t, 0, rec.Status.Behind)

	// A new local commit puts the branch ahead of its tracking ref.
	gittest.WriteFile(t, dir, "next.go", "package x\n")
	gittest.Commit(t, repo, "second commit")

	rec, err = c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.False(t, rec.Failed())
	assert.Equal(t, 1, rec.Status.Ahead)
	assert.Equal(t, 0, rec.Status.Behind)
}

func TestCollectDetachedHead(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	repo := gittest.InitRepo(t, dir)
	gittest.DetachHead(t, repo)

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.False(t, rec.Failed())

	assert.True(t, rec.Status.DetachedHead)
	assert.Empty(t, rec.Status.Branch)
	assert.Len(t, rec.Status.CommitHash, 7)
}

func TestCollectNotARepository(t *testing.T) {
	requireGit(t)

	// Detection raced with deletion: the path has no .git by collect time.
	dir := t.TempDir()

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.True(t, rec.Failed())
	assert.Equal(t, model.FailureNotARepository, rec.Failure.Kind)
	assert.Nil(t, rec.Status)
}

func TestCollectCorruptGitDir(t *testing.T) {
	requireGit(t)

	// .git exists but holds nothing git recognizes; the process exits
	// non-zero and the stderr text becomes the failure reason.
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.True(t, rec.Failed())
	assert.NotEmpty(t, rec.Failure.Reason)
	assert.False(t, rec.Failure.ToolMissing)
}

func TestCollectMissingGitBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	t.Setenv("PATH", t.TempDir()) // no git anywhere on this PATH

	c := NewCollector(0, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.True(t, rec.Failed())
	assert.Equal(t, model.FailureProcess, rec.Failure.Kind)
	assert.True(t, rec.Failure.ToolMissing)
}

func TestCollectTimeout(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	gittest.InitRepo(t, dir)

	c := NewCollector(time.Nanosecond, nil)
	rec, err := c.Collect(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err, "a timeout is a record, not an error")
	require.True(t, rec.Failed())
	assert.Equal(t, model.FailureTimeout, rec.Failure.Kind)
}

func TestCollectCancelled(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	gittest.InitRepo(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(0, nil)
	_, err := c.Collect(ctx, model.Repository{Path: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchWithoutRemoteDegradesToStatus(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	gittest.InitRepo(t, dir)

	c := NewCollector(0, nil)
	rec, err := c.Fetch(context.Background(), model.Repository{Path: dir})
	require.NoError(t, err)
	require.False(t, rec.Failed(), "fetch failure must degrade, not fail the record")
	assert.Equal(t, "main", rec.Status.Branch)
}
