package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	repo, err := Detect(dir)
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, dir, repo.Path)
	assert.False(t, repo.IsWorktree)
}

func TestDetectNotARepository(t *testing.T) {
	dir := t.TempDir()

	repo, err := Detect(dir)
	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestDetectGitFileIsNotADirEntry(t *testing.T) {
	// A plain file named .git that isn't a worktree pointer still counts as
	// a repository root detection-wise; git itself will reject it later.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("junk"), 0o644))

	repo, err := Detect(dir)
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.True(t, repo.IsWorktree)
	assert.Empty(t, repo.MainWorktree)
}

func TestDetectWorktree(t *testing.T) {
	dir := t.TempDir()
	pointer := "gitdir: /home/u/code/main/.git/worktrees/feature\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte(pointer), 0o644))

	repo, err := Detect(dir)
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.True(t, repo.IsWorktree)
	assert.Equal(t, "/home/u/code/main", repo.MainWorktree)
}
