// internal/model/repo.go
package model

import (
	"path/filepath"
	"time"
)

type Repository struct {
	Path         string // Absolute path to repo root
	Rel          string // Path relative to the scan root ("." for the root itself)
	IsWorktree   bool   // True if this is a linked worktree checkout
	MainWorktree string // If IsWorktree, path to the main repo
}

func (r Repository) DisplayName() string {
	if r.Rel != "" && r.Rel != "." {
		return r.Rel
	}
	return filepath.Base(r.Path)
}

type RepoStatus struct {
	Branch       string // Current branch name (empty if detached)
	DetachedHead bool   // True if HEAD is detached
	CommitHash   string // Short hash of HEAD

	// Working tree counts
	Added     int // Files staged for addition
	Modified  int // Files with worktree modifications
	Deleted   int // Files deleted in the worktree
	Untracked int // Untracked files
	Staged    int // Files with any staged change
	Conflict  int // Unmerged files
	Other     int // Status markers we don't classify — counted, never dropped

	// Remote state. Upstream == "" means no upstream is configured;
	// Ahead/Behind are only meaningful when one is.
	Upstream string
	Ahead    int
	Behind   int
}

func (s *RepoStatus) IsDirty() bool {
	return s.Added > 0 || s.Modified > 0 || s.Deleted > 0 ||
		s.Untracked > 0 || s.Staged > 0 || s.Conflict > 0 || s.Other > 0
}

func (s *RepoStatus) TotalChanges() int {
	return s.Added + s.Modified + s.Deleted + s.Untracked + s.Staged + s.Conflict + s.Other
}

func (s *RepoStatus) HasUpstream() bool {
	return s.Upstream != ""
}

type FailureKind int

const (
	FailureUnreadable FailureKind = iota
	FailureNotARepository
	FailureProcess
	FailureTimeout
)

func (k FailureKind) String() string {
	switch k {
	case FailureUnreadable:
		return "unreadable"
	case FailureNotARepository:
		return "not a repository"
	case FailureProcess:
		return "process failure"
	case FailureTimeout:
		return "timeout"
	}
	return "unknown"
}

type Failure struct {
	Kind        FailureKind
	Reason      string // Diagnostic text (git stderr, panic message, ...)
	ToolMissing bool   // True when the git binary itself could not be found
}

// Record is the per-repository outcome of one scan. Exactly one of
// Status/Failure is set. Records are immutable once produced.
type Record struct {
	Repo    Repository
	Status  *RepoStatus
	Failure *Failure
}

func (r Record) Failed() bool {
	return r.Failure != nil
}

// Report is the final, ordered result of one scan. Records are sorted
// by relative path; no path appears twice.
type Report struct {
	Root        string
	Records     []Record
	Interrupted bool // Scan was cancelled; records cover what completed
	NoUsableGit bool // Every repository failed because git was missing
	Duration    time.Duration
}

func (rp *Report) FailedCount() int {
	n := 0
	for _, rec := range rp.Records {
		if rec.Failed() {
			n++
		}
	}
	return n
}

func (rp *Report) DirtyCount() int {
	n := 0
	for _, rec := range rp.Records {
		if rec.Status != nil && rec.Status.IsDirty() {
			n++
		}
	}
	return n
}
