// internal/status/collector.go
package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/repohub/repohub/internal/model"
)

const (
	defaultTimeout = 5 * time.Second
	fetchTimeout   = 30 * time.Second

	// killGrace bounds how long a timed-out or cancelled git process may
	// linger before it is forcibly reaped.
	killGrace = 2 * time.Second

	spawnRetries = 2
	spawnBackoff = 50 * time.Millisecond

	notARepoExitCode = 128
)

// Collector shells out to git for one repository at a time. Every failure
// mode is encoded in the returned record; nothing escapes its boundary
// except caller cancellation.
type Collector struct {
	timeout time.Duration
	log     *zap.Logger
}

func NewCollector(timeout time.Duration, log *zap.Logger) *Collector {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{timeout: timeout, log: log}
}

// Collect queries the working tree status of repo. The returned error is
// non-nil only when ctx was cancelled before a result was produced; all
// per-repository problems become Failed records.
func (c *Collector) Collect(ctx context.Context, repo model.Repository) (model.Record, error) {
	rec := model.Record{Repo: repo}

	// Detection may have raced with an external deletion
	if _, err := os.Stat(filepath.Join(repo.Path, ".git")); err != nil {
		rec.Failure = &model.Failure{Kind: model.FailureNotARepository, Reason: err.Error()}
		return rec, nil
	}

	out, failure, err := c.git(ctx, c.timeout, repo.Path, "status", "--porcelain=v2", "--branch")
	if err != nil {
		return rec, err
	}
	if failure != nil {
		c.log.Debug("status collection failed",
			zap.String("repo", repo.Path),
			zap.String("kind", failure.Kind.String()),
			zap.String("reason", failure.Reason))
		rec.Failure = failure
		return rec, nil
	}

	rec.Status = parsePorcelainV2(out)
	return rec, nil
}

// Fetch updates remote-tracking refs before collecting, so ahead/behind
// counts are current. A failed fetch degrades to a plain status collection
// rather than failing the record.
func (c *Collector) Fetch(ctx context.Context, repo model.Repository) (model.Record, error) {
	_, failure, err := c.git(ctx, fetchTimeout, repo.Path, "fetch", "--quiet")
	if err != nil {
		return model.Record{Repo: repo}, err
	}
	if failure != nil {
		c.log.Debug("fetch failed, collecting stale status",
			zap.String("repo", repo.Path),
			zap.String("reason", failure.Reason))
	}
	return c.Collect(ctx, repo)
}

// git runs a single git command in dir under the given timeout and
// classifies any failure. Spawn failures (not exit codes) are retried with
// backoff a bounded number of times. The error return is reserved for
// caller cancellation.
func (c *Collector) git(ctx context.Context, timeout time.Duration, dir string, args ...string) (string, *model.Failure, error) {
	for attempt := 0; ; attempt++ {
		stdout, stderr, timedOut, runErr := c.run(ctx, timeout, dir, args)
		if runErr == nil {
			return stdout, nil, nil
		}

		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}

		if timedOut {
			return "", &model.Failure{
				Kind:   model.FailureTimeout,
				Reason: fmt.Sprintf("git %s exceeded %s", args[0], timeout),
			}, nil
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			reason := strings.TrimSpace(stderr)
			if reason == "" {
				reason = runErr.Error()
			}
			kind := model.FailureProcess
			if exitErr.ExitCode() == notARepoExitCode &&
				strings.Contains(strings.ToLower(reason), "not a git repository") {
				kind = model.FailureNotARepository
			}
			return "", &model.Failure{Kind: kind, Reason: reason}, nil
		}

		if errors.Is(runErr, exec.ErrNotFound) {
			return "", &model.Failure{
				Kind:        model.FailureProcess,
				Reason:      "git binary not found in PATH",
				ToolMissing: true,
			}, nil
		}

		// Spawn failure (process table exhaustion and friends)
		if attempt >= spawnRetries {
			return "", &model.Failure{Kind: model.FailureProcess, Reason: runErr.Error()}, nil
		}
		c.log.Debug("retrying git spawn",
			zap.String("dir", dir),
			zap.Int("attempt", attempt+1),
			zap.Error(runErr))
		select {
		case <-time.After(time.Duration(attempt+1) * spawnBackoff):
		case <-ctx.Done():
			return "", nil, ctx.Err()
		}
	}
}

func (c *Collector) run(ctx context.Context, timeout time.Duration, dir string, args []string) (stdout, stderr string, timedOut bool, err error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "git", args...)
	cmd.Dir = dir
	cmd.WaitDelay = killGrace

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	timedOut = cmdCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil
	return outBuf.String(), errBuf.String(), timedOut, err
}
