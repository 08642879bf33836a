// internal/scan/scan.go
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/repohub/repohub/internal/model"
	"github.com/repohub/repohub/internal/scanner"
	"github.com/repohub/repohub/internal/status"
)

const (
	// candidateBuffer decouples the single-threaded walker from worker
	// dispatch so directory traversal isn't gated on slow repositories.
	candidateBuffer = 64

	maxConcurrency = 32
)

// DefaultConcurrency is a small multiple of available parallelism, capped so
// a huge machine doesn't spawn hundreds of git processes at once.
func DefaultConcurrency() int {
	n := runtime.NumCPU() * 2
	if n > maxConcurrency {
		n = maxConcurrency
	}
	return n
}

// Request describes one scan. Immutable once the scan starts.
type Request struct {
	Root          string
	MaxDepth      int
	Concurrency   int
	Timeout       time.Duration // per-repository git timeout
	IncludeNested bool
	Fetch         bool // update remote-tracking refs before collecting
	Ignore        func(path string) bool
}

// statusCollector is the worker-facing surface of status.Collector, kept
// narrow so tests can stand in a misbehaving worker.
type statusCollector interface {
	Collect(ctx context.Context, repo model.Repository) (model.Record, error)
	Fetch(ctx context.Context, repo model.Repository) (model.Record, error)
}

// Coordinator owns the worker pool: it consumes candidates from the walker,
// fans status collection across bounded workers and merges results through
// the aggregator. One Coordinator runs one scan.
type Coordinator struct {
	req       Request
	walker    *scanner.Walker
	collector statusCollector
	agg       *aggregator
	log       *zap.Logger
}

func New(req Request, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	if req.Concurrency <= 0 {
		req.Concurrency = DefaultConcurrency()
	}
	return &Coordinator{
		req:       req,
		walker:    scanner.NewWalker(req.IncludeNested, req.Ignore),
		collector: status.NewCollector(req.Timeout, log),
		agg:       newAggregator(),
		log:       log,
	}
}

// Snapshot returns the records completed so far, sorted. Safe to call from
// another goroutine while Run is in flight; the TUI streams from this.
func (c *Coordinator) Snapshot() []model.Record {
	return c.agg.snapshot()
}

// Run executes the scan. The only hard error is an invalid root; everything
// below whole-repository granularity is recorded in the report instead.
// Cancellation is not an error: it yields a partial report marked
// Interrupted.
func (c *Coordinator) Run(ctx context.Context) (*model.Report, error) {
	root, err := validateRoot(c.req.Root)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.log.Info("scan started",
		zap.String("root", root),
		zap.Int("max_depth", c.req.MaxDepth),
		zap.Int("concurrency", c.req.Concurrency))

	candidates := make(chan scanner.Candidate, candidateBuffer)

	go func() {
		defer close(candidates)
		walkErr := c.walker.Walk(ctx, root, c.req.MaxDepth, func(cand scanner.Candidate) bool {
			select {
			case candidates <- cand:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if walkErr != nil && ctx.Err() == nil {
			c.log.Warn("walk ended early", zap.Error(walkErr))
		}
	}()

	sem := make(chan struct{}, c.req.Concurrency)
	var wg sync.WaitGroup

	for cand := range candidates {
		if ctx.Err() != nil {
			break
		}

		if cand.Err != nil {
			c.record(model.Record{
				Repo:    model.Repository{Path: cand.Path, Rel: cand.Rel},
				Failure: &model.Failure{Kind: model.FailureUnreadable, Reason: cand.Err.Error()},
			})
			continue
		}

		wg.Add(1)
		go func(repo model.Repository) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			c.collect(ctx, repo)
		}(*cand.Repo)
	}

	wg.Wait()

	report := c.agg.finalize(root, ctx.Err() != nil, time.Since(start))
	c.log.Info("scan finished",
		zap.Int("repositories", len(report.Records)),
		zap.Int("failed", report.FailedCount()),
		zap.Bool("interrupted", report.Interrupted),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// collect runs one repository's status collection, converting a panic into
// a Failed record so a bug on one repository cannot take down the pool.
func (c *Coordinator) collect(ctx context.Context, repo model.Repository) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("worker panic", zap.String("repo", repo.Path), zap.Any("panic", r))
			c.record(model.Record{
				Repo:    repo,
				Failure: &model.Failure{Kind: model.FailureProcess, Reason: fmt.Sprintf("panic: %v", r)},
			})
		}
	}()

	var rec model.Record
	var err error
	if c.req.Fetch {
		rec, err = c.collector.Fetch(ctx, repo)
	} else {
		rec, err = c.collector.Collect(ctx, repo)
	}
	if err != nil {
		// Cancelled mid-flight; completed work is still in the aggregator
		return
	}
	c.record(rec)
}

func (c *Coordinator) record(rec model.Record) {
	if err := c.agg.add(rec); err != nil {
		c.log.Error("aggregator invariant violation", zap.Error(err))
	}
}

func validateRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("scan root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve scan root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("scan root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %s is not a directory", abs)
	}
	return abs, nil
}
