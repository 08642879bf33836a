// internal/scan/aggregator.go
package scan

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/repohub/repohub/internal/model"
)

// aggregator buffers records as workers complete them, in arbitrary order.
// It is the only shared mutable state on the result side of the scan.
type aggregator struct {
	mu      sync.Mutex
	records []model.Record
	seen    map[string]struct{}
}

func newAggregator() *aggregator {
	return &aggregator{seen: make(map[string]struct{})}
}

// add appends one record. A duplicate repository path is a bug in the
// walker/coordinator, not a runtime condition, and is rejected.
func (a *aggregator) add(rec model.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, dup := a.seen[rec.Repo.Path]; dup {
		return fmt.Errorf("duplicate record for %s", rec.Repo.Path)
	}
	a.seen[rec.Repo.Path] = struct{}{}
	a.records = append(a.records, rec)
	return nil
}

// snapshot returns a copy of what has completed so far, sorted the same way
// the final report is. Safe to call while the scan is still running.
func (a *aggregator) snapshot() []model.Record {
	a.mu.Lock()
	out := make([]model.Record, len(a.records))
	copy(out, a.records)
	a.mu.Unlock()

	sortRecords(out)
	return out
}

// finalize produces the ordered report. Order is by relative path
// (case-sensitive), independent of completion order. The buffer is left
// intact: a snapshot taken after finalize (a renderer tick racing scan
// completion) still sees the full record set, not an empty table.
func (a *aggregator) finalize(root string, interrupted bool, duration time.Duration) *model.Report {
	a.mu.Lock()
	records := make([]model.Record, len(a.records))
	copy(records, a.records)
	a.mu.Unlock()

	sortRecords(records)

	return &model.Report{
		Root:        root,
		Records:     records,
		Interrupted: interrupted,
		NoUsableGit: allToolMissing(records),
		Duration:    duration,
	}
}

func sortRecords(records []model.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Repo.Rel < records[j].Repo.Rel
	})
}

// allToolMissing reports the "no usable git binary at all" condition: every
// repository failed and every failure was the missing tool.
func allToolMissing(records []model.Record) bool {
	if len(records) == 0 {
		return false
	}
	for _, rec := range records {
		if rec.Failure == nil || !rec.Failure.ToolMissing {
			return false
		}
	}
	return true
}
