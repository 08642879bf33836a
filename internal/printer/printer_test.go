package printer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repohub/repohub/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Root: "/scan",
		Records: []model.Record{
			{
				Repo:   model.Repository{Path: "/scan/api", Rel: "api"},
				Status: &model.RepoStatus{Branch: "main", Untracked: 1, Modified: 3, Upstream: "origin/main", Ahead: 2},
			},
			{
				Repo:   model.Repository{Path: "/scan/clean-lib", Rel: "clean-lib"},
				Status: &model.RepoStatus{Branch: "main"},
			},
			{
				Repo:    model.Repository{Path: "/scan/broken", Rel: "broken"},
				Failure: &model.Failure{Kind: model.FailureTimeout, Reason: "git status exceeded 5s"},
			},
			{
				Repo:   model.Repository{Path: "/scan/web", Rel: "web"},
				Status: &model.RepoStatus{Branch: "dev", Untracked: 5, Added: 2},
			},
		},
		Duration: 120 * time.Millisecond,
	}
}

func TestPrintMinimal(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Print(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "api")
	assert.Contains(t, out, "[main]")
	assert.Contains(t, out, "| ?1 | +0 | ~3 | -0 |")
	assert.Contains(t, out, "| ?5 | +2 | ~0 | -0 |")
	assert.Contains(t, out, "error (timeout)")
	assert.Contains(t, out, "git status exceeded 5s")
	assert.Contains(t, out, "4 repositories · 2 dirty · 1 failed (120ms)")
}

func TestPrintOrdersDirtyFirst(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Print(sampleReport())
	out := buf.String()

	// web (7 changes) before api (4), then the failure, then the clean repo.
	webIdx := strings.Index(out, "web")
	apiIdx := strings.Index(out, "api")
	brokenIdx := strings.Index(out, "broken")
	cleanIdx := strings.Index(out, "clean-lib")

	require.NotEqual(t, -1, webIdx)
	assert.Less(t, webIdx, apiIdx)
	assert.Less(t, apiIdx, brokenIdx)
	assert.Less(t, brokenIdx, cleanIdx)
}

func TestPrintExpressive(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Print(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "origin/main ↑2 ↓0")
	assert.Contains(t, out, "untracked 1")
	assert.Contains(t, out, "modified  3")
	assert.Contains(t, out, "no upstream")
	assert.Contains(t, out, "| clean")
}

func TestPrintDetachedHead(t *testing.T) {
	report := &model.Report{
		Records: []model.Record{{
			Repo:   model.Repository{Path: "/scan/x", Rel: "x"},
			Status: &model.RepoStatus{DetachedHead: true, CommitHash: "abc1234"},
		}},
	}

	var buf bytes.Buffer
	New(&buf, false).Print(report)
	assert.Contains(t, buf.String(), "[abc1234]")
}

func TestPrintWarnings(t *testing.T) {
	report := &model.Report{Interrupted: true, NoUsableGit: false}
	var buf bytes.Buffer
	New(&buf, false).Print(report)
	assert.Contains(t, buf.String(), "scan interrupted")

	missing := &model.Failure{Kind: model.FailureProcess, ToolMissing: true, Reason: "git binary not found in PATH"}
	report = &model.Report{
		Records:     []model.Record{{Repo: model.Repository{Rel: "a"}, Failure: missing}},
		NoUsableGit: true,
	}
	buf.Reset()
	New(&buf, false).Print(report)
	assert.Contains(t, buf.String(), "no usable git binary found in PATH")
}

func TestPrintEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Print(&model.Report{Duration: time.Millisecond})
	assert.Contains(t, buf.String(), "0 repositories · 0 dirty · 0 failed")
}
