// internal/status/porcelain.go
package status

import (
	"strconv"
	"strings"

	"github.com/repohub/repohub/internal/model"
)

// parsePorcelainV2 parses `git status --porcelain=v2 --branch` output.
// Lines with markers we don't recognize are tallied under Other instead of
// being dropped — the report degrades, it never loses a file silently.
func parsePorcelainV2(output string) *model.RepoStatus {
	status := &model.RepoStatus{}

	for line := range strings.SplitSeq(output, "\n") {
		if line == "" {
			continue
		}

		switch {
		// Header lines start with #
		case strings.HasPrefix(line, "# "):
			parseHeaderLine(line, status)

		// Tracked file changes (ordinary or renamed)
		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "):
			parseChangeLine(line, status)

		// Untracked files
		case strings.HasPrefix(line, "? "):
			status.Untracked++

		// Ignored files (we don't track these)
		case strings.HasPrefix(line, "! "):

		// Unmerged files
		case strings.HasPrefix(line, "u "):
			status.Conflict++

		default:
			status.Other++
		}
	}

	return status
}

func parseHeaderLine(line string, status *model.RepoStatus) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return
	}

	key := parts[1]
	value := parts[2]

	switch key {
	case "branch.oid":
		if len(value) >= 7 {
			status.CommitHash = value[:7]
		}
	case "branch.head":
		if value == "(detached)" {
			status.DetachedHead = true
		} else {
			status.Branch = value
		}
	case "branch.upstream":
		status.Upstream = value
	case "branch.ab":
		// Parse "+N -M"
		for _, p := range strings.Fields(value) {
			if strings.HasPrefix(p, "+") {
				status.Ahead, _ = strconv.Atoi(p[1:])
			} else if strings.HasPrefix(p, "-") {
				status.Behind, _ = strconv.Atoi(p[1:])
			}
		}
	}
}

// Status letters git documents for porcelain v2 XY fields.
const knownMarkers = ".MTADRCU"

func parseChangeLine(line string, status *model.RepoStatus) {
	// Format: "1 XY ..." / "2 XY ..."
	// X = index status, Y = worktree status
	if len(line) < 4 {
		status.Other++
		return
	}

	xy := line[2:4]
	index := xy[0]
	worktree := xy[1]

	if index != '.' {
		status.Staged++
	}
	if index == 'A' {
		status.Added++
	}

	switch worktree {
	case 'M', 'T':
		status.Modified++
	case 'D':
		status.Deleted++
	case 'A':
		status.Added++
	case '.':
	default:
		status.Other++
	}

	if !strings.ContainsRune(knownMarkers, rune(index)) {
		status.Other++
	}
}
