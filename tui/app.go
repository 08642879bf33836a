package tui

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/repohub/repohub/internal/model"
	"github.com/repohub/repohub/internal/scan"
	"github.com/repohub/repohub/internal/status"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseFetching
)

type ViewFilter int

const (
	ViewAll ViewFilter = iota
	ViewDirty
	ViewFailed
)

type SortMode int

const (
	SortChanges SortMode = iota // dirty first, most changes on top
	SortPath
)

type Model struct {
	req     scan.Request
	verbose bool

	coord     *scan.Coordinator
	collector *status.Collector
	records   []model.Record
	report    *model.Report
	scanGen   int
	cancel    context.CancelFunc

	rows   []model.Record
	cursor int

	width, height int
	scrollOffset  int

	phase       Phase
	filterMode  bool
	filterInput textinput.Model
	filterText  string
	viewFilter  ViewFilter
	sortMode    SortMode
	showHelp    bool
	fetchTarget string
	err         error

	keys  keyMap
	frame int
}

// Run starts the live TUI for one scan request.
func Run(req scan.Request, verbose bool) error {
	p := tea.NewProgram(NewModel(req, verbose), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func NewModel(req scan.Request, verbose bool) *Model {
	ti := textinput.New()
	ti.Placeholder = "filter repos..."
	ti.CharLimit = 50

	return &Model{
		req:         req,
		verbose:     verbose,
		collector:   status.NewCollector(req.Timeout, zap.NewNop()),
		filterInput: ti,
		viewFilter:  ViewAll,
		sortMode:    SortChanges,
		keys:        newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startScan(), m.tick())
}

type tickMsg struct{}

type scanDoneMsg struct {
	gen    int
	report *model.Report
	err    error
}

type fetchedMsg struct {
	rec model.Record
	err error
}

// startScan launches one scan in the background. The tick loop streams
// partial records out of the coordinator's snapshot while it runs.
func (m *Model) startScan() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.scanGen++
	gen := m.scanGen
	m.phase = PhaseScanning
	m.report = nil
	m.records = nil
	m.err = nil
	m.buildRows()

	coord := scan.New(m.req, zap.NewNop())
	m.coord = coord

	return func() tea.Msg {
		report, err := coord.Run(ctx)
		return scanDoneMsg{gen: gen, report: report, err: err}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *Model) fetchRepo(repo model.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 40*time.Second)
		defer cancel()

		rec, err := m.collector.Fetch(ctx, repo)
		return fetchedMsg{rec: rec, err: err}
	}
}

func (m *Model) buildRows() {
	filtered := make([]model.Record, 0, len(m.records))
	for _, rec := range m.records {
		switch m.viewFilter {
		case ViewDirty:
			if rec.Status == nil || !rec.Status.IsDirty() {
				continue
			}
		case ViewFailed:
			if !rec.Failed() {
				continue
			}
		}
		if m.filterText != "" &&
			!containsIgnoreCase(rec.Repo.DisplayName(), m.filterText) &&
			!containsIgnoreCase(rec.Repo.Path, m.filterText) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sortRows(filtered, m.sortMode)
	m.rows = filtered

	// Clamp cursor
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// sortRows orders like the original printed report: repositories with
// changes first (most changes on top), failures next, clean repos last.
// Path order breaks every tie so redraws are stable.
func sortRows(rows []model.Record, mode SortMode) {
	if mode == SortPath {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Repo.Rel < rows[j].Repo.Rel
		})
		return
	}

	group := func(rec model.Record) int {
		switch {
		case rec.Status != nil && rec.Status.IsDirty():
			return 0
		case rec.Failed():
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		gi, gj := group(rows[i]), group(rows[j])
		if gi != gj {
			return gi < gj
		}
		if gi == 0 && rows[i].Status.TotalChanges() != rows[j].Status.TotalChanges() {
			return rows[i].Status.TotalChanges() > rows[j].Status.TotalChanges()
		}
		return rows[i].Repo.Rel < rows[j].Repo.Rel
	})
}

func (m *Model) selectedRecord() *model.Record {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

// replaceRecord swaps in a refreshed record (after fetch) by path.
func (m *Model) replaceRecord(rec model.Record) {
	for i := range m.records {
		if m.records[i].Repo.Path == rec.Repo.Path {
			m.records[i] = rec
			break
		}
	}
	m.buildRows()
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
