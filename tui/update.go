package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.frame++
		if m.phase == PhaseScanning && m.coord != nil {
			m.records = m.coord.Snapshot()
			m.buildRows()
		}
		return m, m.tick()

	case scanDoneMsg:
		if msg.gen != m.scanGen {
			return m, nil // a rescan superseded this run
		}
		m.phase = PhaseIdle
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.report = msg.report
		m.records = msg.report.Records
		m.buildRows()
		return m, nil

	case fetchedMsg:
		m.phase = PhaseIdle
		m.fetchTarget = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.replaceRecord(msg.rec)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterMode {
		return m.handleFilterKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Top):
		m.cursor = 0
		m.scrollOffset = 0
	case key.Matches(msg, k.Bottom):
		m.cursor = len(m.rows) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	case key.Matches(msg, k.HalfUp):
		m.moveCursor(-m.pageSize() / 2)
	case key.Matches(msg, k.HalfDown):
		m.moveCursor(m.pageSize() / 2)

	case key.Matches(msg, k.Filter):
		m.filterMode = true
		m.filterInput.SetValue(m.filterText)
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, k.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.buildRows()
		}

	case key.Matches(msg, k.ViewAll):
		m.viewFilter = ViewAll
		m.buildRows()
	case key.Matches(msg, k.ViewDirty):
		m.viewFilter = ViewDirty
		m.buildRows()
	case key.Matches(msg, k.ViewFailed):
		m.viewFilter = ViewFailed
		m.buildRows()

	case key.Matches(msg, k.Sort):
		if m.sortMode == SortChanges {
			m.sortMode = SortPath
		} else {
			m.sortMode = SortChanges
		}
		m.buildRows()

	case key.Matches(msg, k.Rescan):
		if m.phase == PhaseIdle {
			return m, m.startScan()
		}

	case key.Matches(msg, k.Fetch):
		if m.phase != PhaseIdle {
			return m, nil
		}
		rec := m.selectedRecord()
		if rec == nil || rec.Failed() {
			return m, nil
		}
		m.phase = PhaseFetching
		m.fetchTarget = rec.Repo.DisplayName()
		return m, m.fetchRepo(rec.Repo)

	case key.Matches(msg, k.Help):
		m.showHelp = true
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterMode = false
		m.filterText = m.filterInput.Value()
		m.filterInput.Blur()
		m.buildRows()
		return m, nil
	case "esc":
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterText = m.filterInput.Value()
	m.buildRows()
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

func (m *Model) pageSize() int {
	// header(2) + column header(1) + footer(2)
	size := m.height - 5
	if size < 1 {
		size = 1
	}
	return size
}

func (m *Model) clampScroll() {
	page := m.pageSize()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+page {
		m.scrollOffset = m.cursor - page + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}
