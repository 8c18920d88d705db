package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui/shared"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = shared.ProgressWidth(msg.Width)

		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case shared.EngineEventMsg:
		return m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if m.state.Terminal() {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Terminal() {
		switch msg.String() {
		case shared.KeyCtrlC, "q", "esc", "enter":
			return m, tea.Quit
		}

		return m, nil
	}

	switch msg.String() {
	case "p", " ":
		if !m.stopping {
			m.paused = m.control.TogglePause()
		}

	case "s", "esc":
		m.requestStop()

	case shared.KeyCtrlC, "q":
		// Quit once the engine has confirmed the stop
		m.quitting = true
		m.requestStop()
	}

	return m, nil
}

func (m *Model) requestStop() {
	if m.stopping {
		return
	}

	m.stopping = true
	m.control.Stop()
}

//nolint:cyclop // one case per event type
func (m Model) handleEvent(event syncengine.Event) (tea.Model, tea.Cmd) {
	switch ev := event.(type) {
	case syncengine.CountingStarted:
		m.state = syncengine.StateCounting

	case syncengine.CountingComplete:
		m.counters.TotalFiles = ev.TotalFiles
		m.state = syncengine.StateCopying

	case syncengine.DirectoryEntered:
		m.currentDir = ev.Path

	case syncengine.FileCopied:
		if ev.Decision == syncengine.CopyAsNew {
			m.recentNew = pushRecent(m.recentNew, ev.DestPath)
		} else {
			m.recentOverwritten = pushRecent(m.recentOverwritten, ev.DestPath)
		}

	case syncengine.Progress:
		m.counters = ev.Counters
		m.percent = ev.Percent

	case syncengine.FileFailed:
		m.failures = append(m.failures, shared.FailedFile{
			SourcePath: ev.SourcePath,
			DestPath:   ev.DestPath,
			Err:        ev.Err,
		})
		m.counters.Errors++

	case syncengine.RunFinished:
		m.counters = ev.Counters
		m.percent = ev.Percent()
		m.state = ev.State
		m.runErr = ev.Err
		m.paused = false
		m.elapsed = time.Since(m.startTime)

		if m.quitting {
			return m, tea.Quit
		}

		return m, nil
	}

	return m, m.bridge.ListenCmd()
}
