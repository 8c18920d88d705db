// Package tui renders a running sync in the terminal and turns key presses
// into engine control calls.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui/shared"
)

// Controller is the part of the engine the UI drives.
type Controller interface {
	TogglePause() bool
	Stop()
}

// Model represents the TUI state. All of it is derived from engine events;
// the engine is only ever told to pause, resume or stop.
type Model struct {
	control Controller
	bridge  *shared.EventBridge
	cfg     syncengine.Config

	spinner  spinner.Model
	progress progress.Model
	width    int

	state             syncengine.State
	paused            bool
	stopping          bool
	quitting          bool
	counters          syncengine.Counters
	percent           float64
	currentDir        string
	recentNew         []string
	recentOverwritten []string
	failures          []shared.FailedFile
	runErr            error

	startTime time.Time
	elapsed   time.Duration
}

// NewModel creates a model for a run of cfg whose events arrive through bridge.
func NewModel(control Controller, bridge *shared.EventBridge, cfg syncengine.Config) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(shared.PrimaryColor())

	return Model{
		control:   control,
		bridge:    bridge,
		cfg:       cfg,
		spinner:   spin,
		progress:  shared.NewProgressModel(shared.ProgressBarWidth),
		state:     syncengine.StateCounting,
		startTime: time.Now(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bridge.ListenCmd())
}

// Counters returns the counters as last reported by the engine.
func (m Model) Counters() syncengine.Counters { return m.counters }

// Failures returns the files that could not be copied, oldest first.
func (m Model) Failures() []shared.FailedFile { return m.failures }

// Finished reports whether the terminal event has arrived.
func (m Model) Finished() bool { return m.state.Terminal() }

// Paused reports whether the UI has paused the run.
func (m Model) Paused() bool { return m.paused }

// RecentNew returns the most recently created destination paths, newest first.
func (m Model) RecentNew() []string { return m.recentNew }

// RecentOverwritten returns the most recently replaced destination paths, newest first.
func (m Model) RecentOverwritten() []string { return m.recentOverwritten }

// State returns the run state as last reported by the engine.
func (m Model) State() syncengine.State { return m.state }

// pushRecent prepends path and keeps at most shared.RecentFilesLimit entries.
func pushRecent(list []string, path string) []string {
	list = append([]string{path}, list...)
	if len(list) > shared.RecentFilesLimit {
		list = list[:shared.RecentFilesLimit]
	}

	return list
}
