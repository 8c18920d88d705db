package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui/shared"
)

// View implements tea.Model
func (m Model) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("tree-sync"))
	builder.WriteString("\n")
	fmt.Fprintf(&builder, "%s %s\n", shared.RenderLabel("Source:"), m.cfg.SourceRoot)
	fmt.Fprintf(&builder, "%s %s\n", shared.RenderLabel("Destination:"), m.cfg.DestRoot)
	fmt.Fprintf(&builder, "%s %s\n\n", shared.RenderLabel("Mode:"), m.cfg.Mode)

	if m.state.Terminal() {
		m.renderSummary(&builder)
	} else {
		m.renderRunning(&builder)
	}

	return shared.RenderBox(builder.String())
}

func (m Model) renderRunning(builder *strings.Builder) {
	switch {
	case m.state == syncengine.StateCounting:
		fmt.Fprintf(builder, "%s Counting files...\n", m.spinner.View())
	case m.stopping:
		fmt.Fprintf(builder, "%s %s\n", m.spinner.View(), shared.RenderWarning("Stopping after the current file..."))
	case m.paused:
		builder.WriteString(shared.RenderWarning("⏸ Paused"))
		builder.WriteString("\n")
	default:
		fmt.Fprintf(builder, "%s Copying files...\n", m.spinner.View())
	}

	if m.state == syncengine.StateCopying {
		fmt.Fprintf(builder, "%s\n", shared.RenderProgress(m.progress, m.percent))
		fmt.Fprintf(builder, "%d / %d files\n", m.counters.FilesProcessed, m.counters.TotalFiles)
		fmt.Fprintf(builder, "%s\n", shared.FormatCounts(m.counters))

		if m.currentDir != "" {
			fmt.Fprintf(builder, "%s\n", shared.RenderDim("In: "+m.truncate(m.currentDir)))
		}
	}

	m.renderStatus(builder)
	m.renderRecent(builder, "Recent new files", m.recentNew, shared.FileItemNewStyle())
	m.renderRecent(builder, "Recently overwritten", m.recentOverwritten, shared.FileItemOverwriteStyle())

	if len(m.failures) > 0 {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderErrorList(shared.ErrorListConfig{
			Errors:   m.failures,
			Context:  shared.ContextInProgress,
			MaxWidth: m.maxPathWidth(),
		}))
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("p/space: pause/resume • s/esc: stop • q: stop and quit"))
}

func (m Model) renderSummary(builder *strings.Builder) {
	result := syncengine.Result{State: m.state, Counters: m.counters}
	summary := shared.FormatSummary(result)

	switch m.state {
	case syncengine.StateCompleted:
		builder.WriteString(shared.RenderSuccess(summary))
	case syncengine.StateFailed:
		builder.WriteString(shared.RenderError(summary))

		if m.runErr != nil {
			fmt.Fprintf(builder, "\n%s", m.runErr)
		}
	default:
		builder.WriteString(shared.RenderWarning(summary))
	}

	builder.WriteString("\n")
	fmt.Fprintf(builder, "%s\n", shared.FormatCounts(m.counters))
	fmt.Fprintf(builder, "%s\n", shared.RenderDim("Elapsed: "+shared.FormatDuration(m.elapsed)))

	m.renderStatus(builder)

	if len(m.failures) > 0 {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderErrorList(shared.ErrorListConfig{
			Errors:   m.failures,
			Context:  shared.ContextComplete,
			MaxWidth: m.maxPathWidth(),
		}))
	}

	builder.WriteString("\n")
	builder.WriteString(shared.RenderDim("enter/q: exit"))
}

func (m Model) renderStatus(builder *strings.Builder) {
	if m.counters.Errors == 0 {
		return
	}

	fmt.Fprintf(builder, "%s\n", shared.RenderError("Errors encountered. See log."))
	fmt.Fprintf(builder, "%s\n", shared.RenderDim(fmt.Sprintf("%d error(s) written to %s", m.counters.Errors, m.cfg.ErrorLogPath)))
}

func (m Model) renderRecent(builder *strings.Builder, title string, paths []string, style lipgloss.Style) {
	if len(paths) == 0 {
		return
	}

	fmt.Fprintf(builder, "\n%s\n", shared.RenderLabel(title))

	for _, path := range paths {
		fmt.Fprintf(builder, "  %s\n", style.Render(m.truncate(path)))
	}
}

func (m Model) maxPathWidth() int {
	if m.width == 0 {
		return 0
	}

	return max(m.width-shared.ProgressBarMargin, shared.MinProgressBarWidth)
}

func (m Model) truncate(path string) string {
	return shared.TruncatePath(path, m.maxPathWidth())
}
