package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewProgressModel creates a new progress bar model with the specified width.
func NewProgressModel(width int) progress.Model {
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = width
	progressBar.ShowPercentage = false // We render percentage ourselves

	if !colorsDisabled {
		progressBar.EmptyColor = dimColorCode
		progressBar.FullColor = accentColorCode
	}

	return progressBar
}

// ProgressWidth picks a bar width for a terminal of the given width.
func ProgressWidth(terminalWidth int) int {
	return min(max(terminalWidth-ProgressBarMargin, MinProgressBarWidth), MaxProgressBarWidth)
}

// RenderASCIIProgress renders percent (0-100) as "[=====>    ]  45%".
// The bar between the brackets is exactly width characters.
func RenderASCIIProgress(percent float64, width int) string {
	percent = min(max(percent, 0), ProgressPercentageScale)
	filled := int(percent / ProgressPercentageScale * float64(width))

	var bar string

	switch {
	case filled >= width:
		bar = strings.Repeat("=", width)
	case filled > 0:
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(" ", width-filled)
	default:
		bar = strings.Repeat(" ", width)
	}

	return fmt.Sprintf("[%s] %3.0f%%", bar, percent)
}

// RenderProgress renders percent (0-100) with the bubbles bar, or with the
// ASCII fallback when NO_COLOR is set or TERM=dumb.
func RenderProgress(model progress.Model, percent float64) string {
	if colorsDisabled {
		return RenderASCIIProgress(percent, model.Width)
	}

	return fmt.Sprintf("%s %3.0f%%", model.ViewAs(percent/ProgressPercentageScale), percent)
}
