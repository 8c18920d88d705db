package shared

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Exported constants organized by category for clarity.
const (
	// ============================================================================
	// UI Layout & Display
	// ============================================================================

	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2
	// ProgressBarWidth is the default width of progress bars
	ProgressBarWidth = 40
	// MaxProgressBarWidth is the maximum width for progress bars
	MaxProgressBarWidth = 100
	// MinProgressBarWidth keeps the bar readable on narrow terminals
	MinProgressBarWidth = 20
	// ProgressBarMargin is subtracted from the terminal width for borders and padding
	ProgressBarMargin = 10
	// RecentFilesLimit is how many recently copied paths each list shows
	RecentFilesLimit = 5

	// ============================================================================
	// Display Limits & Formatting
	// ============================================================================

	// ProgressEllipsisLength is the length of ellipsis for truncated paths
	ProgressEllipsisLength = 3
	// ProgressPercentageScale is the scale for percentage calculations (100 for percentages)
	ProgressPercentageScale = 100

	// ============================================================================
	// Keys & Symbols
	// ============================================================================

	// KeyCtrlC is the key binding for stop-and-quit
	KeyCtrlC = "ctrl+c"
)

// colorsDisabled selects the plain ASCII rendering paths.
//
//nolint:gochecknoglobals // read once from the environment
var colorsDisabled = os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"

func AccentColor() lipgloss.Color { return lipgloss.Color(accentColorCode) }

// ============================================================================
// Box and Container Styles
// ============================================================================

// BoxStyle returns the style for boxes with padding
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor()).
		Padding(1, DefaultPadding)
}

func DimColor() lipgloss.Color { return lipgloss.Color(dimColorCode) }

// DimStyle returns the style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(DimColor())
}

func ErrorColor() lipgloss.Color { return lipgloss.Color(errorColorCode) }

// ErrorStyle returns the style for error messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor()).
		Bold(true)
}

// ============================================================================
// File Item Styles (for file lists)
// ============================================================================

// FileItemErrorStyle returns the style for files that failed to copy
func FileItemErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor())
}

// FileItemNewStyle returns the style for files copied as new
func FileItemNewStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SuccessColor())
}

// FileItemOverwriteStyle returns the style for overwritten files
func FileItemOverwriteStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(WarningColor())
}

func HighlightColor() lipgloss.Color { return lipgloss.Color(highlightColorCode) }

// LabelStyle returns the style for labels
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

// PrimaryColor returns the primary color for the UI
func PrimaryColor() lipgloss.Color { return lipgloss.Color(primaryColorCode) }

// ============================================================================
// Helper Functions
// ============================================================================

// RenderBox renders content in a box with consistent styling
func RenderBox(content string) string {
	return BoxStyle().Render(content)
}

// RenderDim renders dimmed text with consistent styling
func RenderDim(text string) string {
	return DimStyle().Render(text)
}

// RenderError renders an error message with consistent styling
func RenderError(text string) string {
	return ErrorStyle().Render(text)
}

// RenderLabel renders a label with consistent styling
func RenderLabel(text string) string {
	return LabelStyle().Render(text)
}

// RenderSuccess renders a success message with consistent styling
func RenderSuccess(text string) string {
	return SuccessStyle().Render(text)
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle().Render(text)
}

// RenderWarning renders a warning message with consistent styling
func RenderWarning(text string) string {
	return WarningStyle().Render(text)
}

func SuccessColor() lipgloss.Color { return lipgloss.Color(successColorCode) }

// SuccessStyle returns the style for success messages
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SuccessColor()).
		Bold(true)
}

// ============================================================================
// Text Styles
// ============================================================================

// TitleStyle returns the style for titles
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor()).
		MarginBottom(1)
}

func WarningColor() lipgloss.Color { return lipgloss.Color(warningColorCode) }

// WarningStyle returns the style for warning messages
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(WarningColor()).
		Bold(true)
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	// Primary colors
	primaryColorCode = "205" // Pink/purple
	successColorCode = "42"  // Green
	warningColorCode = "226"
)
