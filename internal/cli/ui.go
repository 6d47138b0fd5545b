package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorCyan   = lipgloss.Color("36")  // names
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleName        = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

func markSuccess() string { return styleIconSuccess.Render(iconSuccess) }
func markError() string   { return styleIconError.Render(iconError) }
func markWarning() string { return styleIconWarning.Render(iconWarning) }
