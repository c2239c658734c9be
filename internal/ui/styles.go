package ui

import "github.com/charmbracelet/lipgloss"

// Style keys are the color names carried by the severity catalog; the
// theme maps them to terminal colors here and nowhere else.
var lineStyles = map[string]lipgloss.Style{
	"red":         lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
	"orange red":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500")).Bold(true),
	"dark orange": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00")).Bold(true),
	"orange":      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	"green":       lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
	"blue":        lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
	"gray":        lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
}

var defaultLineStyle = lipgloss.NewStyle()

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F6AE2D"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2D6A80")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8CA1AE"))
)

func styleFor(styleKey string) lipgloss.Style {
	if style, ok := lineStyles[styleKey]; ok {
		return style
	}
	return defaultLineStyle
}
