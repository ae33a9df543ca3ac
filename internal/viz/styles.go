package viz

import "github.com/charmbracelet/lipgloss"

var (
	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466"))

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	label = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	value = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)

	running = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	paused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	failed  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	keyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

// Field renders "name value" with the shared label/value styles.
func Field(name, v string) string {
	return label.Render(name) + " " + value.Render(v)
}

// Title renders a heading.
func Title(s string) string { return title.Render(s) }
