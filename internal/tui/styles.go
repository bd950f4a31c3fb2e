package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	statusStyles = map[string]lipgloss.Style{
		StatusRendered:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		StatusPublished: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		StatusBuilding:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StatusEncoding:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StatusPublishing: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		StatusPending: lipgloss.NewStyle().Faint(true),
	}
)

// Clip statuses shown in the STATUS column.
const (
	StatusPending    = "pending"
	StatusBuilding   = "building"
	StatusEncoding   = "encoding"
	StatusRendered   = "rendered"
	StatusPublishing = "publishing"
	StatusPublished  = "published"
	StatusError      = "error"
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
