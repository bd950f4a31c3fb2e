package tui

import tea "github.com/charmbracelet/bubbletea"

// ClipReporter пересылает события клипов в запущенную программу.
type ClipReporter struct {
	send func(tea.Msg)
}

func NewClipReporter(send func(tea.Msg)) *ClipReporter {
	return &ClipReporter{send: send}
}

func (r *ClipReporter) Clip(number int, status, detail string) {
	r.send(ClipMsg{Number: number, Status: status, Detail: detail})
}
