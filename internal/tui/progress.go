package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Ширины колонок таблицы клипов.
const (
	numberWidth   = 4
	statusWidth   = 10
	questionWidth = 40
	detailWidth   = 30
)

type tickMsg time.Time

// clipRow - строка таблицы: один вопрос колоды.
type clipRow struct {
	number   int
	question string
	status   string
	detail   string
}

// finished - клип больше не собирается: готов, публикуется или упал.
func (r clipRow) finished() bool {
	switch r.status {
	case StatusRendered, StatusPublishing, StatusPublished, StatusError:
		return true
	}
	return false
}

// ProgressModel - bubbletea-модель с таблицей клипов запуска.
type ProgressModel struct {
	title   string
	rows    []clipRow
	byNum   map[int]int
	started time.Time
	tick    int
	done    bool
	err     error
}

func NewProgressModel(title string) ProgressModel {
	return ProgressModel{title: title, byNum: make(map[int]int), started: time.Now()}
}

// AddClip добавляет строку клипа в статусе pending. Вызывать до запуска программы.
func (m *ProgressModel) AddClip(number int, question string) {
	m.byNum[number] = len(m.rows)
	m.rows = append(m.rows, clipRow{number: number, question: question, status: StatusPending})
}

func (m ProgressModel) Init() tea.Cmd { return nextTick() }

func nextTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.tick++
		return m, nextTick()
	case ClipMsg:
		if i, ok := m.byNum[msg.Number]; ok {
			m.rows[i].status = msg.Status
			m.rows[i].detail = msg.Detail
		}
		return m, nil
	case finishMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("[-] Ошибка: %v\n", m.err)
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(TitleStyle.Render(m.title) + "\n\n")
	}
	b.WriteString(HeaderStyle.Render(cells(
		"КЛИП", "СТАТУС", "ВОПРОС", "ДЕТАЛИ",
	)) + "\n")

	for _, r := range m.rows {
		status := StatusStyle(r.status).Render(fit(r.status, statusWidth))
		b.WriteString(fit(strconv.Itoa(r.number), numberWidth) + "  " + status + "  " +
			fit(r.question, questionWidth) + "  " + fit(r.detail, detailWidth) + "\n")
	}

	if !m.done {
		n, total := m.Progress()
		fmt.Fprintf(&b, "\n%s Клипы %d/%d  %s\n",
			spinnerFrames[m.tick%len(spinnerFrames)], n, total, time.Since(m.started).Round(time.Second))
	}
	return b.String()
}

func cells(number, status, question, detail string) string {
	return fit(number, numberWidth) + "  " + fit(status, statusWidth) + "  " +
		fit(question, questionWidth) + "  " + fit(detail, detailWidth)
}

// Progress возвращает число завершенных клипов и общее число.
func (m ProgressModel) Progress() (finished, total int) {
	for _, r := range m.rows {
		if r.finished() {
			finished++
		}
	}
	return finished, len(m.rows)
}

func (m ProgressModel) Done() bool { return m.done }
func (m ProgressModel) Err() error { return m.err }

// fit обрезает s до width рун с "..." на конце и добивает пробелами.
func fit(s string, width int) string {
	s = TruncateWithEllipsis(s, width)
	if n := len([]rune(s)); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// TruncateWithEllipsis truncates a string to max runes, ending with "...".
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(strings.TrimSpace(value))
	if len(r) <= max {
		return string(r)
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
