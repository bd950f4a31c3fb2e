package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork показывает таблицу, пока work выполняется в отдельной горутине.
// Возвращается после завершения и программы, и work; ошибка work важнее
// ошибки программы.
func RunWithWork(out io.Writer, model ProgressModel, work func(send func(tea.Msg)) error) error {
	p := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))

	workErr := make(chan error, 1)
	go func() {
		// Первый кадр таблицы до первых событий
		time.Sleep(50 * time.Millisecond)
		err := work(p.Send)
		workErr <- err
		p.Send(finishMsg{err: err})
	}()

	_, runErr := p.Run()
	// После выхода программы Send ничего не делает, work все равно завершится
	if err := <-workErr; err != nil {
		return err
	}
	return runErr
}
