package tui

// ClipMsg переводит строку клипа Number в новый статус.
type ClipMsg struct {
	Number int
	Status string
	Detail string
}

// finishMsg завершает программу. err != nil - запуск прерван ошибкой.
type finishMsg struct {
	err error
}
