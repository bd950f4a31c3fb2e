// Package logx prints the run log to the console with coloured markers and
// mirrors it, uncoloured, into a per-run log file.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Маркеры сообщений, как в консольном выводе рендера.
const (
	MarkInfo    = "[*]"
	MarkWarn    = "[!]"
	MarkError   = "[-]"
	MarkSuccess = "[+++]"
	MarkStep    = "[>]"
)

var styles = map[string]lipgloss.Style{
	MarkInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	MarkWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	MarkError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	MarkSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	MarkStep:    lipgloss.NewStyle().Faint(true),
}

var (
	mu      sync.Mutex
	console io.Writer = os.Stdout
	file    *log.Logger
	quiet   bool
)

// New создает лог-файл с отметкой времени и ID запуска в папке dir.
// Закрыть возвращаемый closer нужно после окончания работы.
func New(dir, runID string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405")
	if runID != "" {
		filename += "_" + runID[:min(8, len(runID))]
	}
	filePath := filepath.Join(dir, filename+".log")
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return logger, f, nil
}

// SetFile дублирует все сообщения в logger. nil отключает запись в файл.
func SetFile(logger *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	file = logger
}

// SetConsole меняет консольный вывод (по умолчанию stdout).
func SetConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = w
}

// SetQuiet подавляет консольный вывод, пока работает интерактивный прогресс.
// В файл сообщения пишутся по-прежнему.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

func emit(mark, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	mu.Lock()
	defer mu.Unlock()
	if !quiet && console != nil {
		fmt.Fprintf(console, "%s %s\n", styles[mark].Render(mark), msg)
	}
	if file != nil {
		file.Printf("%s %s", mark, msg)
	}
}

func Infof(format string, args ...any)    { emit(MarkInfo, format, args...) }
func Warnf(format string, args ...any)    { emit(MarkWarn, format, args...) }
func Errorf(format string, args ...any)   { emit(MarkError, format, args...) }
func Successf(format string, args ...any) { emit(MarkSuccess, format, args...) }
func Stepf(format string, args ...any)    { emit(MarkStep, format, args...) }

// Plain печатает строку без маркера (заголовки, отчеты).
func Plain(s string) {
	mu.Lock()
	defer mu.Unlock()
	if !quiet && console != nil {
		fmt.Fprint(console, s)
	}
	if file != nil {
		file.Print(s)
	}
}
