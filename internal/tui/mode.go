package tui

import (
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// OutputMode describes how clip progress is shown.
type OutputMode int

const (
	// ModeTUI redraws a bubbletea table of clips.
	ModeTUI OutputMode = iota
	// ModePlain prints one log line per event.
	ModePlain
)

// DetectMode picks the TUI only for an interactive terminal.
func DetectMode(out io.Writer, noProgress bool) OutputMode {
	if noProgress {
		return ModePlain
	}
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		t := os.Getenv("TERM")
		if t == "" || strings.EqualFold(t, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}
