package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Verdict renders an acceptance outcome, coloured when the terminal supports it.
func Verdict(accepted bool) string {
	p := termenv.ColorProfile()
	if accepted {
		return termenv.String("accepted").Foreground(p.Color("#22c55e")).Bold().String()
	}
	return termenv.String("rejected").Foreground(p.Color("#ef4444")).Bold().String()
}

// Dim renders secondary text.
func Dim(s string) string {
	return termenv.String(s).Faint().String()
}
