package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the regfsm banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                      __                ", "#818cf8"},
		{"   _ __ ___  __ _   / _|___ _ __ ___   ", "#a78bfa"},
		{"  | '__/ _ \\/ _` | | |_/ __| '_ ` _ \\  ", "#c084fc"},
		{"  | | |  __/ (_| | |  _\\__ \\ | | | | | ", "#e879f9"},
		{"  |_|  \\___|\\__, | |_| |___/_| |_| |_| ", "#f472b6"},
		{"            |___/                      ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
