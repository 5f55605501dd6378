package tui

import (
	"fmt"
	"io"
)

// PrintBanner writes the hostprep banner to w.
func PrintBanner(w io.Writer, version string) {
	p := profileFor(w)
	// Raspberry red fading into leaf green
	lines := []struct {
		text  string
		color string
	}{
		{" _               _                        ", "#e11d48"},
		{"| |__   ___  ___| |_ _ __  _ __ ___ _ __  ", "#db2777"},
		{"| '_ \\ / _ \\/ __| __| '_ \\| '__/ _ \\ '_ \\ ", "#c026d3"},
		{"| | | | (_) \\__ \\ |_| |_) | | |  __/ |_) |", "#65a30d"},
		{"|_| |_|\\___/|___/\\__| .__/|_|  \\___| .__/ ", "#16a34a"},
		{"                    |_|            |_|    ", "#15803d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, p.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
