package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	PROGRESS_WIDTH = 80 // Line width when the terminal size is unknown.
)

// progressBar draws a single line step counter on a terminal.
type progressBar struct {
	out   *os.File
	total int
	width int
}

// termWidth returns the column count of the terminal, or 0.
func termWidth(out *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}

	return int(ws.Col)
}

func newProgressBar(out *os.File, total int) (bar *progressBar) {
	bar = &progressBar{
		out:   out,
		total: total,
		width: termWidth(out),
	}

	if bar.width <= 0 {
		bar.width = PROGRESS_WIDTH
	}

	return
}

// Update redraws the line for the steps executed so far.
func (bar *progressBar) Update(steps int) {
	label := fmt.Sprintf(" %d/%d", steps, bar.total)

	cells := bar.width - len(label) - 3
	if cells < 1 {
		fmt.Fprintf(bar.out, "\r%s", label)
		return
	}

	filled := 0
	if bar.total > 0 {
		filled = min(cells, steps*cells/bar.total)
	}

	fmt.Fprintf(bar.out, "\r[%s%s]%s", strings.Repeat("#", filled), strings.Repeat(" ", cells-filled), label)
}

// Done draws the final count and ends the line.
func (bar *progressBar) Done(steps int) {
	bar.Update(steps)
	fmt.Fprintln(bar.out)
}
