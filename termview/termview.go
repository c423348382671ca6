// Package termview prints a timeline as text bars.
package termview

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"loov.dev/recordview/timeline"
)

type Options struct {
	// Width is the number of cells of the bar column.
	Width int
	// LabelWidth is the number of cells of the name column.
	LabelWidth int
	// Color enables styled output.
	Color bool
	// MinDuration hides bars shorter than it.
	MinDuration time.Duration
}

func (opts Options) normalize() Options {
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.LabelWidth <= 3 {
		opts.LabelWidth = 32
	}
	return opts
}

// IsTerminal reports whether f should get colored output.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var palette = []lipgloss.Color{"39", "78", "214", "170", "203", "45", "149"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Write prints one line per visible item of tl.
func Write(w io.Writer, tl *timeline.Timeline, opts Options) error {
	opts = opts.normalize()

	root := tl.Tree.Root
	header := fmt.Sprintf("%s %v", root.Class, time.Duration(tl.Duration()))
	if opts.Color {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, item := range tl.Visible(opts.MinDuration) {
		label := strings.Repeat("  ", item.Depth) + item.Node.Class
		if item.Node != root && item.Node.Method != "" {
			label += "." + item.Node.Method
		}
		label = fmt.Sprintf("%-*s", opts.LabelWidth, truncate(label, opts.LabelWidth))

		start, n := cells(item, opts.Width)
		fill, empty := "=", " "
		if opts.Color {
			fill = "█"
		}
		bar := strings.Repeat(fill, n)
		if !item.Node.Finalized() {
			bar = strings.Repeat("-", n)
		}

		duration := time.Duration(item.Placement.Duration()).String()
		if opts.Color {
			label = labelStyle.Render(label)
			bar = lipgloss.NewStyle().Foreground(palette[item.Depth%len(palette)]).Render(bar)
			duration = dimStyle.Render(duration)
		}

		line := label + " |" +
			strings.Repeat(empty, start) + bar + strings.Repeat(empty, opts.Width-start-n) +
			"| " + duration
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// cells converts the fractional placement of item to a starting cell and
// a length of at least one cell.
func cells(item timeline.Item, width int) (start, n int) {
	start = int(math.Round(item.Offset * float64(width)))
	n = int(math.Round(item.Width * float64(width)))
	if start >= width {
		start = width - 1
	}
	if start < 0 {
		start = 0
	}
	if n < 1 {
		n = 1
	}
	if start+n > width {
		n = width - start
	}
	return start, n
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "~"
}
