package session

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/itsmostafa/gobf/internal/bf"
)

// cells shown on each side of the cursor in a tape dump
const dumpRadius = 8

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	// dimStyle for muted labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the run summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)

	// cursorStyle highlights the cell under the cursor
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("220"))
)

// FormatSummary renders the run statistics box
func FormatSummary(w io.Writer, stats bf.Stats, elapsed time.Duration, runErr error) {
	status := successStyle.Render("OK")
	if runErr != nil {
		status = errorStyle.Render("ERROR")
	}

	line1 := fmt.Sprintf("%s %s  %s %s  %s",
		dimStyle.Render("Steps:"), formatNumber(stats.Steps),
		dimStyle.Render("Time:"), elapsed.Round(time.Microsecond),
		status,
	)
	line2 := fmt.Sprintf("%s %d in %s %d out  %s %d  %s %d",
		dimStyle.Render("Bytes:"), stats.BytesRead,
		dimStyle.Render("->"), stats.BytesWritten,
		dimStyle.Render("Loop depth:"), stats.MaxLoopDepth,
		dimStyle.Render("Cursor:"), stats.Cursor,
	)

	content := titleStyle.Render("Run Complete") + "\n" + line1 + "\n" + line2
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatTapeDump renders the cells around the cursor
func FormatTapeDump(w io.Writer, s *bf.State) {
	from := max(s.Cursor-dumpRadius, 0)
	cells := s.Window(from, s.Cursor+dumpRadius+1)

	var idx, val strings.Builder
	for i, c := range cells {
		pos := from + i
		idx.WriteString(dimStyle.Render(fmt.Sprintf("%5d", pos)))
		cell := fmt.Sprintf("%5d", c)
		if pos == s.Cursor {
			cell = cursorStyle.Render(cell)
		}
		val.WriteString(cell)
	}

	fmt.Fprintln(w, titleStyle.Render("Tape"))
	fmt.Fprintln(w, idx.String())
	fmt.Fprintln(w, val.String())
}

// FormatCheckOK reports a program that translated and validated cleanly
func FormatCheckOK(w io.Writer, name string, n int) {
	fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("✓"), name, dimStyle.Render(fmt.Sprintf("(%d instructions)", n)))
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}
