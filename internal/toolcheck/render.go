package toolcheck

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorSuccess = lipgloss.Color("#87FF5F") // green — available / working
	colorDanger  = lipgloss.Color("#FF5555") // red — missing / failed
	colorMuted   = lipgloss.Color("#555577") // dim gray — snapshot lines
)

var (
	okGlyphStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	failGlyphStyle = lipgloss.NewStyle().Foreground(colorDanger)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	snapshotStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

func glyph(ok bool) string {
	if ok {
		return okGlyphStyle.Render("✓")
	}
	return failGlyphStyle.Render("✗")
}

// Render writes the human-readable report: one line per tool grouped by
// category, one line per probe, then the process and socket snapshots.
func Render(w io.Writer, r Report) {
	var lastCategory Category
	for _, check := range r.Checks {
		if check.Category != lastCategory {
			fmt.Fprintf(w, "%s\n", headerStyle.Render(string(check.Category)+" tools"))
			lastCategory = check.Category
		}
		status := "Available"
		if !check.Present {
			status = "Missing"
		}
		fmt.Fprintf(w, "  %s %s %s\n", glyph(check.Present), check.Tool, status)
	}

	fmt.Fprintf(w, "%s\n", headerStyle.Render("functional probes"))
	for _, probe := range r.Probes {
		status := "Working"
		if !probe.Working {
			status = "Failed"
		}
		fmt.Fprintf(w, "  %s %s %s\n", glyph(probe.Working), probe.Name, status)
	}

	renderSnapshot(w, "process snapshot", r.ProcessSnapshot)
	renderSnapshot(w, "listening sockets", r.SocketSnapshot)
}

func renderSnapshot(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", headerStyle.Render(title))
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", snapshotStyle.Render(line))
	}
}
