package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top header bar with machine name, state, and timing info.
//
// Layout:
//
//	left:   model display name, falling back to the platform name
//	center: "● LIVE" once a sample arrived, "● STARTING" before
//	right:  "Last: HH:MM:SS  Every: 1s"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := "pcpulse · " + app.platform
	center := StyleYellow.Bold(true).Render("● STARTING")
	lastStr := "--:--:--"

	if app.current != nil {
		if name := app.current.Motherboard.DisplayName(); name != "" {
			left = name
		}
		center = StyleGreen.Bold(true).Render("● LIVE")
		if !app.lastUpdated.IsZero() {
			lastStr = app.lastUpdated.Format("15:04:05")
		}
	}
	right := StyleDim.Render(fmt.Sprintf("Last: %s  Every: %s", lastStr, formatDuration(app.interval)))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// formatDuration formats an interval as a compact string, e.g. "500ms", "10s" or "2m".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%gs", d.Seconds())
	}
}
