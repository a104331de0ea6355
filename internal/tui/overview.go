package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/pcpulse/internal/format"
	"github.com/dm/pcpulse/internal/model"
)

// renderOverview renders the five-stat overview bar.
// Wide terminals (>= 80 cols): all cards in a single horizontal row.
// Narrow terminals (< 80 cols): cards stacked in rows of 2.
// Returns empty string if no snapshot is available yet.
func renderOverview(app *App) string {
	if app.current == nil {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}

	const cards = 5
	narrowMode := width < 80

	var cardWidth int
	if narrowMode {
		cardWidth = (width - 4) / 2
		if cardWidth < 10 {
			cardWidth = 10
		}
	} else {
		cardWidth = (width - 2*cards) / cards
		if cardWidth < 8 {
			cardWidth = 8
		}
	}

	// Mini bar inner width: card width minus padding (1 char each side).
	barWidth := cardWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	snap := app.current

	// Card 1: CPU usage with mini bar.
	cpuPct := snap.CPU.OverallUsage
	cpuSev := cpuSeverity(cpuPct)
	cpuVal := format.FormatPercent(cpuPct)
	if cpuSev == severityCritical {
		cpuVal += "!"
	}
	card1 := StyleOverviewCard.
		Foreground(severityColor(cpuSev)).
		Width(cardWidth).
		Render(cpuVal + "\n" + renderMiniBar(cpuPct, barWidth) + "\nCPU")

	// Card 2: hottest CPU temperature.
	tempVal := format.Missing
	tempFg := colorGray
	if v, ok := hottest(snap.CPU.Temperatures); ok {
		tempVal = format.FormatCelsius(&v)
		if snap.CPU.Estimated {
			tempVal = "~" + tempVal
		}
		tempFg = severityColor(tempSeverity(v))
	}
	card2 := StyleOverviewCard.
		Foreground(tempFg).
		Width(cardWidth).
		Render(tempVal + "\nCPU Temp")

	// Card 3: GPU count.
	gpuVal := "None"
	if snap.GPU.Available {
		gpuVal = fmt.Sprintf("%d", len(snap.GPU.Devices))
	}
	card3 := StyleOverviewCard.
		Foreground(colorPurple).
		Width(cardWidth).
		Render(gpuVal + "\nGPUs")

	// Card 4: battery charge.
	batteryVal := format.Missing
	batteryBar := strings.Repeat(" ", barWidth)
	if b := snap.Motherboard.Battery; b != nil {
		batteryVal = fmt.Sprintf("%d%%", b.ChargePercent)
		batteryBar = renderMiniBar(float64(b.ChargePercent), barWidth)
	}
	card4 := StyleOverviewCard.
		Foreground(colorBlue).
		Width(cardWidth).
		Render(batteryVal + "\n" + batteryBar + "\nBattery")

	// Card 5: first power reading.
	powerVal := format.Missing
	if powerKeys := sortedKeys(snap.Motherboard.Power); len(powerKeys) > 0 {
		powerVal = snap.Motherboard.Power[powerKeys[0]]
	}
	card5 := StyleOverviewCard.
		Foreground(colorCyan).
		Width(cardWidth).
		Render(powerVal + "\nPower")

	if narrowMode {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, card1, card2)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, card3, card4)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, card5)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card1, card2, card3, card4, card5)
}

// renderMiniBar renders a mini progress bar using Unicode block characters.
// Fills proportionally using "█" (U+2588) for filled and "░" (U+2591) for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// temperatureLines renders one "label: value" line per reading, colored
// by temperature severity. Absent readings show as "---".
func temperatureLines(t model.Temperatures) []string {
	var lines []string
	for _, k := range sortedKeys(t) {
		v := t[k]
		value := StyleDim.Render(format.FormatCelsius(v))
		if v != nil {
			value = severityToStyle(tempSeverity(*v)).Render(format.FormatCelsius(v))
		}
		lines = append(lines, StyleLabel.Render(k+": ")+value)
	}
	return lines
}
