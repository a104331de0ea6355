package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/pcpulse/internal/format"
	"github.com/dm/pcpulse/internal/model"
)

// renderMetricCard renders a single metric card with title, value, and sparkline.
//
// Layout (3 rows inside a rounded border):
//
//	╭──────────────────╮
//	│ Title            │   ← titleStyle
//	│ 34.5%            │   ← bold, metric color
//	│ ▁▂▃▅▇█▇▅▃▂       │   ← colored sparkline
//	╰──────────────────╯
func renderMetricCard(title, value string, sparkValues []float64, ceiling float64, cardWidth int, color lipgloss.Color, titleStyle lipgloss.Style) string {
	// Content width is cardWidth-6; title and value must not wrap.
	minCardWidth := max(8, lipgloss.Width(title)+6, lipgloss.Width(value)+6)
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}

	// Inner width = card width minus border (2) and padding (2), and
	// lipgloss Width() includes padding.
	innerWidth := cardWidth - 6
	if innerWidth < 1 {
		innerWidth = 1
	}

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(cardWidth - 4)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		valueStyle.Render(value),
		RenderSparkline(sparkValues, innerWidth, ceiling, color),
	))
}

// renderPanels renders the CPU, GPU and motherboard panels.
// Wide terminals (>= 120 cols): side by side. Narrower: stacked.
// Returns empty string when no data is available.
func renderPanels(app *App) string {
	if app.current == nil {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}

	panelWidth := width
	wide := width >= 120
	if wide {
		// Each panel renders at panelWidth+2 including its border.
		panelWidth = width/3 - 2
	} else {
		panelWidth = width - 2
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	panels := []string{
		renderCPUPanel(app, panelWidth),
		renderGPUPanel(app.current.GPU, panelWidth),
		renderBoardPanel(app.current.Motherboard, panelWidth),
	}
	if wide {
		return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func renderCPUPanel(app *App, width int) string {
	c := app.current.CPU
	inner := width - 2

	lines := []string{
		StyleTitle.Render("CPU"),
		format.Truncate(c.Name, inner),
		StyleLabel.Render(format.FormatCores(c.PhysicalCores, c.LogicalThreads)),
	}

	sev := cpuSeverity(c.OverallUsage)
	lines = append(lines, renderMetricCard("Usage", format.FormatPercent(c.OverallUsage),
		app.history.CPUUsage(), 100, width, severityColor(sev), StyleDim))

	if len(c.PerCoreUsage) > 0 {
		barWidth := inner - 14
		if barWidth < 4 {
			barWidth = 4
		}
		for i, pct := range c.PerCoreUsage {
			lines = append(lines, fmt.Sprintf("%s %s %s",
				StyleLabel.Render(fmt.Sprintf("%3d", i)),
				severityToStyle(cpuSeverity(pct)).Render(renderMiniBar(pct, barWidth)),
				format.FormatPercent(pct)))
		}
	}

	if len(c.Frequencies) > 0 {
		lines = append(lines, StyleLabel.Render("Clock: ")+format.FormatFrequency(c.Frequencies[0]))
	}

	lines = append(lines, "", StyleTitle.Render("Temperatures"))
	lines = append(lines, temperatureLines(c.Temperatures)...)
	if temps := app.history.CPUTemperature(); len(temps) > 1 {
		lines = append(lines, RenderSparkline(temps, inner, 100, colorOrange))
	}

	if c.Advisory != "" {
		lines = append(lines, StyleAdvisory.Width(inner).Render(c.Advisory))
	}
	return StylePanel.Width(width).Render(strings.Join(lines, "\n"))
}

func renderGPUPanel(g model.GPU, width int) string {
	inner := width - 2
	lines := []string{StyleTitle.Render("GPU")}

	if !g.Available {
		lines = append(lines, StyleDim.Render("No GPU information available"))
	}
	for _, d := range g.Devices {
		line := format.Truncate(d.Name, inner)
		if d.VRAM != "" {
			line += StyleLabel.Render("  VRAM " + d.VRAM)
		}
		lines = append(lines, line)
	}

	if len(g.Temperatures) > 0 {
		lines = append(lines, "", StyleTitle.Render("Temperatures"))
		lines = append(lines, temperatureLines(g.Temperatures)...)
	}
	if len(g.Utilization) > 0 {
		lines = append(lines, "", StyleTitle.Render("Utilization"))
		for _, k := range sortedKeys(g.Utilization) {
			lines = append(lines, StyleLabel.Render(k+": ")+StyleCyan.Render(g.Utilization[k]))
		}
	}

	if g.Advisory != "" {
		lines = append(lines, StyleAdvisory.Width(inner).Render(g.Advisory))
	}
	return StylePanel.Width(width).Render(strings.Join(lines, "\n"))
}

func renderBoardPanel(mb model.Motherboard, width int) string {
	inner := width - 2
	lines := []string{StyleTitle.Render("System")}

	name := mb.DisplayName()
	if name == "" {
		name = format.Missing
	}
	lines = append(lines, format.Truncate(name, inner))
	if mb.Manufacturer != "" {
		lines = append(lines, StyleLabel.Render("Vendor: ")+mb.Manufacturer)
	}

	if mb.Battery != nil {
		line := StyleLabel.Render("Battery: ") + format.FormatBattery(mb.Battery)
		if mb.Battery.Source != "" {
			line += StyleDim.Render(" (" + mb.Battery.Source + ")")
		}
		lines = append(lines, line)
	}

	if len(mb.Sensors) > 0 {
		lines = append(lines, "", StyleTitle.Render("Sensors"))
		lines = append(lines, temperatureLines(mb.Sensors)...)
	}
	if len(mb.Power) > 0 {
		lines = append(lines, "", StyleTitle.Render("Power"))
		for _, k := range sortedKeys(mb.Power) {
			lines = append(lines, StyleLabel.Render(k+": ")+StyleCyan.Render(mb.Power[k]))
		}
	}

	if mb.Advisory != "" {
		lines = append(lines, StyleAdvisory.Width(inner).Render(mb.Advisory))
	}
	return StylePanel.Width(width).Render(strings.Join(lines, "\n"))
}
