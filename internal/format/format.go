// Package format renders telemetry values for display. Absent values are
// rendered as Missing, never as zero.
package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dm/pcpulse/internal/model"
)

// Missing is shown in place of a value that could not be read.
const Missing = "---"

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatCelsius formats an optional temperature with one decimal place.
// Example: 52.34 → "52.3°C", nil → "---".
func FormatCelsius(c *float64) string {
	if c == nil {
		return Missing
	}
	return fmt.Sprintf("%.1f°C", *c)
}

// FormatFrequency formats a clock given in MHz with SI units.
// Example: 2400 → "2.4 GHz", 800 → "800 MHz". Non-positive values return "---".
func FormatFrequency(mhz float64) string {
	if mhz <= 0 {
		return Missing
	}
	return humanize.SIWithDigits(mhz*1e6, 2, "Hz")
}

// FormatNumber formats an integer with comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatCores formats physical and logical counts.
// Example: (4, 8) → "4 cores / 8 threads". Unknown counts render as "---".
func FormatCores(physical, logical int) string {
	count := func(n int, unit string) string {
		if n <= 0 {
			return Missing + " " + unit + "s"
		}
		return humanize.Comma(int64(n)) + " " + pluralize(n, unit)
	}
	return count(physical, "core") + " / " + count(logical, "thread")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// FormatBattery summarises a battery reading.
// Example: "87% discharging, 4:12 remaining". Nil returns "---".
func FormatBattery(b *model.Battery) string {
	if b == nil {
		return Missing
	}
	parts := []string{fmt.Sprintf("%d%%", b.ChargePercent)}
	if b.Status != "" {
		parts[0] += " " + b.Status
	}
	if b.Remaining != "" {
		parts = append(parts, b.Remaining)
	}
	return strings.Join(parts, ", ")
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
