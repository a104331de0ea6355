// Package parse turns the free-text output of platform tools into
// structured values. Every function is pure: it takes the captured
// output as a string and returns a result or ErrMalformed, so format
// drift in one tool cannot affect the parsing of another.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dm/pcpulse/internal/model"
)

// ErrMalformed reports tool output that does not have the expected shape.
var ErrMalformed = errors.New("malformed tool output")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// BatteryLine parses one semicolon-delimited battery status line, e.g.
//
//	-InternalBattery-0 (id=4653155)	45%; discharging; 2:32 remaining present: true
//
// Fields are positional starting at the first field that carries a
// percent sign: charge, then status, then remaining time. Missing
// trailing fields leave Status or Remaining empty.
func BatteryLine(line string) (model.Battery, error) {
	parts := strings.Split(line, ";")

	charge := -1
	for i, part := range parts {
		if strings.Contains(part, "%") {
			charge = i
			break
		}
	}
	if charge < 0 {
		return model.Battery{}, malformed("no charge field in %q", line)
	}

	fields := strings.Fields(strings.SplitN(parts[charge], "%", 2)[0])
	if len(fields) == 0 {
		return model.Battery{}, malformed("empty charge field in %q", line)
	}
	pct, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return model.Battery{}, malformed("charge %q: %v", fields[len(fields)-1], err)
	}

	b := model.Battery{ChargePercent: pct}
	if len(parts) > charge+1 {
		b.Status = strings.TrimSpace(parts[charge+1])
	}
	if len(parts) > charge+2 {
		b.Remaining = strings.TrimSpace(parts[charge+2])
	}
	return b, nil
}

// PowerSource extracts the quoted source name from a
// "Now drawing from 'Battery Power'" header. Returns "" when absent.
func PowerSource(output string) string {
	const marker = "Now drawing from '"
	i := strings.Index(output, marker)
	if i < 0 {
		return ""
	}
	rest := output[i+len(marker):]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// PmsetBattery parses the full output of `pmset -g batt`. The first
// line containing a percent sign is handed to BatteryLine; the power
// source header, when present, fills Source.
func PmsetBattery(output string) (model.Battery, error) {
	source := PowerSource(output)
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "%") {
			continue
		}
		b, err := BatteryLine(line)
		if err != nil {
			return model.Battery{}, err
		}
		if b.Source == "" {
			b.Source = source
		}
		return b, nil
	}
	return model.Battery{}, malformed("no battery line")
}

// SysctlValue returns the value of a `sysctl <name>` style line
// ("name: value"). Output without a colon, as printed by `sysctl -n`,
// is returned trimmed.
func SysctlValue(output string) (string, error) {
	line := firstLine(output)
	if line == "" {
		return "", malformed("empty sysctl output")
	}
	if i := strings.LastIndex(line, ":"); i >= 0 {
		line = line[i+1:]
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", malformed("empty sysctl value")
	}
	return value, nil
}

// SysctlFloat parses the value of a sysctl line as a float.
func SysctlFloat(output string) (float64, error) {
	value, err := SysctlValue(output)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, malformed("sysctl value %q: %v", value, err)
	}
	return f, nil
}

// ThermalLevel parses machdep.xcpm.cpu_thermal_level.
func ThermalLevel(output string) (int, error) {
	value, err := SysctlValue(output)
	if err != nil {
		return 0, err
	}
	level, err := strconv.Atoi(value)
	if err != nil {
		return 0, malformed("thermal level %q: %v", value, err)
	}
	return level, nil
}

// EstimateFromThermalLevel maps a CPU thermal level to an approximate
// temperature in Celsius.
func EstimateFromThermalLevel(level int) float64 {
	return 45 + float64(level)*10
}

// CPUTemperature parses osx-cpu-temp output such as "61.8°C".
// A reading without the °C unit is rejected, and so is one at or below
// zero, which the tool prints when it cannot read the sensor.
func CPUTemperature(output string) (float64, error) {
	line := firstLine(output)
	if !strings.Contains(line, "°C") {
		return 0, malformed("no °C unit in %q", line)
	}
	value := strings.TrimSpace(strings.Replace(line, "°C", "", 1))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, malformed("temperature %q: %v", value, err)
	}
	if f <= 0 {
		return 0, malformed("no sensor reading %q", line)
	}
	return f, nil
}

// DisplayProfile extracts adapters from `system_profiler SPDisplaysDataType`.
// Each "Chipset Model:" line opens a device; a following line mentioning
// VRAM sets that device's memory.
func DisplayProfile(output string) []model.GPUDevice {
	const chipset = "Chipset Model:"

	var devices []model.GPUDevice
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.Contains(line, chipset):
			name := strings.TrimSpace(line[strings.Index(line, chipset)+len(chipset):])
			devices = append(devices, model.GPUDevice{Name: name})
		case strings.Contains(line, "VRAM") && len(devices) > 0:
			i := strings.LastIndex(line, ":")
			devices[len(devices)-1].VRAM = strings.TrimSpace(line[i+1:])
		}
	}
	return devices
}

// PowerReading formats a power or thermal counter value. Counters whose
// name mentions power are reported in watts; others as raw values.
func PowerReading(counter string, value float64) string {
	if strings.Contains(counter, "power") {
		return fmt.Sprintf("%.2f W", value)
	}
	return fmt.Sprintf("%.1f", value)
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
