package probe

import (
	"context"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/sensors"
)

// CPUSource reads processor identity and utilization.
type CPUSource interface {
	Brand(ctx context.Context) (string, error)
	// Usage returns utilization percentages since the previous call,
	// one per logical core when perCore is set, otherwise one overall.
	// It must not block for a sampling interval.
	Usage(ctx context.Context, perCore bool) ([]float64, error)
	Counts(ctx context.Context, logical bool) (int, error)
	// Frequencies returns the current clock of each reported core in MHz.
	Frequencies(ctx context.Context) ([]float64, error)
}

// TempReading is one raw temperature sensor.
type TempReading struct {
	Key     string
	Celsius float64
}

// TemperatureSource enumerates the temperature sensors the OS exposes.
type TemperatureSource interface {
	Temperatures(ctx context.Context) ([]TempReading, error)
}

// GopsutilCPU implements CPUSource with gopsutil. The brand string is
// read once and cached since it cannot change while running.
type GopsutilCPU struct {
	mu    sync.Mutex
	brand string
}

// NewGopsutilCPU returns a CPUSource backed by gopsutil.
func NewGopsutilCPU() *GopsutilCPU {
	return &GopsutilCPU{}
}

// Brand returns the model name of the first processor.
func (g *GopsutilCPU) Brand(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.brand != "" {
		return g.brand, nil
	}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 || strings.TrimSpace(infos[0].ModelName) == "" {
		return "", errNoData
	}
	g.brand = strings.TrimSpace(infos[0].ModelName)
	return g.brand, nil
}

// Usage uses a zero interval, so gopsutil compares against the times
// recorded on the previous call instead of sleeping.
func (g *GopsutilCPU) Usage(ctx context.Context, perCore bool) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, perCore)
}

// Counts returns physical cores or logical threads.
func (g *GopsutilCPU) Counts(ctx context.Context, logical bool) (int, error) {
	n, err := cpu.CountsWithContext(ctx, logical)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errNoData
	}
	return n, nil
}

// Frequencies returns the per-entry MHz reported by gopsutil. Platforms
// that report a single package entry yield a one-element slice.
func (g *GopsutilCPU) Frequencies(ctx context.Context) ([]float64, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	var freqs []float64
	for _, info := range infos {
		if info.Mhz > 0 {
			freqs = append(freqs, info.Mhz)
		}
	}
	if len(freqs) == 0 {
		return nil, errNoData
	}
	return freqs, nil
}

// GopsutilTemperatures implements TemperatureSource with gopsutil.
type GopsutilTemperatures struct{}

// Temperatures returns every sensor with a plausible reading. gopsutil
// reports partial results alongside a warning error; those are kept.
func (GopsutilTemperatures) Temperatures(ctx context.Context) ([]TempReading, error) {
	stats, err := sensors.TemperaturesWithContext(ctx)
	if err != nil && len(stats) == 0 {
		return nil, err
	}

	out := make([]TempReading, 0, len(stats))
	for _, s := range stats {
		if s.Temperature <= 0 || s.Temperature > 150 {
			continue
		}
		out = append(out, TempReading{Key: s.SensorKey, Celsius: s.Temperature})
	}
	return out, nil
}

var cpuSensorHints = []string{"coretemp", "k10temp", "zenpower", "package", "tctl", "tdie", "cpu", "core"}

// isCPUSensor reports whether a sensor key names a processor sensor.
func isCPUSensor(key string) bool {
	k := strings.ToLower(key)
	for _, hint := range cpuSensorHints {
		if strings.Contains(k, hint) {
			return true
		}
	}
	return false
}
