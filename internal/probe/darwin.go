package probe

import (
	"context"
	"strings"

	"github.com/dm/pcpulse/internal/model"
	"github.com/dm/pcpulse/internal/parse"
)

const (
	thermalLevelCounter = "machdep.xcpm.cpu_thermal_level"

	advisoryThermalEstimate = "Estimated from thermal level"
	advisoryIntelGPU        = "Temperature data unavailable for Intel integrated GPU"
	advisoryMacSensors      = "Limited sensor access on macOS. System health metrics shown instead."
	utilizationLimitedAPI   = "Unknown - Limited API access"
)

// powerCounters are tried in order; the first that exists and parses
// as a number is reported.
var powerCounters = []string{
	"machdep.xcpm.pkg_power",
	thermalLevelCounter,
	"hw.sensors.cpu0.temp0",
}

type darwinProbe struct {
	base
}

func (p *darwinProbe) CPU(ctx context.Context) model.CPU {
	c := p.cpuBasics(ctx)
	p.guard("cpu.temperatures", func() {
		p.cpuTemperature(ctx, &c)
	})
	return c
}

// cpuTemperature prefers osx-cpu-temp and falls back to an estimate
// from the xcpm thermal level.
func (p *darwinProbe) cpuTemperature(ctx context.Context, c *model.CPU) {
	out, err := p.run(ctx, "osx-cpu-temp")
	if err == nil {
		var celsius float64
		if celsius, err = parse.CPUTemperature(out); err == nil {
			c.Temperatures["CPU"] = model.Celsius(celsius)
			return
		}
	}
	p.degraded("cpu.temperatures.osx-cpu-temp", err)

	out, err = p.run(ctx, "sysctl", thermalLevelCounter)
	if err == nil {
		var level int
		if level, err = parse.ThermalLevel(out); err == nil {
			c.Temperatures["CPU"] = model.Celsius(parse.EstimateFromThermalLevel(level))
			c.Estimated = true
			c.Advisory = advisoryThermalEstimate
			return
		}
	}
	p.degraded("cpu.temperatures.thermal_level", err)

	c.Temperatures["CPU"] = nil
}

func (p *darwinProbe) GPU(ctx context.Context) model.GPU {
	g := model.NewGPU()
	p.guard("gpu", func() {
		out, err := p.run(ctx, "system_profiler", "SPDisplaysDataType")
		if err != nil {
			p.degraded("gpu", err)
			return
		}
		if strings.TrimSpace(out) == "" {
			return
		}

		g.Available = true
		g.Devices = parse.DisplayProfile(out)
		for _, d := range g.Devices {
			if strings.Contains(d.Name, "Intel") {
				g.Advisory = advisoryIntelGPU
				g.Temperatures["GPU"] = nil
				g.Utilization["GPU Load"] = utilizationLimitedAPI
				break
			}
		}
	})
	return g
}

func (p *darwinProbe) Motherboard(ctx context.Context) model.Motherboard {
	mb := model.NewMotherboard()

	p.guard("motherboard.model", func() {
		out, err := p.run(ctx, "sysctl", "hw.model")
		if err == nil {
			var id string
			if id, err = parse.SysctlValue(out); err == nil {
				mb.Model = id
				mb.Manufacturer = "Apple"
				mb.ModelDisplayName = p.displayName(id)
				return
			}
		}
		p.degraded("motherboard.model", err)
	})

	p.guard("motherboard.battery", func() {
		out, err := p.run(ctx, "pmset", "-g", "batt")
		if err == nil {
			var b model.Battery
			if b, err = parse.PmsetBattery(out); err == nil {
				mb.Battery = &b
				return
			}
		}
		p.degraded("motherboard.battery", err)
	})

	mb.Advisory = advisoryMacSensors

	p.guard("motherboard.power", func() {
		for _, counter := range powerCounters {
			out, err := p.run(ctx, "sysctl", counter)
			if err == nil {
				var v float64
				if v, err = parse.SysctlFloat(out); err == nil {
					mb.Power = map[string]string{"System Power": parse.PowerReading(counter, v)}
					return
				}
			}
			p.degraded("motherboard.power."+counter, err)
		}
	})
	return mb
}
