package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/dm/pcpulse/internal/client"
	"github.com/dm/pcpulse/internal/model"
)

const (
	advisorySensorService = "LibreHardwareMonitor or OpenHardwareMonitor not detected. " +
		"Install it, run it, and enable its remote web server."
	advisoryNoCPUSensors = "The hardware sensor service reports no CPU temperature sensors."
)

type windowsProbe struct {
	base
	sensors client.SensorClient
}

// readings fetches the flattened sensor tree from the sensor service.
func (p *windowsProbe) readings(ctx context.Context) (*client.SensorNode, error) {
	if p.sensors == nil {
		return nil, fmt.Errorf("sensor service: %w", ErrUnsupported)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.sensors.GetSensors(ctx)
}

func (p *windowsProbe) CPU(ctx context.Context) model.CPU {
	c := p.cpuBasics(ctx)
	p.guard("cpu.temperatures", func() {
		root, err := p.readings(ctx)
		if err != nil {
			p.degraded("cpu.temperatures", err)
			c.Advisory = advisorySensorService
			return
		}
		for _, r := range root.Readings() {
			if r.Hardware.Kind == client.KindCPU && r.Type == client.TypeTemperature && r.Value != nil {
				c.Temperatures[r.Label] = model.Celsius(*r.Value)
			}
		}
		if len(c.Temperatures) == 0 {
			c.Advisory = advisoryNoCPUSensors
		}
	})
	return c
}

func (p *windowsProbe) GPU(ctx context.Context) model.GPU {
	g := model.NewGPU()
	p.guard("gpu", func() {
		root, err := p.readings(ctx)
		if err != nil {
			p.degraded("gpu", err)
			return
		}

		index := map[string]int{}
		for _, hw := range root.Hardware() {
			if hw.Kind != client.KindGPU {
				continue
			}
			index[hw.Name] = len(g.Devices)
			g.Devices = append(g.Devices, model.GPUDevice{Name: hw.Name})
		}
		if len(g.Devices) == 0 {
			return
		}
		g.Available = true

		multi := len(g.Devices) > 1
		label := func(r client.Reading) string {
			if multi {
				return r.Hardware.Name + " " + r.Label
			}
			return r.Label
		}

		for _, r := range root.Readings() {
			if r.Hardware.Kind != client.KindGPU {
				continue
			}
			switch {
			case r.Type == client.TypeTemperature:
				if r.Value != nil {
					g.Temperatures[label(r)] = model.Celsius(*r.Value)
				} else {
					g.Temperatures[label(r)] = nil
				}
			case r.Type == client.TypeLoad && r.Value != nil:
				g.Utilization[label(r)] = fmt.Sprintf("%.1f%%", *r.Value)
			case r.Type == client.TypeSmallData && strings.Contains(r.Label, "Memory Total"):
				g.Devices[index[r.Hardware.Name]].VRAM = r.Raw
			}
		}
	})
	return g
}

func (p *windowsProbe) Motherboard(ctx context.Context) model.Motherboard {
	mb := model.NewMotherboard()
	p.guard("motherboard", func() {
		root, err := p.readings(ctx)
		if err != nil {
			p.degraded("motherboard", err)
			mb.Advisory = advisorySensorService
			return
		}

		for _, hw := range root.Hardware() {
			if hw.Kind == client.KindMainboard {
				mb.Manufacturer, mb.Model = splitVendor(hw.Name)
				mb.ModelDisplayName = p.displayName(hw.Name, mb.Model)
				break
			}
		}

		for _, r := range root.Readings() {
			switch {
			case (r.Hardware.Kind == client.KindMainboard || r.Hardware.Kind == client.KindSuperIO) &&
				r.Type == client.TypeTemperature:
				if r.Value != nil {
					mb.Sensors[r.Label] = model.Celsius(*r.Value)
				} else {
					mb.Sensors[r.Label] = nil
				}
			case r.Type == client.TypePower && r.Value != nil:
				if mb.Power == nil {
					mb.Power = map[string]string{}
				}
				mb.Power[r.Hardware.Name+" "+r.Label] = fmt.Sprintf("%.2f W", *r.Value)
			}
		}
	})
	return mb
}

// splitVendor splits "ASUS PRIME X570-P" into its vendor and model.
func splitVendor(name string) (vendor, product string) {
	vendor, product, ok := strings.Cut(strings.TrimSpace(name), " ")
	if !ok {
		return "", vendor
	}
	return vendor, strings.TrimSpace(product)
}
