package probe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dm/pcpulse/internal/model"
)

type linuxProbe struct {
	base
	temps TemperatureSource
	sysfs string
}

// temperatures reads all sensors once, bounded by the probe timeout.
func (p *linuxProbe) temperatures(ctx context.Context) ([]TempReading, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.temps.Temperatures(ctx)
}

func (p *linuxProbe) CPU(ctx context.Context) model.CPU {
	c := p.cpuBasics(ctx)
	p.guard("cpu.temperatures", func() {
		readings, err := p.temperatures(ctx)
		if err != nil {
			p.degraded("cpu.temperatures", err)
		}
		for _, r := range readings {
			if isCPUSensor(r.Key) {
				c.Temperatures[r.Key] = model.Celsius(r.Celsius)
			}
		}
	})
	if len(c.Temperatures) == 0 {
		c.Temperatures["CPU"] = nil
	}
	return c
}

func (p *linuxProbe) GPU(ctx context.Context) model.GPU {
	g := model.NewGPU()
	p.guard("gpu", func() {
		drm := filepath.Join(p.sysfs, "class", "drm")
		for _, card := range listDir(drm) {
			if !isCardDevice(card) {
				continue
			}
			device := filepath.Join(drm, card, "device")
			vendor, deviceID := parsePCIUevent(device)
			if vendor == "" {
				continue
			}

			name := readSysfsString(filepath.Join(device, "product_name"))
			if name == "" {
				name = strings.TrimSpace(vendor + " GPU " + deviceID)
			}
			d := model.GPUDevice{Name: name}
			if vram, ok := readSysfsInt(filepath.Join(device, "mem_info_vram_total")); ok && vram > 0 {
				d.VRAM = humanize.IBytes(uint64(vram))
			}
			g.Devices = append(g.Devices, d)

			if celsius, ok := readHwmonTemp(device); ok {
				g.Temperatures[card] = model.Celsius(celsius)
			} else {
				g.Temperatures[card] = nil
			}
			if busy, ok := readSysfsInt(filepath.Join(device, "gpu_busy_percent")); ok {
				g.Utilization[card+" Load"] = fmt.Sprintf("%d%%", busy)
			}
		}
		g.Available = len(g.Devices) > 0
	})
	return g
}

func (p *linuxProbe) Motherboard(ctx context.Context) model.Motherboard {
	mb := model.NewMotherboard()

	p.guard("motherboard.model", func() {
		dmi := filepath.Join(p.sysfs, "class", "dmi", "id")
		mb.Manufacturer = readSysfsString(filepath.Join(dmi, "board_vendor"))
		if mb.Manufacturer == "" {
			mb.Manufacturer = readSysfsString(filepath.Join(dmi, "sys_vendor"))
		}
		mb.Model = readSysfsString(filepath.Join(dmi, "board_name"))
		product := readSysfsString(filepath.Join(dmi, "product_name"))
		if mb.Model == "" {
			mb.Model = product
		}
		mb.ModelDisplayName = p.displayName(mb.Model, product)
	})

	p.guard("motherboard.sensors", func() {
		readings, err := p.temperatures(ctx)
		if err != nil {
			p.degraded("motherboard.sensors", err)
		}
		for _, r := range readings {
			if !isCPUSensor(r.Key) {
				mb.Sensors[r.Key] = model.Celsius(r.Celsius)
			}
		}
	})

	p.guard("motherboard.battery", func() {
		p.battery(&mb)
	})
	return mb
}

// battery reads the first BAT* power supply.
func (p *linuxProbe) battery(mb *model.Motherboard) {
	supplies := filepath.Join(p.sysfs, "class", "power_supply")
	for _, name := range listDir(supplies) {
		if !strings.HasPrefix(name, "BAT") {
			continue
		}
		dir := filepath.Join(supplies, name)
		capacity, ok := readSysfsInt(filepath.Join(dir, "capacity"))
		if !ok {
			continue
		}

		b := &model.Battery{
			ChargePercent: int(capacity),
			Status:        strings.ToLower(readSysfsString(filepath.Join(dir, "status"))),
		}
		powerNow, hasPower := readSysfsInt(filepath.Join(dir, "power_now"))
		if energyNow, ok := readSysfsInt(filepath.Join(dir, "energy_now")); ok && hasPower && powerNow > 0 && b.Status == "discharging" {
			b.Remaining = formatRemaining(time.Duration(float64(energyNow) / float64(powerNow) * float64(time.Hour)))
		}
		if online, ok := readSysfsInt(filepath.Join(supplies, "AC", "online")); ok {
			b.Source = "Battery Power"
			if online == 1 {
				b.Source = "AC Power"
			}
		}
		mb.Battery = b

		if hasPower && powerNow > 0 {
			// power_now is in microwatts.
			mb.Power = map[string]string{"Battery Power": fmt.Sprintf("%.2f W", float64(powerNow)/1e6)}
		}
		return
	}
}

// formatRemaining renders a duration as "H:MM remaining", the format
// pmset uses.
func formatRemaining(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%d:%02d remaining", int(d.Hours()), int(d.Minutes())%60)
}
