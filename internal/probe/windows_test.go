package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/pcpulse/internal/client"
)

func leaf(text, value string) client.SensorNode {
	return client.SensorNode{Text: text, Value: value, ImageURL: "images/transparent.png"}
}

func group(text string, children ...client.SensorNode) client.SensorNode {
	return client.SensorNode{Text: text, ImageURL: "images_icon/" + text + ".png", Children: children}
}

func hardware(text, icon string, children ...client.SensorNode) client.SensorNode {
	return client.SensorNode{Text: text, ImageURL: "images_icon/" + icon + ".png", Children: children}
}

func sensorTree(gpus ...client.SensorNode) *client.SensorNode {
	machine := hardware("DESKTOP-01", "computer",
		hardware("ASUS PRIME X570-P", "mainboard",
			hardware("Nuvoton NCT6798D", "chip",
				group("Temperatures", leaf("Motherboard", "34.5 °C"), leaf("PCH", "44,5 °C")),
			),
		),
		hardware("AMD Ryzen 7 3700X", "cpu",
			group("Temperatures", leaf("Core (Tctl/Tdie)", "52.3 °C")),
			group("Load", leaf("CPU Total", "12.5 %")),
			group("Powers", leaf("Package", "45.3 W")),
		),
	)
	machine.Children = append(machine.Children, gpus...)
	return &client.SensorNode{Text: "Sensor", Children: []client.SensorNode{machine}}
}

func rtx(name string) client.SensorNode {
	return hardware(name, "nvidia",
		group("Temperatures", leaf("GPU Core", "41.0 °C")),
		group("Load", leaf("GPU Core", "7.0 %")),
		group("SmallData", leaf("GPU Memory Total", "8192 MB")),
	)
}

func newWindows(t *testing.T, tree *client.SensorNode, err error) PlatformProbe {
	t.Helper()
	return New("windows", Deps{
		Logger: testr.New(t),
		CPU:    &mockCPU{},
		Sensors: &mockSensors{GetSensorsFn: func(context.Context) (*client.SensorNode, error) {
			return tree, err
		}},
	})
}

func TestWindowsCPU(t *testing.T) {
	p := newWindows(t, sensorTree(rtx("NVIDIA GeForce RTX 3070")), nil)

	c := p.CPU(context.Background())
	require.Contains(t, c.Temperatures, "Core (Tctl/Tdie)")
	assert.InDelta(t, 52.3, *c.Temperatures["Core (Tctl/Tdie)"], 0.001)
	assert.Empty(t, c.Advisory)
	assert.Equal(t, 4, c.LogicalThreads)
}

func TestWindowsCPU_ServiceDown(t *testing.T) {
	p := newWindows(t, nil, errors.New("connection refused"))

	c := p.CPU(context.Background())
	assert.Empty(t, c.Temperatures)
	assert.Equal(t, advisorySensorService, c.Advisory)
	assert.Equal(t, 25.0, c.OverallUsage)
}

func TestWindowsCPU_NoCPUSensors(t *testing.T) {
	tree := &client.SensorNode{Children: []client.SensorNode{hardware("Box", "computer")}}
	p := newWindows(t, tree, nil)

	c := p.CPU(context.Background())
	assert.Empty(t, c.Temperatures)
	assert.Equal(t, advisoryNoCPUSensors, c.Advisory)
}

func TestWindowsGPU_Single(t *testing.T) {
	p := newWindows(t, sensorTree(rtx("NVIDIA GeForce RTX 3070")), nil)

	g := p.GPU(context.Background())
	assert.True(t, g.Available)
	require.Len(t, g.Devices, 1)
	assert.Equal(t, "NVIDIA GeForce RTX 3070", g.Devices[0].Name)
	assert.Equal(t, "8192 MB", g.Devices[0].VRAM)
	require.NotNil(t, g.Temperatures["GPU Core"])
	assert.Equal(t, 41.0, *g.Temperatures["GPU Core"])
	assert.Equal(t, "7.0%", g.Utilization["GPU Core"])
}

func TestWindowsGPU_MultiplePrefixesLabels(t *testing.T) {
	p := newWindows(t, sensorTree(rtx("GPU A"), rtx("GPU B")), nil)

	g := p.GPU(context.Background())
	require.Len(t, g.Devices, 2)
	assert.Contains(t, g.Temperatures, "GPU A GPU Core")
	assert.Contains(t, g.Temperatures, "GPU B GPU Core")
	assert.Equal(t, "8192 MB", g.Devices[1].VRAM)
}

func TestWindowsGPU_None(t *testing.T) {
	p := newWindows(t, sensorTree(), nil)

	g := p.GPU(context.Background())
	assert.False(t, g.Available)
	assert.Empty(t, g.Devices)
}

func TestWindowsMotherboard(t *testing.T) {
	p := newWindows(t, sensorTree(), nil)

	mb := p.Motherboard(context.Background())
	assert.Equal(t, "ASUS", mb.Manufacturer)
	assert.Equal(t, "PRIME X570-P", mb.Model)
	require.Contains(t, mb.Sensors, "PCH")
	assert.InDelta(t, 44.5, *mb.Sensors["PCH"], 0.001)
	assert.Equal(t, "45.30 W", mb.Power["AMD Ryzen 7 3700X Package"])
	assert.Empty(t, mb.Advisory)
}

func TestWindowsMotherboard_ServiceDown(t *testing.T) {
	p := newWindows(t, nil, errors.New("connection refused"))

	mb := p.Motherboard(context.Background())
	assert.Equal(t, advisorySensorService, mb.Advisory)
	assert.Empty(t, mb.Sensors)
	assert.Nil(t, mb.Power)
}

func TestSplitVendor(t *testing.T) {
	tests := []struct {
		in, vendor, product string
	}{
		{"ASUS PRIME X570-P", "ASUS", "PRIME X570-P"},
		{"Gigabyte  B550M", "Gigabyte", "B550M"},
		{"Custom", "", "Custom"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, p := splitVendor(tt.in)
			assert.Equal(t, tt.vendor, v)
			assert.Equal(t, tt.product, p)
		})
	}
}
