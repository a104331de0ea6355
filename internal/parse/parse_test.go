package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/pcpulse/internal/model"
)

const pmsetDischarging = `Now drawing from 'Battery Power'
 -InternalBattery-0 (id=4653155)	45%; discharging; 2:32 remaining present: true
`

const pmsetCharged = `Now drawing from 'AC Power'
 -InternalBattery-0 (id=4653155)	100%; charged; 0:00 remaining present: true
`

const profilerIntel = `Graphics/Displays:

    Intel Iris Plus Graphics:

      Chipset Model: Intel Iris Plus Graphics
      Type: GPU
      Bus: Built-In
      VRAM (Dynamic, Max): 1536 MB
      Vendor: Intel
      Device ID: 0x8a53
`

const profilerDual = `Graphics/Displays:

    Intel UHD Graphics 630:

      Chipset Model: Intel UHD Graphics 630
      VRAM (Dynamic, Max): 1536 MB

    AMD Radeon Pro 5500M:

      Chipset Model: AMD Radeon Pro 5500M
      Type: GPU
      VRAM (Total): 4 GB
`

func TestBatteryLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    model.Battery
		wantErr bool
	}{
		{
			name: "full status line",
			line: "Now drawing from 'Battery Power'; 45%; discharging; 2:32 remaining",
			want: model.Battery{ChargePercent: 45, Status: "discharging", Remaining: "2:32 remaining"},
		},
		{
			name: "missing remaining time",
			line: "Now drawing from 'Battery Power'; 45%; discharging",
			want: model.Battery{ChargePercent: 45, Status: "discharging"},
		},
		{
			name: "missing status and remaining",
			line: " -InternalBattery-0 (id=1)	80%",
			want: model.Battery{ChargePercent: 80},
		},
		{
			name: "pmset battery row",
			line: " -InternalBattery-0 (id=4653155)	97%; charging; (no estimate) present: true",
			want: model.Battery{ChargePercent: 97, Status: "charging", Remaining: "(no estimate) present: true"},
		},
		{
			name:    "no percent field",
			line:    "Now drawing from 'AC Power'",
			wantErr: true,
		},
		{
			name:    "non-numeric charge",
			line:    "full%; charged",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BatteryLine(tc.line)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPmsetBattery(t *testing.T) {
	b, err := PmsetBattery(pmsetDischarging)
	require.NoError(t, err)
	assert.Equal(t, 45, b.ChargePercent)
	assert.Equal(t, "discharging", b.Status)
	assert.Equal(t, "2:32 remaining present: true", b.Remaining)
	assert.Equal(t, "Battery Power", b.Source)

	b, err = PmsetBattery(pmsetCharged)
	require.NoError(t, err)
	assert.Equal(t, 100, b.ChargePercent)
	assert.Equal(t, "charged", b.Status)
	assert.Equal(t, "AC Power", b.Source)
}

func TestPmsetBattery_NoBattery(t *testing.T) {
	// Desktops print only the source header.
	_, err := PmsetBattery("Now drawing from 'AC Power'\n")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPowerSource(t *testing.T) {
	assert.Equal(t, "Battery Power", PowerSource(pmsetDischarging))
	assert.Equal(t, "", PowerSource("45%; charging"))
	assert.Equal(t, "", PowerSource("Now drawing from 'unterminated"))
}

func TestSysctlValue(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"named", "hw.model: MacBookPro16,2\n", "MacBookPro16,2", false},
		{"bare -n output", "MacBookPro16,2\n", "MacBookPro16,2", false},
		{"leading blank lines", "\n\nmachdep.xcpm.cpu_thermal_level: 3\n", "3", false},
		{"empty", "", "", true},
		{"key only", "hw.model:", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SysctlValue(tc.output)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSysctlFloat(t *testing.T) {
	f, err := SysctlFloat("machdep.xcpm.pkg_power: 7.25\n")
	require.NoError(t, err)
	assert.InDelta(t, 7.25, f, 1e-9)

	_, err = SysctlFloat("hw.sensors.cpu0.temp0: 48.00 degC\n")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestThermalLevelEstimate(t *testing.T) {
	level, err := ThermalLevel("machdep.xcpm.cpu_thermal_level: 3\n")
	require.NoError(t, err)
	assert.Equal(t, 3, level)
	assert.Equal(t, 75.0, EstimateFromThermalLevel(level))
	assert.Equal(t, 45.0, EstimateFromThermalLevel(0))

	_, err = ThermalLevel("machdep.xcpm.cpu_thermal_level: high\n")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCPUTemperature(t *testing.T) {
	f, err := CPUTemperature("61.8°C\n")
	require.NoError(t, err)
	assert.InDelta(t, 61.8, f, 1e-9)

	_, err = CPUTemperature("0.0\n")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = CPUTemperature("n/a°C")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = CPUTemperature("0.0°C\n")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = CPUTemperature("-1.5°C")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDisplayProfile(t *testing.T) {
	devices := DisplayProfile(profilerIntel)
	require.Len(t, devices, 1)
	assert.Equal(t, model.GPUDevice{Name: "Intel Iris Plus Graphics", VRAM: "1536 MB"}, devices[0])

	devices = DisplayProfile(profilerDual)
	require.Len(t, devices, 2)
	assert.Equal(t, "Intel UHD Graphics 630", devices[0].Name)
	assert.Equal(t, "1536 MB", devices[0].VRAM)
	assert.Equal(t, "AMD Radeon Pro 5500M", devices[1].Name)
	assert.Equal(t, "4 GB", devices[1].VRAM)
}

func TestDisplayProfile_VRAMBeforeDevice(t *testing.T) {
	devices := DisplayProfile("VRAM (Total): 2 GB\n")
	assert.Empty(t, devices)
}

func TestPowerReading(t *testing.T) {
	assert.Equal(t, "7.25 W", PowerReading("machdep.xcpm.pkg_power", 7.25))
	assert.Equal(t, "3.0", PowerReading("machdep.xcpm.cpu_thermal_level", 3))
}
