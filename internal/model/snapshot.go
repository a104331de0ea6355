package model

import "time"

// Snapshot holds the telemetry gathered during a single sampling tick.
// Every section is always present; absent readings are nil pointers,
// empty strings, or empty maps rather than missing sections.
type Snapshot struct {
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	CPU         CPU         `json:"cpu" yaml:"cpu"`
	GPU         GPU         `json:"gpu" yaml:"gpu"`
	Motherboard Motherboard `json:"motherboard" yaml:"motherboard"`
}

// Temperatures maps a sensor label to a reading in degrees Celsius.
// A nil value means the sensor is known but has no reading.
type Temperatures map[string]*float64

// CPU is the processor section of a Snapshot.
type CPU struct {
	Name           string       `json:"name" yaml:"name"`
	PerCoreUsage   []float64    `json:"per_core_usage" yaml:"per_core_usage"`
	OverallUsage   float64      `json:"overall_usage" yaml:"overall_usage"`
	PhysicalCores  int          `json:"physical_cores" yaml:"physical_cores"`
	LogicalThreads int          `json:"logical_threads" yaml:"logical_threads"`
	Temperatures   Temperatures `json:"temperatures" yaml:"temperatures"`
	Frequencies    []float64    `json:"frequencies,omitempty" yaml:"frequencies,omitempty"` // MHz, nil when unavailable

	// Estimated is set when Temperatures were derived from a proxy
	// counter rather than read from a thermal sensor.
	Estimated bool   `json:"estimated,omitempty" yaml:"estimated,omitempty"`
	Advisory  string `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}

// GPUDevice describes one display adapter.
type GPUDevice struct {
	Name string `json:"name" yaml:"name"`
	VRAM string `json:"vram,omitempty" yaml:"vram,omitempty"`
}

// GPU is the graphics section of a Snapshot.
type GPU struct {
	Available    bool              `json:"available" yaml:"available"`
	Devices      []GPUDevice       `json:"devices" yaml:"devices"`
	Temperatures Temperatures      `json:"temperatures" yaml:"temperatures"`
	Utilization  map[string]string `json:"utilization" yaml:"utilization"`
	Advisory     string            `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}

// Battery is the parsed power-management status of a portable machine.
type Battery struct {
	ChargePercent int    `json:"charge_percent" yaml:"charge_percent"`
	Status        string `json:"status" yaml:"status"`
	Remaining     string `json:"remaining,omitempty" yaml:"remaining,omitempty"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Motherboard is the board, battery and power section of a Snapshot.
type Motherboard struct {
	Manufacturer     string            `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Model            string            `json:"model,omitempty" yaml:"model,omitempty"`
	ModelDisplayName string            `json:"model_display_name,omitempty" yaml:"model_display_name,omitempty"`
	Sensors          Temperatures      `json:"sensors" yaml:"sensors"`
	Battery          *Battery          `json:"battery,omitempty" yaml:"battery,omitempty"`
	Power            map[string]string `json:"power,omitempty" yaml:"power,omitempty"`
	Advisory         string            `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}

// NewCPU returns a CPU section with its maps allocated.
func NewCPU() CPU {
	return CPU{Temperatures: Temperatures{}}
}

// NewGPU returns an unavailable GPU section with its maps allocated.
func NewGPU() GPU {
	return GPU{
		Temperatures: Temperatures{},
		Utilization:  map[string]string{},
	}
}

// NewMotherboard returns a Motherboard section with its maps allocated.
func NewMotherboard() Motherboard {
	return Motherboard{Sensors: Temperatures{}}
}

// Celsius returns a pointer to v, for populating Temperatures.
func Celsius(v float64) *float64 {
	return &v
}

// DisplayName returns the override display name when one is set,
// otherwise the raw model identifier.
func (m Motherboard) DisplayName() string {
	if m.ModelDisplayName != "" {
		return m.ModelDisplayName
	}
	return m.Model
}
