package client

import (
	"strconv"
	"strings"
)

// SensorNode is one node of the data.json tree served by the sensor
// service. The root holds the machine; hardware, sensor groups and
// individual sensors nest below it through Children.
type SensorNode struct {
	ID       int          `json:"id"`
	Text     string       `json:"Text"`
	Min      string       `json:"Min"`
	Value    string       `json:"Value"`
	Max      string       `json:"Max"`
	ImageURL string       `json:"ImageURL"`
	SensorID string       `json:"SensorId,omitempty"`
	Type     string       `json:"Type,omitempty"`
	Children []SensorNode `json:"Children"`
}

// Hardware kinds recognised in the sensor tree.
const (
	KindCPU       = "cpu"
	KindGPU       = "gpu"
	KindMainboard = "mainboard"
	KindSuperIO   = "superio"
	KindMemory    = "memory"
	KindStorage   = "storage"
	KindBattery   = "battery"
)

// Sensor types as reported by the service.
const (
	TypeTemperature = "Temperature"
	TypeLoad        = "Load"
	TypeClock       = "Clock"
	TypePower       = "Power"
	TypeSmallData   = "SmallData"
)

// groupTypes maps sensor group captions to sensor types, for services
// that do not annotate each sensor with a Type.
var groupTypes = map[string]string{
	"Temperatures": TypeTemperature,
	"Load":         TypeLoad,
	"Clocks":       TypeClock,
	"Powers":       TypePower,
	"Voltages":     "Voltage",
	"Fans":         "Fan",
	"Controls":     "Control",
	"Data":         "Data",
	"SmallData":    TypeSmallData,
	"Throughput":   "Throughput",
}

// Hardware is a device node of the sensor tree.
type Hardware struct {
	Name string
	Kind string
}

// Reading is a flattened sensor leaf together with its owning hardware.
type Reading struct {
	Hardware Hardware
	Label    string
	Type     string
	Raw      string
	Value    *float64 // nil when Raw does not start with a number
}

// Readings flattens the tree into sensor readings in document order.
// Leaves that are not below a recognised hardware node are skipped.
func (n *SensorNode) Readings() []Reading {
	var out []Reading
	n.walk(nil, "", &out)
	return out
}

// Hardware returns every recognised hardware node in document order.
func (n *SensorNode) Hardware() []Hardware {
	var out []Hardware
	var visit func(node *SensorNode)
	visit = func(node *SensorNode) {
		if kind := hardwareKind(node); kind != "" {
			out = append(out, Hardware{Name: node.Text, Kind: kind})
		}
		for i := range node.Children {
			visit(&node.Children[i])
		}
	}
	visit(n)
	return out
}

func (n *SensorNode) walk(hw *Hardware, sensorType string, out *[]Reading) {
	if kind := hardwareKind(n); kind != "" {
		hw = &Hardware{Name: n.Text, Kind: kind}
		sensorType = ""
	} else if t, ok := groupTypes[n.Text]; ok && len(n.Children) > 0 {
		sensorType = t
	}

	if len(n.Children) == 0 {
		if hw == nil || n.Value == "" {
			return
		}
		t := n.Type
		if t == "" {
			t = sensorType
		}
		*out = append(*out, Reading{
			Hardware: *hw,
			Label:    n.Text,
			Type:     t,
			Raw:      n.Value,
			Value:    ParseValue(n.Value),
		})
		return
	}

	for i := range n.Children {
		n.Children[i].walk(hw, sensorType, out)
	}
}

// hardwareKind classifies a node by its icon. Sensor groups and leaves
// use generic icons and classify as "".
func hardwareKind(n *SensorNode) string {
	icon := strings.ToLower(n.ImageURL)
	if !strings.HasPrefix(icon, "images_icon/") {
		return ""
	}
	icon = strings.TrimSuffix(strings.TrimPrefix(icon, "images_icon/"), ".png")
	switch {
	case icon == "cpu":
		return KindCPU
	case icon == "nvidia", icon == "ati", icon == "amd", icon == "intel", strings.Contains(icon, "gpu"):
		return KindGPU
	case icon == "mainboard":
		return KindMainboard
	case icon == "chip":
		return KindSuperIO
	case icon == "ram":
		return KindMemory
	case icon == "hdd", icon == "nvme":
		return KindStorage
	case icon == "battery":
		return KindBattery
	default:
		return ""
	}
}

// ParseValue extracts the leading number of a formatted sensor value
// such as "45.0 °C", "12,5 %" or "3600 MHz". Comma decimal separators
// from localised services are accepted.
func ParseValue(raw string) *float64 {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	num := strings.Replace(fields[0], ",", ".", 1)
	num = strings.TrimRight(num, "°C%")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil
	}
	return &f
}
