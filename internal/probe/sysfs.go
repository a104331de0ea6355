package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// isCardDevice returns true for DRM card device names (card0, card1, ...)
// but not connectors (card0-DP-1) or render nodes (renderD128).
func isCardDevice(name string) bool {
	if !strings.HasPrefix(name, "card") {
		return false
	}
	suffix := name[4:]
	if len(suffix) == 0 {
		return false
	}
	for _, character := range suffix {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}

// parsePCIUevent extracts vendor name and device ID from the device's
// uevent file, which contains lines like:
//
//	PCI_ID=1002:744A
//	PCI_SLOT_NAME=0000:c3:00.0
func parsePCIUevent(devicePath string) (vendor, deviceID string) {
	for _, line := range strings.Split(readSysfsString(filepath.Join(devicePath, "uevent")), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok || key != "PCI_ID" {
			continue
		}
		ids := strings.SplitN(value, ":", 2)
		if len(ids) == 2 {
			vendor = pciVendorName(strings.ToLower(ids[0]))
			deviceID = "0x" + strings.ToLower(ids[1])
		}
	}
	return vendor, deviceID
}

// pciVendorName maps a PCI vendor ID to a human-readable name.
func pciVendorName(vendorID string) string {
	switch vendorID {
	case "1002":
		return "AMD"
	case "10de":
		return "NVIDIA"
	case "8086":
		return "Intel"
	case "":
		return ""
	default:
		return fmt.Sprintf("0x%s", vendorID)
	}
}

// readSysfsString reads a sysfs file and returns its trimmed content.
// Returns "" on any error.
func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readSysfsInt reads an integer from a sysfs file.
func readSysfsInt(path string) (int64, bool) {
	value := readSysfsString(path)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// readHwmonTemp returns the first temp1_input below a device's hwmon
// directory, converted from millidegrees to Celsius.
func readHwmonTemp(devicePath string) (float64, bool) {
	matches, _ := filepath.Glob(filepath.Join(devicePath, "hwmon", "hwmon*", "temp1_input"))
	sort.Strings(matches)
	for _, path := range matches {
		if milli, ok := readSysfsInt(path); ok {
			return float64(milli) / 1000, true
		}
	}
	return 0, false
}

// listDir returns the sorted entry names of dir, or nil.
func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
