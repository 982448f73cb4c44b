package platform

import (
	"errors"
	"strings"
)

var errNoWifiDevice = errors.New("no Wi-Fi device found")

// parseNmcliDevices returns the first wifi device from `nmcli device status`
func parseNmcliDevices(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		cols := strings.Fields(line)
		if len(cols) >= 2 && cols[1] == "wifi" {
			return cols[0], nil
		}
	}
	return "", errNoWifiDevice
}

// parseNmcliRadio interprets `nmcli radio wifi`
func parseNmcliRadio(out string) bool {
	return strings.TrimSpace(out) == "enabled"
}

// parseHardwarePorts returns the device of the Wi-Fi (or AirPort) port
// from `networksetup -listallhardwareports`
func parseHardwarePorts(out string) (string, error) {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "Hardware Port: Wi-Fi") && !strings.Contains(line, "Hardware Port: AirPort") {
			continue
		}
		// Device: follows within the next few lines of the block
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			if idx := strings.Index(lines[j], "Device:"); idx >= 0 {
				if dev := strings.TrimSpace(lines[j][idx+len("Device:"):]); dev != "" {
					return dev, nil
				}
			}
		}
	}
	return "", errNoWifiDevice
}

// parseAirportPower interprets `networksetup -getairportpower <dev>`,
// e.g. "Wi-Fi Power (en0): On"
func parseAirportPower(out string) bool {
	idx := strings.LastIndex(out, ":")
	if idx < 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(out[idx+1:]), "On")
}

// Interface is one row of `netsh interface show interface`
type Interface struct {
	Name       string
	AdminState string
	State      string
	Type       string
}

// parseNetshInterfaces reads the rows below the dashed separator line.
// Interface names may contain spaces and are everything after the third column.
func parseNetshInterfaces(out string) []Interface {
	var (
		ifaces []Interface
		inBody bool
	)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "---") {
			inBody = true
			continue
		}
		if !inBody || trimmed == "" {
			continue
		}
		cols := strings.Fields(trimmed)
		if len(cols) < 4 {
			continue
		}
		ifaces = append(ifaces, Interface{
			AdminState: cols[0],
			State:      cols[1],
			Type:       cols[2],
			Name:       strings.Join(cols[3:], " "),
		})
	}
	return ifaces
}

// anyConnected reports whether an enabled interface is connected
func anyConnected(ifaces []Interface) bool {
	for _, iface := range ifaces {
		if strings.EqualFold(iface.State, "Connected") && !strings.EqualFold(iface.AdminState, "Disabled") {
			return true
		}
	}
	return false
}
