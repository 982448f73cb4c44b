//go:build darwin

package platform

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// DarwinManager queries networksetup
type DarwinManager struct {
	Reachability
	run commandRunner
}

// New returns the macOS adapter manager
func New(reachAddr string) Manager {
	return &DarwinManager{
		Reachability: Reachability{Addr: reachAddr},
		run:          runCommand,
	}
}

// AdapterOn finds the Wi-Fi hardware port and checks its power state
func (m *DarwinManager) AdapterOn() (bool, error) {
	ctx := context.Background()

	out, err := m.run(ctx, "networksetup", "-listallhardwareports")
	if err != nil {
		return false, err
	}
	dev, err := parseHardwarePorts(out)
	if err != nil {
		return false, &AdapterQueryError{Command: "networksetup -listallhardwareports", Err: err}
	}

	out, err = m.run(ctx, "networksetup", "-getairportpower", dev)
	if err != nil {
		return false, err
	}
	on := parseAirportPower(out)
	log.WithFields(log.Fields{"device": dev, "on": on}).Debug("Wi-Fi power state")
	return on, nil
}
