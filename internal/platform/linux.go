//go:build linux

package platform

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LinuxManager queries NetworkManager through nmcli
type LinuxManager struct {
	Reachability
	run commandRunner
}

// New returns the Linux adapter manager
func New(reachAddr string) Manager {
	return &LinuxManager{
		Reachability: Reachability{Addr: reachAddr},
		run:          runCommand,
	}
}

// AdapterOn reports whether a wifi device exists and its radio is enabled
func (m *LinuxManager) AdapterOn() (bool, error) {
	ctx := context.Background()

	out, err := m.run(ctx, "nmcli", "device", "status")
	if err != nil {
		return false, err
	}
	dev, err := parseNmcliDevices(out)
	if err != nil {
		return false, &AdapterQueryError{Command: "nmcli device status", Err: err}
	}

	out, err = m.run(ctx, "nmcli", "radio", "wifi")
	if err != nil {
		return false, err
	}
	on := parseNmcliRadio(out)
	log.WithFields(log.Fields{"device": dev, "on": on}).Debug("Wi-Fi radio state")
	return on, nil
}
