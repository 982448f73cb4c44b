//go:build windows

package platform

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// WindowsManager queries netsh
type WindowsManager struct {
	Reachability
	run commandRunner
}

// New returns the Windows adapter manager
func New(reachAddr string) Manager {
	return &WindowsManager{
		Reachability: Reachability{Addr: reachAddr},
		run:          runCommand,
	}
}

// AdapterOn reports whether any enabled interface is connected
func (m *WindowsManager) AdapterOn() (bool, error) {
	out, err := m.run(context.Background(), "netsh", "interface", "show", "interface")
	if err != nil {
		return false, err
	}

	ifaces := parseNetshInterfaces(out)
	if len(ifaces) == 0 {
		return false, &AdapterQueryError{Command: "netsh interface show interface", Err: errors.New("no interfaces parsed")}
	}
	for _, iface := range ifaces {
		log.WithFields(log.Fields{"interface": iface.Name, "state": iface.State}).Debug("Interface state")
	}
	return anyConnected(ifaces), nil
}
