//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"runtime"
)

// UnsupportedManager reports every adapter query as failed
type UnsupportedManager struct {
	Reachability
}

// New returns a manager whose adapter is always off
func New(reachAddr string) Manager {
	return &UnsupportedManager{Reachability: Reachability{Addr: reachAddr}}
}

// AdapterOn always fails
func (m *UnsupportedManager) AdapterOn() (bool, error) {
	return false, &AdapterQueryError{Command: "adapter", Err: errors.New("unsupported platform " + runtime.GOOS)}
}
