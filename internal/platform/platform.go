// Package platform answers the two questions the state machine asks the
// host operating system: is the wireless adapter powered on, and is the
// internet directly reachable.
//
// Adapter queries shell out to the platform's network configuration tool
// (nmcli, networksetup, netsh). New selects the implementation for the
// build target. Output parsers live in parse.go so they can be tested on
// any platform.
package platform

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultReachabilityAddr is dialled to decide whether the internet is reachable
const DefaultReachabilityAddr = "8.8.8.8:53"

// commandTimeout bounds every adapter query subprocess
const commandTimeout = 10 * time.Second

// Manager is the capability consumed by the state machine
type Manager interface {
	AdapterOn() (bool, error)
	InternetReachable(timeoutSeconds int) bool
}

// AdapterQueryError reports a failed or unparseable adapter query
type AdapterQueryError struct {
	Command string
	Err     error
}

func (e *AdapterQueryError) Error() string {
	return fmt.Sprintf("adapter query %q: %v", e.Command, e.Err)
}

func (e *AdapterQueryError) Unwrap() error {
	return e.Err
}

// Reachability implements InternetReachable with a bounded TCP dial
type Reachability struct {
	Addr string
	Dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// InternetReachable reports whether a TCP connection to Addr succeeds
// within timeoutSeconds
func (r Reachability) InternetReachable(timeoutSeconds int) bool {
	addr := r.Addr
	if addr == "" {
		addr = DefaultReachabilityAddr
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 1
	}
	dial := r.Dial
	if dial == nil {
		dial = net.DialTimeout
	}

	conn, err := dial("tcp", addr, time.Duration(timeoutSeconds)*time.Second)
	if err != nil {
		log.WithField("addr", addr).Debugf("Internet not reachable: %v", err)
		return false
	}
	conn.Close()
	log.WithField("addr", addr).Debug("Internet reachable")
	return true
}

// commandRunner runs a subprocess and returns its stdout
type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.WithFields(log.Fields{
		"cmd":        name,
		"elapsed_ms": time.Since(start).Milliseconds(),
		"stdout_len": stdout.Len(),
	}).Debug("Adapter query finished")

	if err != nil {
		cmdline := name
		for _, a := range args {
			cmdline += " " + a
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return "", &AdapterQueryError{Command: cmdline, Err: err}
	}
	return stdout.String(), nil
}
