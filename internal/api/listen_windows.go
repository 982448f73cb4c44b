//go:build windows

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	winio "github.com/Microsoft/go-winio"
)

// pipeSDDL grants SYSTEM, Administrators and the creator owner
const pipeSDDL = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// Listen creates the named pipe listener
func Listen(pipeName string) (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSDDL,
		InputBufferSize:    65536,
		OutputBufferSize:   65536,
	}
	ln, err := winio.ListenPipe(pipeName, cfg)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", pipeName, err)
	}
	return ln, nil
}

// dial connects to the named pipe
func dial(ctx context.Context, pipeName string) (net.Conn, error) {
	conn, err := winio.DialPipeContext(ctx, pipeName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotRunning, pipeName)
		}
		return nil, err
	}
	return conn, nil
}
