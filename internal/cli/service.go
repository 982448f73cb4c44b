package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kardianos/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const serviceStopTimeout = 10 * time.Second

// program adapts runDaemon to the service manager
type program struct {
	configPath string
	version    string

	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		if err := runDaemon(ctx, p.configPath, p.version); err != nil {
			log.WithField("err", err).Error("Daemon exited")
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	select {
	case <-p.done:
	case <-time.After(serviceStopTimeout):
		log.Warn("Daemon did not stop in time")
	}
	return nil
}

// serviceConfig describes the installed service. An explicit config path
// is made absolute since services do not start in the caller's directory.
func serviceConfig(configPath string) *service.Config {
	args := []string{"run"}
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			configPath = abs
		}
		args = append(args, "--config", configPath)
	}
	return &service.Config{
		Name:        "portalkombat",
		DisplayName: "portalkombat",
		Description: "Detects captive portals and logs in automatically",
		Arguments:   args,
	}
}

func newService(configPath, version string) (service.Service, error) {
	prg := &program{configPath: configPath, version: version}
	s, err := service.New(prg, serviceConfig(configPath))
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return s, nil
}

// runService hands control to the service manager
func runService(configPath, version string) error {
	s, err := newService(configPath, version)
	if err != nil {
		return err
	}
	return s.Run()
}

func newServiceCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the portalkombat system service",
	}

	for _, action := range []struct {
		name  string
		short string
		done  string
	}{
		{"install", "Install the system service", "Service installed"},
		{"uninstall", "Remove the system service", "Service removed"},
		{"start", "Start the system service", "Service started"},
		{"stop", "Stop the system service", "Service stopped"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   action.name,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := newService(configFlag(cmd), version)
				if err != nil {
					return err
				}
				if err := service.Control(s, action.name); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint(action.done))
				return nil
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the system service status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService(configFlag(cmd), version)
			if err != nil {
				return err
			}
			status, err := s.Status()
			if err != nil && err != service.ErrNotInstalled {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatServiceStatus(status, err == service.ErrNotInstalled))
			return nil
		},
	})

	return cmd
}

func formatServiceStatus(status service.Status, notInstalled bool) string {
	switch {
	case notInstalled:
		return warnColor.Sprint("not installed")
	case status == service.StatusRunning:
		return okColor.Sprint("running")
	case status == service.StatusStopped:
		return warnColor.Sprint("stopped")
	default:
		return dimColor.Sprint("unknown")
	}
}
