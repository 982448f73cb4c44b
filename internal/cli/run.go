package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kardianos/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"portalkombat/internal/api"
	"portalkombat/internal/config"
	"portalkombat/internal/handler"
	"portalkombat/internal/hub"
	"portalkombat/internal/logging"
	"portalkombat/internal/machine"
	"portalkombat/internal/repository/sqlite"
	pkservice "portalkombat/internal/service"
	"portalkombat/internal/watcher"
)

func newRunCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !service.Interactive() {
				return runService(configFlag(cmd), version)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDaemon(ctx, configFlag(cmd), version)
		},
	}
}

// runDaemon wires the daemon and blocks until ctx is done or a component
// fails
func runDaemon(ctx context.Context, configPath, version string) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, nil); err != nil {
		return err
	}
	if path == "" {
		log.Warn("No config file found, using defaults (run `portalkombat init`)")
	} else {
		log.WithField("path", path).Info("Config loaded")
	}

	var history *sqlite.Repository
	if cfg.History.Enabled {
		history, err = sqlite.New(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer history.Close()
		history.WithRetention(cfg.History.Keep)
		log.WithField("path", cfg.History.Path).Info("Login history opened")
	}

	bus := pkservice.NewEventBus()
	daemon, err := pkservice.NewDaemon(cfg, pkservice.DefaultFactory(), history, bus, version)
	if err != nil {
		return err
	}
	log.Info(cfg.Summary())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := machine.NewRunner(daemon, cfg.PollInterval())

	var wg sync.WaitGroup
	errCh := make(chan error, 3)
	spawn := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	spawn("runner", func() error { return runner.Run(ctx) })

	if cfg.Status.Enabled {
		sseHub := hub.New()
		go sseHub.Run(ctx)
		sseHub.Attach(ctx, bus)

		srv := api.NewServer(cfg.Status.Socket, handler.NewStatusHandler(daemon), sseHub)
		spawn("status api", func() error { return srv.Serve(ctx) })
	}

	if path != "" && cfg.Reload.Enabled {
		w := watcher.New(path, func() {
			reloadConfig(daemon, runner, path)
		}).WithDebounce(cfg.Reload.Debounce.Duration())
		spawn("config watcher", func() error { return w.Watch(ctx) })
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case runErr = <-errCh:
		log.WithField("err", runErr).Error("Component failed, shutting down")
	}
	cancel()
	wg.Wait()

	return runErr
}

// reloadConfig swaps in a changed config and asks for an immediate cycle.
// Invalid files are logged and ignored.
func reloadConfig(daemon *pkservice.Daemon, runner *machine.Runner, path string) {
	next, _, err := config.LoadFromPath(path)
	if err != nil {
		log.WithField("err", err).Warn("Config reload failed, keeping current config")
		return
	}

	prev := daemon.Config()
	if err := daemon.Reload(next); err != nil {
		log.WithField("err", err).Warn("Config reload rejected, keeping current config")
		return
	}

	if next.PollIntervalSeconds != prev.PollIntervalSeconds {
		log.Warn("poll_interval_seconds changes take effect after restart")
	}
	if next.History != prev.History || next.Status != prev.Status {
		log.Warn("history and status changes take effect after restart")
	}
	if next.Log != prev.Log {
		if err := logging.Setup(next.Log.Level, next.Log.Format, nil); err != nil {
			log.WithField("err", err).Warn("Failed to apply log settings")
		}
	}

	runner.Trigger()
}
