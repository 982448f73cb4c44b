package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"portalkombat/internal/config"
	"portalkombat/internal/domain"
	"portalkombat/internal/machine"
	"portalkombat/internal/platform"
	"portalkombat/internal/portal"
	"portalkombat/internal/repository/sqlite"
)

// ErrHistoryDisabled is returned by History when no store is configured
var ErrHistoryDisabled = errors.New("login history is disabled")

// Factory builds the platform and portal collaborators for a config
type Factory struct {
	Network func(cfg *config.Config) machine.NetworkManager
	Portal  func(cfg *config.Config) machine.Portal
}

// DefaultFactory uses the build platform's manager and a real HTTP client
func DefaultFactory() Factory {
	return Factory{
		Network: func(cfg *config.Config) machine.NetworkManager {
			return platform.New(cfg.ReachabilityAddr)
		},
		Portal: func(cfg *config.Config) machine.Portal {
			return portal.NewClient(cfg.ProbeURL, cfg.ProbeTimeout())
		},
	}
}

// Status is the daemon snapshot served on /v1/status
type Status struct {
	Status              string               `json:"status"`
	State               domain.MachineState  `json:"state"`
	Username            string               `json:"username"`
	PollIntervalSeconds int                  `json:"poll_interval_seconds"`
	Cycles              int64                `json:"cycles"`
	StartedAt           time.Time            `json:"started_at"`
	LastCycle           *machine.CycleReport `json:"last_cycle,omitempty"`
	Outcomes            map[string]int       `json:"outcomes,omitempty"`
	Version             string               `json:"version"`
}

// Daemon runs cycles on the current machine and swaps it on reload
type Daemon struct {
	factory Factory
	history *sqlite.Repository
	bus     *EventBus
	version string
	started time.Time

	mu      sync.RWMutex
	cfg     *config.Config
	machine *machine.Machine

	cycles atomic.Int64
}

// NewDaemon validates cfg and builds the first machine. history may be nil.
func NewDaemon(cfg *config.Config, factory Factory, history *sqlite.Repository, bus *EventBus, version string) (*Daemon, error) {
	if bus == nil {
		bus = NewEventBus()
	}
	d := &Daemon{
		factory: factory,
		history: history,
		bus:     bus,
		version: version,
		started: time.Now(),
	}

	m, err := d.build(cfg)
	if err != nil {
		return nil, err
	}
	d.cfg = cfg
	d.machine = m

	return d, nil
}

// build creates a machine for cfg
func (d *Daemon) build(cfg *config.Config) (*machine.Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	trust, err := portal.NewHostMatcher(cfg.Portal.AllowedHosts)
	if err != nil {
		return nil, err
	}
	classifier, err := portal.NewClassifier(cfg.Portal.Markers)
	if err != nil {
		return nil, err
	}

	mcfg := machine.Config{
		Profile:             cfg.DomainProfile(),
		ProbeTimeoutSeconds: cfg.ProbeTimeoutSeconds,
		Extractor:           portal.NewFormExtractor(cfg.Portal.TokenFields...),
		Classifier:          classifier,
		Trust:               trust,
		Publisher:           d.bus,
	}
	if d.history != nil {
		mcfg.Recorder = d.history
	}

	return machine.New(d.factory.Network(cfg), d.factory.Portal(cfg), mcfg), nil
}

// Bus returns the daemon's event bus
func (d *Daemon) Bus() *EventBus {
	return d.bus
}

// Config returns the active config
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

func (d *Daemon) current() *machine.Machine {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.machine
}

// RunCycle runs one cycle on the current machine
func (d *Daemon) RunCycle(ctx context.Context) machine.CycleReport {
	report := d.current().RunCycle(ctx)
	d.cycles.Add(1)
	return report
}

// Reload replaces the machine with one built from cfg. An invalid cfg
// leaves the running machine untouched.
func (d *Daemon) Reload(cfg *config.Config) error {
	m, err := d.build(cfg)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.cfg = cfg
	d.machine = m
	d.mu.Unlock()

	log.WithField("profile", cfg.DomainProfile()).Info("Config reloaded")
	d.bus.Publish(Event{Type: EventConfigReloaded, Payload: map[string]string{"username": cfg.Profile.Username}})
	return nil
}

// Status returns a snapshot of the daemon
func (d *Daemon) Status(ctx context.Context) Status {
	d.mu.RLock()
	cfg, m := d.cfg, d.machine
	d.mu.RUnlock()

	st := Status{
		Status:              "running",
		State:               m.State(),
		Username:            cfg.Profile.Username,
		PollIntervalSeconds: cfg.PollIntervalSeconds,
		Cycles:              d.cycles.Load(),
		StartedAt:           d.started,
		Version:             d.version,
	}
	if last, ok := m.LastCycle(); ok {
		st.LastCycle = &last
	}

	if d.history != nil {
		counts, err := d.history.CountByOutcome(ctx)
		if err != nil {
			log.WithField("err", err).Warn("Failed to count login history")
		} else {
			st.Outcomes = make(map[string]int, len(counts))
			for outcome, n := range counts {
				st.Outcomes[outcome.String()] = n
			}
		}
	}

	return st
}

// History returns up to limit recent attempts
func (d *Daemon) History(ctx context.Context, limit int) ([]domain.Attempt, error) {
	if d.history == nil {
		return nil, ErrHistoryDisabled
	}
	return d.history.RecentAttempts(ctx, limit)
}
