package machine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"portalkombat/internal/domain"
	"portalkombat/internal/portal"
)

// Event types published by the machine
const (
	EventStateChanged   = "state_changed"
	EventCycleCompleted = "cycle_completed"
	EventLoginAttempted = "login_attempted"
)

// NetworkManager is the platform capability the machine consumes
type NetworkManager interface {
	AdapterOn() (bool, error)
	InternetReachable(timeoutSeconds int) bool
}

// Portal is the HTTP side of detection and login
type Portal interface {
	ProbeURL() string
	Probe(ctx context.Context) (portal.ProbeResult, error)
	FetchLoginPage(ctx context.Context, portalURL string) (string, error)
	Submit(ctx context.Context, portalHost string, fields domain.Fields) (bool, string, error)
}

// AttemptRecorder persists login attempts
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt domain.Attempt) error
}

// EventPublisher receives machine events
type EventPublisher interface {
	PublishEvent(eventType string, payload any)
}

// Config holds the collaborators and settings of a Machine
type Config struct {
	Profile             domain.Profile
	ProbeTimeoutSeconds int
	Extractor           *portal.FormExtractor
	Classifier          *portal.Classifier
	Trust               *portal.HostMatcher
	Recorder            AttemptRecorder // optional
	Publisher           EventPublisher  // optional
}

// Step is one applied transition
type Step struct {
	From domain.MachineState `json:"from"`
	To   domain.MachineState `json:"to"`
}

// CycleReport summarises a completed cycle
type CycleReport struct {
	Started   time.Time           `json:"started"`
	Duration  time.Duration       `json:"duration_ns"`
	Steps     []Step              `json:"steps"`
	PortalURL string              `json:"portal_url,omitempty"`
	Attempted bool                `json:"attempted"`
	Outcome   domain.LoginOutcome `json:"outcome"`
	Detail    string              `json:"detail,omitempty"`
}

// Final returns the state the cycle ended in
func (r CycleReport) Final() domain.MachineState {
	if len(r.Steps) == 0 {
		return domain.StateIdle
	}
	return r.Steps[len(r.Steps)-1].To
}

// Machine runs detection-and-login cycles
type Machine struct {
	nm     NetworkManager
	portal Portal
	cfg    Config

	cycleMu sync.Mutex // one cycle in flight
	state   atomic.Int32
	last    atomic.Pointer[CycleReport]
}

// New creates a machine in Idle. Nil extractor and classifier are replaced
// with the defaults.
func New(nm NetworkManager, p Portal, cfg Config) *Machine {
	if cfg.Extractor == nil {
		cfg.Extractor = portal.NewFormExtractor(portal.DefaultTokenFields...)
	}
	if cfg.Classifier == nil {
		cfg.Classifier = portal.MustClassifier(portal.DefaultMarkers())
	}
	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = int(portal.DefaultTimeout / time.Second)
	}
	m := &Machine{nm: nm, portal: p, cfg: cfg}
	m.state.Store(int32(domain.StateIdle))
	return m
}

// State returns the last-known state. Safe for concurrent use; the value
// may be superseded by a running cycle.
func (m *Machine) State() domain.MachineState {
	return domain.MachineState(m.state.Load())
}

// LastCycle returns the report of the most recent completed cycle
func (m *Machine) LastCycle() (CycleReport, bool) {
	r := m.last.Load()
	if r == nil {
		return CycleReport{}, false
	}
	return *r, true
}

// Profile returns the machine's credentials
func (m *Machine) Profile() domain.Profile {
	return m.cfg.Profile
}

// RunCycle resets to Idle and dispatches until Idle is reached again
func (m *Machine) RunCycle(ctx context.Context) CycleReport {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	report := CycleReport{Started: time.Now()}
	session := domain.NewPortalSession(m.portal.ProbeURL())

	state := domain.StateIdle
	m.setState(state)

	for i := 0; i < maxTransitions; i++ {
		obs := m.observe(ctx, state, session, &report)
		next := Transition(state, obs)

		report.Steps = append(report.Steps, Step{From: state, To: next})
		log.WithFields(log.Fields{"state": state, "next": next}).Debug("Transition")
		m.setState(next)

		state = next
		if state == domain.StateIdle {
			break
		}
	}
	if state != domain.StateIdle {
		// Unreachable under Transition; keep the cycle contract regardless
		log.WithField("state", state).Error("Cycle did not return to Idle, forcing reset")
		m.setState(domain.StateIdle)
	}

	report.PortalURL = session.PortalURL
	report.Duration = time.Since(report.Started)
	m.last.Store(&report)
	m.publish(EventCycleCompleted, report)

	return report
}

// observe gathers the facts Transition needs for state
func (m *Machine) observe(ctx context.Context, state domain.MachineState, session *domain.PortalSession, report *CycleReport) Observation {
	var obs Observation

	switch state {
	case domain.StateIdle:
		obs.AdapterOn, obs.AdapterErr = m.nm.AdapterOn()
		if obs.AdapterErr != nil {
			log.WithField("err", obs.AdapterErr).Warn("Adapter query failed, treating adapter as off")
		}

	case domain.StateAdapterOn:
		if m.nm.InternetReachable(m.cfg.ProbeTimeoutSeconds) {
			obs.InternetReachable = true
			return obs
		}
		result, err := m.portal.Probe(ctx)
		if err != nil {
			log.WithField("err", err).Info("Probe failed, no portal detected this cycle")
			return obs
		}
		if result.Captive && result.PortalURL != "" {
			obs.Captive = true
			session.PortalURL = result.PortalURL
			log.WithField("portal", result.PortalURL).Info("Captive portal detected")
		}

	case domain.StateOnLoginPage:
		outcome, detail := m.login(ctx, session)
		obs.Outcome = outcome
		report.Attempted = true
		report.Outcome = outcome
		report.Detail = detail
	}

	return obs
}

// login scrapes the portal page, submits the profile and classifies the
// response. Every failure resolves to OutcomeUnknown with a detail.
func (m *Machine) login(ctx context.Context, session *domain.PortalSession) (domain.LoginOutcome, string) {
	logger := log.WithField("portal", session.PortalURL)

	host, err := portal.Origin(session.PortalURL)
	if err != nil {
		logger.WithField("err", err).Warn("Invalid portal URL")
		return domain.OutcomeUnknown, err.Error()
	}

	if !m.cfg.Trust.Allowed(session.PortalURL) {
		logger.Warn("Portal host not in allowed_hosts, not submitting credentials")
		return m.finish(ctx, session, host, domain.OutcomeUnknown, "portal host not allowed")
	}

	page, err := m.portal.FetchLoginPage(ctx, session.PortalURL)
	if err != nil {
		logger.WithField("err", err).Warn("Failed to fetch login page")
		return m.finish(ctx, session, host, domain.OutcomeUnknown, err.Error())
	}

	scraped, err := m.cfg.Extractor.Extract(page)
	if err != nil {
		logger.WithField("err", err).Warn("Login page has no usable form")
		return m.finish(ctx, session, host, domain.OutcomeUnknown, err.Error())
	}
	session.PrepareSubmission(scraped, m.cfg.Profile)

	target, err := portal.SubmitTarget(host, session.SubmissionFields)
	if err != nil {
		logger.WithField("err", err).Warn("Invalid form action")
		return m.finish(ctx, session, host, domain.OutcomeUnknown, err.Error())
	}
	if !m.cfg.Trust.Allowed(target) {
		logger.WithField("action", target).Warn("Form action host not in allowed_hosts, not submitting credentials")
		return m.finish(ctx, session, host, domain.OutcomeUnknown, "form action host not allowed")
	}

	ok, body, err := m.portal.Submit(ctx, host, session.SubmissionFields)
	if err != nil {
		logger.WithField("err", err).Warn("Login submission failed")
		return m.finish(ctx, session, host, domain.OutcomeUnknown, err.Error())
	}
	if !ok {
		return m.finish(ctx, session, host, domain.OutcomeUnknown, "submission rejected")
	}

	outcome := m.cfg.Classifier.Classify(body)
	return m.finish(ctx, session, host, outcome, "")
}

// finish logs, records and publishes an attempt. A login interrupted by
// ctx cancellation is not an attempt and is only logged.
func (m *Machine) finish(ctx context.Context, session *domain.PortalSession, host string, outcome domain.LoginOutcome, detail string) (domain.LoginOutcome, string) {
	if ctx.Err() != nil {
		log.WithFields(log.Fields{"portal": session.PortalURL, "err": ctx.Err()}).Info("Login interrupted, not recording attempt")
		return outcome, detail
	}

	fields := log.Fields{"portal": session.PortalURL, "outcome": outcome}
	switch outcome {
	case domain.OutcomeSuccess:
		log.WithFields(fields).Info("Logged in to captive portal")
	case domain.OutcomeWrongCredentials, domain.OutcomeMaxConcurrentSessions:
		log.WithFields(fields).Warn("Captive portal login refused")
	default:
		log.WithFields(fields).WithField("detail", detail).Info("Captive portal login outcome unknown")
	}

	attempt := domain.NewAttempt(session.PortalURL, host, outcome, detail)
	if m.cfg.Recorder != nil {
		if err := m.cfg.Recorder.RecordAttempt(ctx, attempt); err != nil {
			log.WithField("err", err).Warn("Failed to record login attempt")
		}
	}
	m.publish(EventLoginAttempted, attempt)

	return outcome, detail
}

func (m *Machine) setState(next domain.MachineState) {
	prev := domain.MachineState(m.state.Swap(int32(next)))
	if prev != next {
		m.publish(EventStateChanged, Step{From: prev, To: next})
	}
}

func (m *Machine) publish(eventType string, payload any) {
	if m.cfg.Publisher != nil {
		m.cfg.Publisher.PublishEvent(eventType, payload)
	}
}
