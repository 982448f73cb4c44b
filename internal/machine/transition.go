package machine

import "portalkombat/internal/domain"

// maxTransitions bounds a cycle: Idle -> AdapterOn -> OnLoginPage -> Idle
const maxTransitions = 3

// Observation carries the externally observed facts evaluated in a state.
// Only the fields relevant to the current state are filled in.
type Observation struct {
	// Idle
	AdapterOn  bool
	AdapterErr error

	// AdapterOn
	InternetReachable bool
	Captive           bool

	// OnLoginPage
	Outcome domain.LoginOutcome
}

// Transition returns the state that follows s given o
func Transition(s domain.MachineState, o Observation) domain.MachineState {
	switch s {
	case domain.StateIdle:
		if o.AdapterErr != nil || !o.AdapterOn {
			return domain.StateIdle
		}
		return domain.StateAdapterOn

	case domain.StateAdapterOn:
		if o.InternetReachable {
			return domain.StateIdle
		}
		if o.Captive {
			return domain.StateOnLoginPage
		}
		return domain.StateIdle

	case domain.StateOnLoginPage:
		// Every outcome ends the cycle; a failed login is retried next tick
		return domain.StateIdle

	default:
		return domain.StateIdle
	}
}
