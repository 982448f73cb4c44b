package machine

import (
	"errors"
	"testing"

	"portalkombat/internal/domain"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name  string
		state domain.MachineState
		obs   Observation
		want  domain.MachineState
	}{
		{"idle adapter off", domain.StateIdle, Observation{}, domain.StateIdle},
		{"idle adapter on", domain.StateIdle, Observation{AdapterOn: true}, domain.StateAdapterOn},
		{"idle adapter error", domain.StateIdle, Observation{AdapterOn: true, AdapterErr: errors.New("x")}, domain.StateIdle},
		{"adapter reachable", domain.StateAdapterOn, Observation{InternetReachable: true, Captive: true}, domain.StateIdle},
		{"adapter captive", domain.StateAdapterOn, Observation{Captive: true}, domain.StateOnLoginPage},
		{"adapter not captive", domain.StateAdapterOn, Observation{}, domain.StateIdle},
		{"unknown state", domain.MachineState(99), Observation{AdapterOn: true}, domain.StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transition(tt.state, tt.obs); got != tt.want {
				t.Errorf("Transition(%v, %+v) = %v, want %v", tt.state, tt.obs, got, tt.want)
			}
		})
	}
}

func TestTransition_LoginPageAlwaysIdle(t *testing.T) {
	for _, outcome := range domain.Outcomes() {
		t.Run(outcome.String(), func(t *testing.T) {
			got := Transition(domain.StateOnLoginPage, Observation{Outcome: outcome})
			if got != domain.StateIdle {
				t.Errorf("Transition(OnLoginPage, %v) = %v, want Idle", outcome, got)
			}
		})
	}
}

func TestTransition_TerminatesWithinBound(t *testing.T) {
	// Worst case observations still reach Idle within maxTransitions
	obs := Observation{AdapterOn: true, Captive: true}
	s := domain.StateIdle
	for i := 0; i < maxTransitions; i++ {
		s = Transition(s, obs)
		if s == domain.StateIdle {
			return
		}
	}
	t.Fatalf("state after %d transitions = %v, want Idle", maxTransitions, s)
}
