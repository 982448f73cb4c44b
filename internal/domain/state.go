package domain

import "fmt"

// MachineState is a state of the detection-and-login machine.
// Idle is both the initial and the terminal state of a cycle.
type MachineState int

const (
	StateIdle MachineState = iota
	StateAdapterOn
	StateOnLoginPage
)

// States lists every MachineState value
func States() []MachineState {
	return []MachineState{StateIdle, StateAdapterOn, StateOnLoginPage}
}

func (s MachineState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAdapterOn:
		return "AdapterOn"
	case StateOnLoginPage:
		return "OnLoginPage"
	default:
		return fmt.Sprintf("MachineState(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler
func (s MachineState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *MachineState) UnmarshalText(text []byte) error {
	for _, st := range States() {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown machine state %q", string(text))
}
