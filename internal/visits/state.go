// Package visits sequences each individual's appointments and derives
// visit-count and recency analytics from them.
//
// Every stage is a pure function of its inputs. Stage results carry a State
// so that "nothing uploaded" and "nothing left after filtering" stay
// distinguishable all the way to the report.
package visits

// State tells whether a stage had input and, if so, whether any rows remain.
type State int

const (
	StateMissing State = iota
	StateEmpty
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	default:
		return "missing"
	}
}

// MarshalText renders the state as its name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func stateOf(rows int) State {
	if rows == 0 {
		return StateEmpty
	}
	return StateReady
}
