package intercept

import "github.com/dixieflatline76/Recrop/util"

// State is the guard's interception state.
type State int

const (
	// Normal intercepts every change event.
	Normal State = iota
	// Armed lets exactly the next change event through.
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "normal"
}

// stateMachine holds the guard state. arm is called only right before the guard's own
// synthetic dispatch; consume is called once per observed change event.
type stateMachine struct {
	armed util.SafeFlag
}

func (m *stateMachine) arm() {
	m.armed.Set(true)
}

// consume moves Armed to Normal and reports whether the machine was armed.
func (m *stateMachine) consume() bool {
	return m.armed.Consume()
}

func (m *stateMachine) state() State {
	if m.armed.Value() {
		return Armed
	}
	return Normal
}
