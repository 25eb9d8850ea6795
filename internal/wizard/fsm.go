package wizard

import (
	"errors"
	"fmt"

	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"golang.org/x/exp/slices"
)

var (
	ErrLastState     = errors.New("already at the last step")
	ErrUnknownState  = errors.New("unknown state")
	ErrInvalidState  = errors.New("operation is not allowed in the current state")
	ErrInFlight      = errors.New("submission already in progress")
	ErrNotConnected  = errors.New("wallet is not connected")
	ErrAlreadyClosed = errors.New("wizard is already submitted")
)

type State string

// Guard is checked before leaving the state it is registered for
type Guard func() error

// Machine is a linear step machine. Next is guarded, Prev never leaves the first state
type Machine struct {
	steps   []State
	guards  map[State]Guard
	current int
}

func NewMachine(steps []State, guards map[State]Guard) *Machine {
	if guards == nil {
		guards = map[State]Guard{}
	}
	return &Machine{steps: steps, guards: guards}
}

func (m *Machine) State() State {
	return m.steps[m.current]
}

// Step is the 1-based position of the current state
func (m *Machine) Step() int {
	return m.current + 1
}

func (m *Machine) Steps() []State {
	return append([]State(nil), m.steps...)
}

func (m *Machine) Is(s State) bool {
	return m.State() == s
}

// Check runs the guard of the current state without moving
func (m *Machine) Check() error {
	guard, ok := m.guards[m.State()]
	if !ok {
		return nil
	}
	if err := guard(); err != nil {
		return lib.NewKindError(lib.KindInvalidInput, string(m.State()), err)
	}
	return nil
}

func (m *Machine) Next() error {
	if m.current == len(m.steps)-1 {
		return ErrLastState
	}
	if err := m.Check(); err != nil {
		return err
	}
	m.current++
	return nil
}

func (m *Machine) Prev() {
	if m.current > 0 {
		m.current--
	}
}

// MoveTo jumps to s without running guards
func (m *Machine) MoveTo(s State) error {
	i := slices.Index(m.steps, s)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownState, s)
	}
	m.current = i
	return nil
}

func invalidState(op string, s State) error {
	return lib.NewKindError(lib.KindInvalidInput, op, fmt.Errorf("%w: %s", ErrInvalidState, s))
}
