package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/routing"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
)

const (
	StateChoosing      State = "Choosing"
	StateRoleSubmitted State = "Submitted"
)

var ErrRoleNotSelected = errors.New("role not selected")

type RoleSelector interface {
	SelectRole(ctx context.Context, role session.Role) error
}

// Welcome is the role picker shown to sessions without a role
type Welcome struct {
	machine *Machine
	choice  string
	roles   RoleSelector
	mu      sync.Mutex
}

func NewWelcome(roles RoleSelector) *Welcome {
	return &Welcome{
		machine: NewMachine([]State{StateChoosing, StateRoleSubmitted}, nil),
		roles:   roles,
	}
}

func (w *Welcome) Choose(role string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.choice = role
}

// Submit stores the chosen role and returns the profile page for it
func (w *Welcome) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.choice == "" {
		return "", lib.NewKindError(lib.KindInvalidInput, "select role", ErrRoleNotSelected)
	}
	role, err := session.ParseRole(w.choice)
	if err != nil {
		return "", lib.NewKindError(lib.KindInvalidInput, "select role", err)
	}
	if role == session.RoleNone {
		return "", lib.NewKindError(lib.KindInvalidInput, "select role", ErrRoleNotSelected)
	}

	if err := w.roles.SelectRole(ctx, role); err != nil {
		return "", err
	}
	_ = w.machine.MoveTo(StateRoleSubmitted)

	return routing.ProfilePath(role)
}

func (w *Welcome) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.machine.State()
}
