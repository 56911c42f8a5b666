package dispatch

import (
	"context"
	"fmt"

	"github.com/yourusername/wsmon/internal/layout"
	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

// Action is a workspace command bound to a local key
type Action string

const (
	ActionSwitch     Action = "switch"
	ActionMove       Action = "move"
	ActionMoveFollow Action = "move-follow"
)

// Registry reports live outputs
type Registry interface {
	Outputs(ctx context.Context) ([]models.Output, error)
	FocusedOutput(ctx context.Context) (*models.Output, error)
}

// Controller issues workspace commands
type Controller interface {
	FocusWorkspace(ctx context.Context, n int) error
	MoveToWorkspace(ctx context.Context, n int, follow bool) error
	AssignWorkspaces(ctx context.Context, assignments []layout.Assignment) error
	Reload(ctx context.Context) error
}

// Backend is everything the dispatcher needs from the window manager
type Backend interface {
	Registry
	Controller
}

// OrderSource yields the persisted monitor ordering
type OrderSource interface {
	ReadOrder() ([]string, error)
}

// Snapshot is the per-invocation view of outputs and their order
type Snapshot struct {
	Outputs      []models.Output `json:"outputs"`
	Order        []string        `json:"order"`
	Merged       []string        `json:"merged"`
	Focused      string          `json:"focused"`
	FocusedIndex int             `json:"focusedIndex"`
}

// Configured reports which merged outputs came from the ordering file
func (s *Snapshot) Configured() map[string]bool {
	configured := make(map[string]bool, len(s.Order))
	for _, name := range s.Order {
		configured[name] = true
	}
	return configured
}

// Dispatcher resolves local keys to global workspaces and drives sway
type Dispatcher struct {
	backend Backend
	order   OrderSource
}

// New creates a dispatcher
func New(backend Backend, order OrderSource) *Dispatcher {
	return &Dispatcher{backend: backend, order: order}
}

// Resolve queries outputs and the ordering file and computes the merged
// order. Nothing is cached between calls.
func (d *Dispatcher) Resolve(ctx context.Context) (*Snapshot, error) {
	outputs, err := d.backend.Outputs(ctx)
	if err != nil {
		return nil, err
	}

	order, err := d.order.ReadOrder()
	if err != nil {
		return nil, err
	}

	focused, err := d.backend.FocusedOutput(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Outputs: outputs,
		Order:   order,
		Merged:  layout.MergeOrder(models.OutputNames(outputs), order),
	}
	if focused != nil {
		snap.Focused = focused.Name
	}
	snap.FocusedIndex = layout.MonitorIndex(snap.Focused, snap.Merged)

	logging.Debug().
		Strs("merged", snap.Merged).
		Str("focused", snap.Focused).
		Int("index", snap.FocusedIndex).
		Msg("resolved monitor order")

	return snap, nil
}

// Run validates keyArg, then performs action on the computed workspace.
// Exactly one IPC command is sent on success; none on validation failure.
func (d *Dispatcher) Run(ctx context.Context, action Action, keyArg string) (int, error) {
	key, err := layout.ParseLocalKey(keyArg)
	if err != nil {
		return 0, err
	}

	switch action {
	case ActionSwitch, ActionMove, ActionMoveFollow:
	default:
		return 0, fmt.Errorf("%w: unknown action %q", models.ErrInvalidArgument, action)
	}

	snap, err := d.Resolve(ctx)
	if err != nil {
		return 0, err
	}

	workspace := layout.ToGlobal(snap.FocusedIndex, key)
	logging.Info().
		Str("action", string(action)).
		Int("key", key).
		Int("index", snap.FocusedIndex).
		Int("workspace", workspace).
		Msg("dispatching")

	switch action {
	case ActionSwitch:
		err = d.backend.FocusWorkspace(ctx, workspace)
	case ActionMove:
		err = d.backend.MoveToWorkspace(ctx, workspace, false)
	case ActionMoveFollow:
		err = d.backend.MoveToWorkspace(ctx, workspace, true)
	}
	if err != nil {
		return 0, err
	}
	return workspace, nil
}

// List returns the current snapshot and its workspace ranges. Read-only.
func (d *Dispatcher) List(ctx context.Context) (*Snapshot, []layout.Assignment, error) {
	snap, err := d.Resolve(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap, layout.Assign(snap.Merged), nil
}

// Remap pins every monitor's workspace block to its output in one command
func (d *Dispatcher) Remap(ctx context.Context) ([]layout.Assignment, error) {
	snap, err := d.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	assignments := layout.Assign(snap.Merged)
	if err := d.backend.AssignWorkspaces(ctx, assignments); err != nil {
		return nil, err
	}

	logging.Info().Strs("merged", snap.Merged).Msg("remapped workspaces")
	return assignments, nil
}
