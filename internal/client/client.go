package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.i3wm.org/i3/v4"

	"github.com/yourusername/wsmon/internal/layout"
	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

// Client talks to sway over the i3-compatible IPC socket.
// Nothing is cached; every call is a fresh round trip.
type Client struct {
	getOutputs    func() ([]i3.Output, error)
	getWorkspaces func() ([]i3.Workspace, error)
	runCommand    func(string) ([]i3.CommandResult, error)
	subscribe     func(...i3.EventType) eventSource
}

// NewClient resolves the socket and returns a client bound to it
func NewClient(socketPath string) (*Client, error) {
	path, err := ResolveSocketPath(socketPath)
	if err != nil {
		return nil, err
	}
	if err := Connect(path); err != nil {
		return nil, err
	}

	logging.Debug().Str("socket", path).Msg("using sway IPC socket")

	return &Client{
		getOutputs:    i3.GetOutputs,
		getWorkspaces: i3.GetWorkspaces,
		runCommand:    i3.RunCommand,
		subscribe: func(types ...i3.EventType) eventSource {
			return i3.Subscribe(types...)
		},
	}, nil
}

// Outputs returns the active outputs sorted by name, with the focused
// one flagged from the focused workspace.
func (c *Client) Outputs(ctx context.Context) ([]models.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := c.getOutputs()
	if err != nil {
		return nil, fmt.Errorf("%w: get_outputs: %v", models.ErrBackendUnavailable, err)
	}
	workspaces, err := c.getWorkspaces()
	if err != nil {
		return nil, fmt.Errorf("%w: get_workspaces: %v", models.ErrBackendUnavailable, err)
	}

	focused := ""
	for _, ws := range workspaces {
		if ws.Focused {
			focused = ws.Output
			break
		}
	}

	outputs := make([]models.Output, 0, len(raw))
	for _, o := range raw {
		// i3 reports a pseudo output for the scratchpad
		if !o.Active || o.Name == "" || strings.HasPrefix(o.Name, "__") {
			continue
		}
		outputs = append(outputs, models.Output{
			Name:    o.Name,
			Active:  true,
			Focused: o.Name == focused,
			X:       o.Rect.X,
			Y:       o.Rect.Y,
			Width:   o.Rect.Width,
			Height:  o.Rect.Height,
		})
	}

	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].Name < outputs[j].Name
	})

	logging.Debug().Strs("outputs", models.OutputNames(outputs)).Str("focused", focused).Msg("queried outputs")
	return outputs, nil
}

// FocusedOutput returns the output holding the focused workspace, or nil
func (c *Client) FocusedOutput(ctx context.Context) (*models.Output, error) {
	outputs, err := c.Outputs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range outputs {
		if outputs[i].Focused {
			return &outputs[i], nil
		}
	}
	return nil, nil
}

// FocusWorkspace switches to workspace n
func (c *Client) FocusWorkspace(ctx context.Context, n int) error {
	return c.run(ctx, FocusCommand(n))
}

// MoveToWorkspace moves the focused container to workspace n,
// optionally following it.
func (c *Client) MoveToWorkspace(ctx context.Context, n int, follow bool) error {
	if follow {
		return c.run(ctx, MoveFollowCommand(n))
	}
	return c.run(ctx, MoveCommand(n))
}

// AssignWorkspaces pins each monitor's workspace block to its output
func (c *Client) AssignWorkspaces(ctx context.Context, assignments []layout.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return c.run(ctx, AssignCommand(assignments))
}

// Reload asks sway to re-read its configuration
func (c *Client) Reload(ctx context.Context) error {
	return c.run(ctx, ReloadCommand())
}

// run sends one composite command and checks every reply
func (c *Client) run(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logging.Info().Str("command", command).Msg("sending sway command")

	results, err := c.runCommand(command)
	for _, r := range results {
		if !r.Success {
			logging.Error().Str("command", command).Str("reason", r.Error).Msg("sway rejected command")
			return fmt.Errorf("%w: %q: %s", models.ErrCommandRejected, command, r.Error)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: run_command: %v", models.ErrBackendUnavailable, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: empty reply to %q", models.ErrBackendUnavailable, command)
	}
	return nil
}

// IsBackendError reports whether err came from talking to sway
func IsBackendError(err error) bool {
	return errors.Is(err, models.ErrBackendUnavailable) || errors.Is(err, models.ErrCommandRejected)
}
