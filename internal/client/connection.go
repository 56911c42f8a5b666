package client

import (
	"fmt"
	"os"

	"go.i3wm.org/i3/v4"

	"github.com/yourusername/wsmon/internal/models"
)

// Socket environment variables, sway first
var socketEnvVars = []string{"SWAYSOCK", "I3SOCK"}

// ResolveSocketPath picks the IPC socket. Priority:
// 1) explicit path (flag or config)
// 2) $SWAYSOCK
// 3) $I3SOCK
func ResolveSocketPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, env := range socketEnvVars {
		if path := os.Getenv(env); path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no IPC socket (set SWAYSOCK or --socket)", models.ErrBackendUnavailable)
}

// Connect points the i3 IPC library at socketPath.
// The library dials lazily on each request; this only checks the socket exists.
func Connect(socketPath string) error {
	info, err := os.Stat(socketPath)
	if err != nil {
		return fmt.Errorf("%w: socket %s: %v", models.ErrBackendUnavailable, socketPath, err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%w: %s is not a socket", models.ErrBackendUnavailable, socketPath)
	}

	i3.SocketPathHook = func() (string, error) {
		return socketPath, nil
	}
	// The default probe looks for an i3 process; sway never matches it
	i3.IsRunningHook = func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}
	return nil
}
