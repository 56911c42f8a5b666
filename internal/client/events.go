package client

import (
	"context"
	"fmt"

	"go.i3wm.org/i3/v4"

	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

// eventSource is the subset of *i3.EventReceiver used here
type eventSource interface {
	Next() bool
	Event() i3.Event
	Err() error
	Close() error
}

// WatchOutputs signals on changed for every sway output event until ctx
// is cancelled. Signals are coalesced when the receiver is busy.
func (c *Client) WatchOutputs(ctx context.Context, changed chan<- struct{}) error {
	recv := c.subscribe(i3.OutputEventType)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			recv.Close()
		case <-stop:
		}
	}()

	for recv.Next() {
		if ev, ok := recv.Event().(*i3.OutputEvent); ok {
			logging.Debug().Str("change", ev.Change).Msg("output event")
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := recv.Err(); err != nil {
		return fmt.Errorf("%w: subscribe: %v", models.ErrBackendUnavailable, err)
	}
	recv.Close()
	return nil
}
