package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

// OutputWatcher signals when sway reports an output change
type OutputWatcher interface {
	WatchOutputs(ctx context.Context, changed chan<- struct{}) error
}

// Watch remaps once, then again on every output event or ordering file
// change, until ctx is cancelled. Triggers arriving during a remap are
// coalesced into one follow-up remap.
func (d *Dispatcher) Watch(ctx context.Context, watcher OutputWatcher, orderPath string) error {
	changed := make(chan struct{}, 1)
	changed <- struct{}{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.WatchOutputs(gctx, changed)
	})

	g.Go(func() error {
		return watchOrderFile(gctx, orderPath, changed)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changed:
				if _, err := d.Remap(gctx); err != nil {
					if errors.Is(err, models.ErrBackendUnavailable) {
						return err
					}
					if gctx.Err() != nil {
						return nil
					}
					logging.Error().Err(err).Msg("remap failed")
				}
			}
		}
	})

	return g.Wait()
}

// watchOrderFile signals on changed whenever orderPath is written, created,
// replaced or removed. The parent directory is watched so atomic renames
// are seen.
func watchOrderFile(ctx context.Context, orderPath string, changed chan<- struct{}) error {
	dir := filepath.Dir(orderPath)
	if _, err := os.Stat(dir); err != nil {
		logging.Warn().Str("dir", dir).Err(err).Msg("ordering directory missing, not watching file")
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	target := filepath.Clean(orderPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug().Str("op", event.Op.String()).Msg("ordering file changed")
			select {
			case changed <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().Err(err).Msg("ordering file watcher error")
		}
	}
}
