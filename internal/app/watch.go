package app

import (
	"context"

	"lodestar/internal/shared/observability"
	"lodestar/internal/watcher"
)

// Watch runs until ctx is done, rebuilding the workspace after each
// debounced batch of source changes. Rebuilds are rate limited; a batch
// arriving over the limit waits for a token rather than being dropped.
func (a *App) Watch(ctx context.Context) error {
	changes := make(chan []string, 8)
	w, err := watcher.New(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			select {
			case changes <- paths:
			case <-ctx.Done():
			}
		})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(a.Config.WatchPaths); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case paths := <-changes:
			if err := a.limiter.Wait(ctx, 1); err != nil {
				return err
			}
			observability.RescansTotal.Inc()
			a.logger.Info("source changed, rescanning", "files", len(paths))
			if err := a.Rebuild(ctx); err != nil {
				a.logger.Error("rescan failed", "error", err)
			}
		}
	}
}
