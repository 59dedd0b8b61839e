package app

import (
	"context"

	"log/slog"

	"loom/internal/core/watcher"
	"loom/internal/shared/observability"
	"loom/internal/shared/util"
)

// StartWatch runs generation on every debounced change batch until the
// context is canceled. The limiter caps regeneration frequency under
// heavy churn; a skipped batch is retried by the next event.
func (s *Service) StartWatch(ctx context.Context, onRun func(RunSummary)) (*watcher.Watcher, error) {
	limiter := util.NewLimiter(s.cfg.Watch.Rate, s.cfg.Watch.Burst)

	w, err := watcher.NewWatcher(
		s.cfg.Watch.Debounce.Duration,
		s.cfg.Exclude.Dirs,
		s.cfg.Exclude.Files,
		func(paths []string) {
			if ctx.Err() != nil {
				return
			}
			if !limiter.Allow(1) {
				observability.RegenerationsSkippedTotal.Inc()
				slog.Debug("regeneration rate limited", "pending", len(paths))
				return
			}
			slog.Info("change detected", "files", len(paths))
			summary := s.Run(ctx)
			if onRun != nil {
				onRun(summary)
			}
		},
	)
	if err != nil {
		return nil, err
	}

	if err := w.Watch(s.cfg.ScanPaths); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
