package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes the store from an archive source in the background.
type Poller struct {
	Store    *state.Store
	Source   archive.Source
	Interval time.Duration
	Clock    clockwork.Clock
	Logger   *slog.Logger
}

// Start launches the refresh loop and returns immediately. The returned
// channel closes when the loop exits after ctx is cancelled. Failed
// refreshes back off exponentially up to maxBackoff.
func (p Poller) Start(ctx context.Context) <-chan struct{} {
	if p.Interval <= 0 {
		p.Interval = defaultPollInterval
	}
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_ = refresh(ctx, p.Store, p.Source, p.Logger)
			wait := calculateBackoff(p.Store.Snapshot().ConsecutiveFailures, p.Interval)
			select {
			case <-ctx.Done():
				return
			case <-p.Clock.After(wait):
			}
		}
	}()
	return done
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, source archive.Source, logger *slog.Logger) error {
	entries, err := source.FetchEntries(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		store.Update(nil, err)
		logger.Warn("archive refresh failed", "error", err)
		return err
	}
	store.Update(entries, nil)
	logger.Debug("archive refreshed", "entries", len(entries))
	return nil
}
