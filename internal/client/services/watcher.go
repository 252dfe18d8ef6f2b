package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// Pinger probes server reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusWatcher pings the server on an interval and calls onChange on every
// online/offline transition. The first probe sets the baseline and is
// reported too. onChange runs on the watcher goroutine, so a slow handler
// delays the next probe rather than overlapping with it.
type StatusWatcher struct {
	pinger   Pinger
	interval time.Duration
	onChange func(ctx context.Context, online bool)
	logger   logging.Logger

	known  bool
	online atomic.Bool
}

func NewStatusWatcher(p Pinger, interval time.Duration, l logging.Logger, onChange func(ctx context.Context, online bool)) *StatusWatcher {
	return &StatusWatcher{
		pinger:   p,
		interval: interval,
		onChange: onChange,
		logger:   l.With("module", "status_watcher"),
	}
}

// Online reports the last observed status. It is safe to call from any
// goroutine.
func (w *StatusWatcher) Online() bool {
	return w.online.Load()
}

// Run probes immediately, then every interval, until ctx is done.
func (w *StatusWatcher) Run(ctx context.Context) {
	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *StatusWatcher) probe(ctx context.Context) {
	err := w.pinger.Ping(ctx)
	if ctx.Err() != nil {
		return
	}
	online := err == nil

	if w.known && online == w.online.Load() {
		return
	}
	w.known = true
	w.online.Store(online)

	w.logger.Info(ctx, "connectivity changed", "online", online)
	if w.onChange != nil {
		w.onChange(ctx, online)
	}
}
