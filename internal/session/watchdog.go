package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Watchdog periodically asks the store to expire a session whose token has
// passed its expiry. It is advisory: it only clears local state.
type Watchdog struct {
	store    *Store
	interval time.Duration
}

// NewWatchdog creates a watchdog over store. A non-positive interval uses
// the store's configured watch interval.
func NewWatchdog(store *Store, interval time.Duration) *Watchdog {
	if interval <= 0 {
		interval = store.cfg.WatchInterval
	}
	return &Watchdog{store: store, interval: interval}
}

// Check runs a single expiry check. Returns true if the session was expired.
func (w *Watchdog) Check(ctx context.Context) bool {
	return w.store.Expire(ctx)
}

// Start checks immediately and then on every interval until ctx is cancelled
// or stop is called. stop may be called more than once and returns after the
// background goroutine has exited.
func (w *Watchdog) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		log.Debug().Dur("interval", w.interval).Msg("session watchdog started")
		defer log.Debug().Msg("session watchdog stopped")

		w.Check(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Check(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
		<-done
	}
}
