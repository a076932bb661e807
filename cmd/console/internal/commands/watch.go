package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfeidau/adminconsole/internal/session"
)

type WatchCmd struct {
	For time.Duration `help:"Stop watching after this long (0 watches until interrupted)" default:"0s"`
}

func (w *WatchCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	sess := c.store.Snapshot()
	if !sess.Authorized() {
		return ErrNotLoggedIn
	}

	if w.For > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.For)
		defer cancel()
	}

	expired := make(chan struct{})
	unsubscribe := c.store.Subscribe(func(e session.Event) {
		if e.Reason == session.ReasonExpired {
			close(expired)
		}
	})
	defer unsubscribe()

	fmt.Fprintf(globals.out(), "Watching session for %s, expires at %s\n",
		sess.Principal.Email, sess.TokenExpiresAt.Local().Format("15:04:05"))

	stop := c.store.StartWatchdog(ctx)
	defer stop()

	select {
	case <-expired:
		fmt.Fprintln(globals.out(), "Session expired")
	case <-ctx.Done():
		fmt.Fprintln(globals.out(), "Stopped watching")
	}
	return nil
}
