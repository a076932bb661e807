package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/adminconsole/internal/guard"
	"github.com/wolfeidau/adminconsole/internal/nav"
)

type OpenCmd struct {
	Route string `arg:"" help:"Route name, e.g. users or dashboard"`
}

func (o *OpenCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	route, ok := c.catalog.Route(o.Route)
	if !ok {
		return fmt.Errorf("unknown route: %s", o.Route)
	}

	d := guard.New(c.store, nil).Check(ctx, route)

	switch d.Action {
	case guard.ActionShowLoading:
		fmt.Fprintln(globals.out(), "Loading...")
	case guard.ActionRedirectLogin, guard.ActionRedirectDashboard:
		fmt.Fprintf(globals.out(), "Redirect to %s\n", d.Redirect)
	case guard.ActionRenderDenied:
		fmt.Fprintf(globals.out(), "Access denied to %s (go back)\n", route.Path)
	case guard.ActionRenderChildren:
		fmt.Fprintf(globals.out(), "Rendering %s\n", route.Path)
	}
	return nil
}

type NavCmd struct{}

func (n *NavCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	items := nav.SelectFor(c.catalog, c.store.Snapshot())
	if len(items) == 0 {
		return ErrNotLoggedIn
	}

	for _, item := range items {
		fmt.Fprintf(globals.out(), "%-16s %s\n", item.Label, item.Path)
	}
	return nil
}
