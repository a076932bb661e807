package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/adminconsole/internal/session"
)

type ProfileCmd struct {
	Name  string `help:"New display name" default:""`
	Email string `help:"New email address" default:""`
}

func (p *ProfileCmd) Run(ctx context.Context, globals *Globals) error {
	patch := session.ProfilePatch{}
	if p.Name != "" {
		patch.DisplayName = &p.Name
	}
	if p.Email != "" {
		patch.Email = &p.Email
	}
	if patch.Empty() {
		return errors.New("nothing to update: pass --name or --email")
	}

	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	principal, err := c.store.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Profile updated: %s <%s>\n", principal.DisplayName, principal.Email)
	return nil
}
