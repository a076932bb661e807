package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/adminconsole/internal/auth"
	"github.com/wolfeidau/adminconsole/internal/session"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password" env:"CONSOLE_PASSWORD" required:""`
	Tenant   string `help:"Require the account to belong to this tenant" default:""`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	sess, err := c.store.Login(ctx, session.Credentials{
		Email:    l.Email,
		Password: l.Password,
		TenantID: l.Tenant,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Logged in as %s (%s)\n", sess.Principal.DisplayName, auth.RoleDisplayName(sess))
	fmt.Fprintf(globals.out(), "Session expires at %s\n", sess.TokenExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	c.store.Logout(ctx)

	fmt.Fprintln(globals.out(), "Logged out")
	return nil
}
