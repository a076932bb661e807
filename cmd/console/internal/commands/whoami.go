package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/wolfeidau/adminconsole/internal/auth"
)

var ErrNotLoggedIn = errors.New("not logged in")

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	sess := c.store.Snapshot()
	if !sess.Authorized() {
		return ErrNotLoggedIn
	}

	tw := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", sess.Principal.DisplayName)
	fmt.Fprintf(tw, "Email:\t%s\n", sess.Principal.Email)
	fmt.Fprintf(tw, "Principal:\t%s\n", sess.Principal.ID)
	fmt.Fprintf(tw, "Tenant:\t%s\n", sess.Principal.TenantID)
	fmt.Fprintf(tw, "Organization:\t%s\n", sess.Principal.OrganizationID)
	fmt.Fprintf(tw, "Role:\t%s\n", auth.RoleDisplayName(sess))
	fmt.Fprintf(tw, "Permissions:\t%s\n", strings.Join(sess.Permissions.List(), ", "))
	fmt.Fprintf(tw, "Token:\t%s\n", auth.Fingerprint(sess.Token))
	fmt.Fprintf(tw, "Expires:\t%s\n", sess.TokenExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return tw.Flush()
}

type CanCmd struct {
	Capability []string `arg:"" help:"Capabilities to check, e.g. user.read"`
}

func (cmd *CanCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := globals.open(ctx)
	if err != nil {
		return err
	}

	e := auth.NewEvaluator(c.store)

	denied := 0
	for _, capability := range cmd.Capability {
		answer := "yes"
		if !e.HasPermission(capability) {
			answer = "no"
			denied++
		}
		fmt.Fprintf(globals.out(), "%s: %s\n", capability, answer)
	}

	if denied > 0 {
		return fmt.Errorf("%d of %d capabilities not held", denied, len(cmd.Capability))
	}
	return nil
}
