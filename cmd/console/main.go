package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/adminconsole/cmd/console/internal/commands"
	"github.com/wolfeidau/adminconsole/internal/logger"
	"github.com/wolfeidau/adminconsole/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Login   commands.LoginCmd   `cmd:"" help:"Log in and start a session"`
		Logout  commands.LogoutCmd  `cmd:"" help:"End the current session"`
		Whoami  commands.WhoamiCmd  `cmd:"" help:"Show the current session"`
		Can     commands.CanCmd     `cmd:"" help:"Check whether the session holds a capability"`
		Open    commands.OpenCmd    `cmd:"" help:"Show the route guard decision for a screen"`
		Nav     commands.NavCmd     `cmd:"" help:"Show the navigation menu for the session"`
		Profile commands.ProfileCmd `cmd:"" help:"Update the session profile"`
		Watch   commands.WatchCmd   `cmd:"" help:"Watch the session and expire it when the token lapses"`

		SessionTTL    time.Duration `help:"Session token lifetime" default:"1h" env:"CONSOLE_SESSION_TTL"`
		WatchInterval time.Duration `help:"Token expiry check interval" default:"30s" env:"CONSOLE_WATCH_INTERVAL"`
		SigningKey    string        `help:"HMAC key used to sign session tokens (at least 32 bytes)" env:"CONSOLE_SIGNING_KEY" required:""`
		StateDir      string        `help:"Directory holding the durable session (default ~/.adminconsole/session)" env:"CONSOLE_STATE_DIR"`
		Catalog       string        `help:"YAML file overriding the role catalog" env:"CONSOLE_CATALOG" type:"existingfile"`
		Tracing       bool          `help:"Export traces and metrics over OTLP"`
		Debug         bool          `help:"Enable debug mode."`
		Version       kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Setup(cli.Debug)

	if cli.Tracing {
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Config{ServiceName: "adminconsole", Version: version})
		cmd.FatalIfErrorf(err)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	err := cmd.Run(&commands.Globals{
		Debug:         cli.Debug,
		Version:       version,
		SessionTTL:    cli.SessionTTL,
		WatchInterval: cli.WatchInterval,
		SigningKey:    cli.SigningKey,
		StateDir:      cli.StateDir,
		CatalogPath:   cli.Catalog,
	})
	cmd.FatalIfErrorf(err)
}
