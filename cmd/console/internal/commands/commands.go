package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/adminconsole/internal/auth"
	identitymem "github.com/wolfeidau/adminconsole/internal/identity/memory"
	"github.com/wolfeidau/adminconsole/internal/roles"
	"github.com/wolfeidau/adminconsole/internal/session"
	"github.com/wolfeidau/adminconsole/internal/storage/file"
)

type Globals struct {
	Debug   bool
	Version string

	SessionTTL    time.Duration
	WatchInterval time.Duration
	SigningKey    string
	StateDir      string
	CatalogPath   string

	// Out receives command output. Default: os.Stdout
	Out io.Writer
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// console is the per-invocation wiring: a session store recovered from the
// state directory plus the role catalog.
type console struct {
	store   *session.Store
	catalog *roles.Catalog
}

func (g *Globals) open(ctx context.Context) (*console, error) {
	catalog := roles.Default()
	if g.CatalogPath != "" {
		c, err := roles.Load(g.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		catalog = c
	}

	issuer, err := auth.NewHMACIssuer([]byte(g.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}

	storage, err := file.New(g.StateDir)
	if err != nil {
		return nil, err
	}

	ids, err := identitymem.NewDemoStore(ctx)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(session.Config{
		Identity:      ids,
		Storage:       storage,
		Issuer:        issuer,
		Catalog:       catalog,
		TokenTTL:      g.SessionTTL,
		WatchInterval: g.WatchInterval,
	})
	if err != nil {
		return nil, err
	}

	outcome := store.InitializeFromStorage(ctx)
	log.Debug().Str("outcome", string(outcome)).Str("path", storage.Path()).Msg("session loaded")

	return &console{store: store, catalog: catalog}, nil
}
