package guard

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wolfeidau/adminconsole/internal/models"
	"github.com/wolfeidau/adminconsole/internal/telemetry"
)

const (
	// LoginPath is where unauthenticated callers are sent.
	LoginPath = "/login"
	// DashboardPath is where authenticated callers of public-only routes are sent.
	DashboardPath = "/dashboard"
)

// Access controls who a route is meant for.
type Access string

const (
	AccessProtected  Access = "protected"   // Requires an authorized session (default)
	AccessPublicOnly Access = "public_only" // Only for callers without a session, e.g. login
)

// State is the outcome class of a guard decision.
type State string

const (
	StateLoading              State = "loading"
	StateUnauthenticated      State = "unauthenticated"
	StateAuthenticatedDenied  State = "authenticated_denied"
	StateAuthenticatedAllowed State = "authenticated_allowed"
)

// Action is what the caller should do with the screen.
type Action string

const (
	ActionShowLoading       Action = "show_loading"
	ActionRedirectLogin     Action = "redirect_login"
	ActionRedirectDashboard Action = "redirect_dashboard"
	ActionRenderDenied      Action = "render_denied"
	ActionRenderChildren    Action = "render_children"
)

// Route declares a screen and the roles allowed to view it.
// An empty AllowedRoles list admits any authorized role.
type Route struct {
	Name         string        `yaml:"name"`
	Path         string        `yaml:"path"`
	Access       Access        `yaml:"access,omitempty"`
	AllowedRoles []models.Role `yaml:"allowedRoles,omitempty"`
}

// PublicOnly returns true for routes that authenticated callers should skip.
func (r Route) PublicOnly() bool {
	return r.Access == AccessPublicOnly
}

// Decision is the result of evaluating a route against a session snapshot.
type Decision struct {
	State    State
	Action   Action
	Redirect string // target path for redirect actions

	// CanGoBack is set on denied decisions so the caller can offer navigation back.
	CanGoBack bool
}

// Allowed returns true if the route's children should be rendered.
func (d Decision) Allowed() bool {
	return d.Action == ActionRenderChildren
}

// HasAccess returns true if the role may view the route.
func HasAccess(role models.Role, r Route) bool {
	if role == models.RoleSystemAdmin {
		return true
	}
	if len(r.AllowedRoles) == 0 {
		return true
	}
	return slices.Contains(r.AllowedRoles, role)
}

// Decide evaluates the route against the snapshot. It has no side effects and
// returns the same decision for the same inputs.
func Decide(s models.Session, r Route) Decision {
	if s.Loading {
		return Decision{State: StateLoading, Action: ActionShowLoading}
	}

	if r.PublicOnly() {
		if s.Authorized() {
			return Decision{State: StateAuthenticatedAllowed, Action: ActionRedirectDashboard, Redirect: DashboardPath}
		}
		return Decision{State: StateUnauthenticated, Action: ActionRenderChildren}
	}

	if !s.Authorized() {
		return Decision{State: StateUnauthenticated, Action: ActionRedirectLogin, Redirect: LoginPath}
	}

	if HasAccess(s.Role, r) {
		return Decision{State: StateAuthenticatedAllowed, Action: ActionRenderChildren}
	}

	return Decision{State: StateAuthenticatedDenied, Action: ActionRenderDenied, CanGoBack: true}
}

// SnapshotSource provides the current session snapshot.
type SnapshotSource interface {
	Snapshot() models.Session
}

// Guard decides routes against the live session, re-reading the snapshot on every call.
type Guard struct {
	source  SnapshotSource
	metrics *telemetry.Metrics
}

// New creates a guard reading from source. A nil metrics uses the global instruments.
func New(source SnapshotSource, metrics *telemetry.Metrics) *Guard {
	if metrics == nil {
		metrics = telemetry.GetMetrics()
	}
	return &Guard{source: source, metrics: metrics}
}

// Check decides the route against the current snapshot.
func (g *Guard) Check(ctx context.Context, r Route) Decision {
	s := g.source.Snapshot()
	d := Decide(s, r)

	g.metrics.GuardDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", string(d.State)),
		attribute.String("route", r.Name),
	))

	log.Debug().
		Str("route", r.Name).
		Str("role", string(s.Role)).
		Str("state", string(d.State)).
		Str("action", string(d.Action)).
		Msg("route guard decision")

	return d
}
