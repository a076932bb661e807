package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/wolfeidau/adminconsole/internal/auth"
	"github.com/wolfeidau/adminconsole/internal/identity"
	identitymem "github.com/wolfeidau/adminconsole/internal/identity/memory"
	storagemem "github.com/wolfeidau/adminconsole/internal/storage/memory"
	"github.com/wolfeidau/adminconsole/internal/telemetry"
)

var testSigningKey = []byte("test-signing-key-0123456789abcdef")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	identity *identitymem.Store
	storage  *storagemem.Storage
	issuer   *auth.JWTIssuer
	clock    *fakeClock
	reader   *sdkmetric.ManualReader
	metrics  *telemetry.Metrics
	store    *Store
}

func newHarness(t *testing.T, opts ...func(*Config)) *harness {
	t.Helper()

	ids, err := identitymem.NewDemoStore(context.Background())
	require.NoError(t, err)

	issuer, err := auth.NewHMACIssuer(testSigningKey)
	require.NoError(t, err)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	h := &harness{
		identity: ids,
		storage:  storagemem.New(),
		issuer:   issuer,
		clock:    newFakeClock(),
		reader:   reader,
		metrics:  telemetry.NewMetrics(mp),
	}
	h.store = h.newStore(t, opts...)
	return h
}

// newStore creates another store sharing the harness collaborators, like a
// process restart over the same durable storage.
func (h *harness) newStore(t *testing.T, opts ...func(*Config)) *Store {
	t.Helper()

	cfg := Config{
		Identity:              h.identity,
		Storage:               h.storage,
		Issuer:                h.issuer,
		Metrics:               h.metrics,
		Now:                   h.clock.Now,
		IdentityRetryInterval: time.Millisecond,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := NewStore(cfg)
	require.NoError(t, err)
	return s
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	_, err := h.store.Login(context.Background(), Credentials{Email: email, Password: identitymem.DemoPassword})
	require.NoError(t, err)
}

func (h *harness) counter(t *testing.T, name, attrKey, attrValue string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key(attrKey)); ok && v.AsString() == attrValue {
					total += dp.Value
				}
			}
		}
	}
	return total
}

// flakyIdentity reports itself unavailable for the first failures calls.
type flakyIdentity struct {
	identity.Store

	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyIdentity) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Account, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if fail {
		return nil, identity.ErrUnavailable
	}
	return f.Store.Authenticate(ctx, creds)
}

func (f *flakyIdentity) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// blockingIdentity holds Authenticate until released.
type blockingIdentity struct {
	identity.Store

	entered chan struct{}
	release chan struct{}
}

func (b *blockingIdentity) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Account, error) {
	close(b.entered)
	<-b.release
	return b.Store.Authenticate(ctx, creds)
}

// failingUpdater rejects every profile update.
type failingUpdater struct {
	*identitymem.Store
}

func (failingUpdater) UpdateProfile(ctx context.Context, principalID string, patch identity.ProfilePatch) (*identity.Account, error) {
	return nil, errors.New("directory is read-only")
}

// failingStorage accepts reads and deletes but rejects writes.
type failingStorage struct {
	*storagemem.Storage
}

func (failingStorage) Set(ctx context.Context, entries map[string]string) error {
	return errors.New("disk full")
}

func ptr[T any](v T) *T { return &v }
