package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGate(c Classifier) *Gate {
	r := NewResolver(NewMemoryStore(0), nil, c, zap.NewNop().Sugar())
	return NewGate(r, NewPolicy(), NewArbiterSet(DefaultLockTTL), 0)
}

func TestAnonymousVisitorOnAdminRedirectsToLoginOnce(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrUnauthorized)
	g := newTestGate(fc)
	ctx := context.Background()

	d := g.Arbitrate(ctx, "tab-1", "visitor", "/admin")
	require.Equal(t, ActionRedirect, d.Action)
	assert.Equal(t, "/login?callbackUrl=%2Fadmin", d.Target)
	assert.Equal(t, OutcomeAnonymous, d.Outcome.Kind)
	assert.True(t, d.Pending)

	// The login page's own mount must not fire another redirect.
	d = g.Arbitrate(ctx, "tab-1", "", "/login")
	assert.Equal(t, ActionAllow, d.Action)

	// Retrying /admin within the TTL renders nothing instead of looping.
	d = g.Arbitrate(ctx, "tab-1", "visitor", "/admin")
	assert.Equal(t, ActionHold, d.Action)
	assert.True(t, d.Pending)
}

func TestReturningAdminRendersImmediately(t *testing.T) {
	fc := &fakeClassifier{}
	g := newTestGate(fc)
	ctx := context.Background()

	g.Resolver().Establish(ctx, "admin-1", RoleAdmin, "Asha")

	d := g.Arbitrate(ctx, "tab-1", "admin-1", "/admin/products")
	require.Equal(t, ActionAllow, d.Action)
	require.NotNil(t, d.Outcome.Record)
	assert.Equal(t, RoleAdmin, d.Outcome.Record.Role)
	assert.False(t, d.Pending)
	assert.Equal(t, int64(0), fc.callCount(), "cached sessions must not reclassify")
}

func TestWorkerOnAdminRouteGoesHomeExactlyOnce(t *testing.T) {
	fc := &fakeClassifier{}
	g := newTestGate(fc)
	ctx := context.Background()

	g.Resolver().Establish(ctx, "worker-1", RoleWorker, "Bina")

	d := g.Arbitrate(ctx, "tab-1", "worker-1", "/admin")
	require.Equal(t, ActionRedirect, d.Action)
	assert.Equal(t, "/worker/dashboard", d.Target)

	// While the redirect is pending the admin shell renders nothing.
	d = g.Arbitrate(ctx, "tab-1", "worker-1", "/admin")
	assert.Equal(t, ActionHold, d.Action)

	// Landing at the destination clears the lock.
	d = g.Arbitrate(ctx, "tab-1", "worker-1", "/worker/dashboard")
	require.Equal(t, ActionAllow, d.Action)
	_, held := g.arbiters.For("tab-1").Active()
	assert.False(t, held)
}

func TestNotStaffOnStaffRouteIsDeniedWithoutLooping(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrNotStaff)
	g := newTestGate(fc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := g.Arbitrate(ctx, "tab-1", "customer-1", "/worker")
		assert.Equal(t, ActionDeny, d.Action)
	}
	assert.Equal(t, int64(1), fc.callCount(), "denied is terminal for the session")
}

func TestClassifierOutageFailsClosedOnStaffRoutes(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, errors.New("directory unreachable"))
	g := newTestGate(fc)
	ctx := context.Background()

	d := g.Arbitrate(ctx, "tab-1", "user-1", "/admin")
	assert.Equal(t, ActionDeny, d.Action)
	assert.Equal(t, OutcomeDenied, d.Outcome.Kind)

	// The same outage is invisible on the storefront.
	d = g.Arbitrate(ctx, "tab-1", "user-1", "/products")
	assert.Equal(t, ActionAllow, d.Action)
}

func TestClassifierOutageKeepsEstablishedSession(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, errors.New("directory unreachable"))
	g := newTestGate(fc)
	ctx := context.Background()

	g.Resolver().Establish(ctx, "admin-1", RoleAdmin, "Asha")

	d := g.Arbitrate(ctx, "tab-1", "admin-1", "/admin")
	assert.Equal(t, ActionAllow, d.Action, "a transient blip must not log out a resolved staff user")
}

func TestRacingRoutesInstallOneRedirect(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrUnauthorized)
	g := newTestGate(fc)
	ctx := context.Background()

	// Two shells mount in the same tick for the same visitor, each wanting
	// its own redirect to login. Only one may navigate.
	var wg sync.WaitGroup
	decisions := make([]Decision, 2)
	routes := []string{"/admin", "/worker"}
	for i, route := range routes {
		wg.Add(1)
		go func(i int, route string) {
			defer wg.Done()
			decisions[i] = g.Arbitrate(ctx, "tab-1", "visitor", route)
		}(i, route)
	}
	wg.Wait()

	redirects := 0
	for _, d := range decisions {
		if d.Action == ActionRedirect {
			redirects++
		}
		assert.NotEqual(t, ActionAllow, d.Action)
	}
	assert.Equal(t, 1, redirects, "exactly one shell wins the lock and navigates")
}

// sideEffectClassifier simulates a login flow finishing while classification
// is still being awaited: the record lands in the cache, but this caller's
// own answer arrives too late to use it directly.
type sideEffectClassifier struct {
	r *Resolver
}

func (c *sideEffectClassifier) Classify(ctx context.Context, subjectID string) (Classification, error) {
	c.r.Establish(ctx, subjectID, RoleAdmin, "Asha")
	return Classification{}, ErrUnauthorized
}

func TestLostRaceRecheckAllowsFreshlyEstablishedSession(t *testing.T) {
	r := NewResolver(NewMemoryStore(0), nil, nil, zap.NewNop().Sugar())
	r.classifier = &sideEffectClassifier{r: r}
	g := NewGate(r, NewPolicy(), NewArbiterSet(DefaultLockTTL), 0)
	ctx := context.Background()

	// Another component already owns a different transition, so this shell
	// loses the lock race. Its single cached re-check must see the freshly
	// established session and render instead of denying.
	require.True(t, g.arbiters.For("tab-1").SetRedirectLock("/login", "/admin"))

	d := g.Arbitrate(ctx, "tab-1", "admin-1", "/admin")
	assert.Equal(t, ActionAllow, d.Action)
	require.NotNil(t, d.Outcome.Record)
	assert.Equal(t, RoleAdmin, d.Outcome.Record.Role)
}

func TestGateDelayBeforeLostRaceRecheck(t *testing.T) {
	fc := &fakeClassifier{}
	fc.set(Classification{}, ErrUnauthorized)
	r := NewResolver(NewMemoryStore(0), nil, fc, zap.NewNop().Sugar())
	g := NewGate(r, NewPolicy(), NewArbiterSet(DefaultLockTTL), 10*time.Millisecond)
	ctx := context.Background()

	require.True(t, g.arbiters.For("tab-1").SetRedirectLock("/login", "/admin"))

	start := time.Now()
	d := g.Arbitrate(ctx, "tab-1", "visitor", "/worker")
	assert.Equal(t, ActionDeny, d.Action)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond, "the loser backs off before its one re-check")
}
