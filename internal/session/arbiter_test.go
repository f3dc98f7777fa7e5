package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArbiterSuppressesRepeatAndInverseTransitions(t *testing.T) {
	a := NewArbiter(DefaultLockTTL)

	require.True(t, a.ShouldAllowRedirect("/admin", "/login"))
	require.True(t, a.SetRedirectLock("/admin", "/login"))

	// Same transition within the TTL: at most one navigation.
	assert.False(t, a.ShouldAllowRedirect("/admin", "/login"))
	// The inverse would be the other half of a bounce.
	assert.False(t, a.ShouldAllowRedirect("/login", "/admin"))
	// Unrelated transitions are not suppressed.
	assert.True(t, a.ShouldAllowRedirect("/worker", "/worker/dashboard"))
}

func TestSetRedirectLockRefusesDifferentTransition(t *testing.T) {
	a := NewArbiter(DefaultLockTTL)

	require.True(t, a.SetRedirectLock("/login", "/admin"))
	assert.False(t, a.SetRedirectLock("/admin", "/login"), "a second component must not stomp the winner's redirect")
	assert.False(t, a.SetRedirectLock("/login", "/worker/dashboard"))

	// Re-installing the exact same transition is an idempotent success.
	assert.True(t, a.SetRedirectLock("/login", "/admin"))
}

func TestClearRedirectLockReleasesImmediately(t *testing.T) {
	a := NewArbiter(DefaultLockTTL)

	require.True(t, a.SetRedirectLock("/admin", "/login"))
	a.ClearRedirectLock()

	assert.True(t, a.ShouldAllowRedirect("/admin", "/login"))
	assert.True(t, a.SetRedirectLock("/login", "/admin"))
}

func TestLockExpiresAfterTTL(t *testing.T) {
	a := NewArbiter(3 * time.Second)
	now := time.Now()
	a.now = func() time.Time { return now }

	require.True(t, a.SetRedirectLock("/admin", "/login"))
	require.False(t, a.ShouldAllowRedirect("/admin", "/login"))

	// A crashed component never cleared the lock; the TTL self-heals it.
	now = now.Add(4 * time.Second)
	assert.True(t, a.ShouldAllowRedirect("/admin", "/login"))
	assert.True(t, a.SetRedirectLock("/admin", "/login"))

	_, ok := a.Active()
	assert.True(t, ok)
}

func TestActiveReportsLiveLockOnly(t *testing.T) {
	a := NewArbiter(3 * time.Second)
	now := time.Now()
	a.now = func() time.Time { return now }

	_, ok := a.Active()
	assert.False(t, ok)

	require.True(t, a.SetRedirectLock("/login", "/admin"))
	l, ok := a.Active()
	require.True(t, ok)
	assert.Equal(t, "/login", l.From)
	assert.Equal(t, "/admin", l.To)

	now = now.Add(5 * time.Second)
	_, ok = a.Active()
	assert.False(t, ok)
}

func TestRacingShellsProduceOneWinner(t *testing.T) {
	a := NewArbiter(DefaultLockTTL)

	// Login page wants login→admin, admin shell wants admin→login, both in
	// the same tick. Exactly one may install its transition.
	var wg sync.WaitGroup
	results := make([]bool, 2)
	transitions := [][2]string{{"/login", "/admin"}, {"/admin", "/login"}}
	for i, tr := range transitions {
		wg.Add(1)
		go func(i int, from, to string) {
			defer wg.Done()
			results[i] = a.SetRedirectLock(from, to)
		}(i, tr[0], tr[1])
	}
	wg.Wait()

	wins := 0
	for _, won := range results {
		if won {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestArbiterSetScopesLocksPerSession(t *testing.T) {
	set := NewArbiterSet(DefaultLockTTL)

	a1 := set.For("visitor-a")
	a2 := set.For("visitor-b")

	require.True(t, a1.SetRedirectLock("/admin", "/login"))

	// Another visitor's navigation is not constrained by ours.
	assert.True(t, a2.ShouldAllowRedirect("/admin", "/login"))
	assert.True(t, a2.SetRedirectLock("/admin", "/login"))

	// Same key returns the same arbiter.
	assert.False(t, set.For("visitor-a").ShouldAllowRedirect("/admin", "/login"))
}
