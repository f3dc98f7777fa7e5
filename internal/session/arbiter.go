package session

import (
	"sync"
	"time"
)

// DefaultLockTTL bounds how long a never-cleared redirect lock can wedge
// navigation. A few seconds is enough to cover any sane redirect round-trip.
const DefaultLockTTL = 3 * time.Second

// Lock records an in-flight route transition.
type Lock struct {
	From      string    `json:"from_route"`
	To        string    `json:"to_route"`
	CreatedAt time.Time `json:"created_at"`
}

// Arbiter decides whether a redirect is safe to perform without looping.
// Independent callers (login handler, admin shell, worker shell) each decide
// redirects from asynchronously resolving session state; the arbiter makes
// those decisions mutually exclusive and idempotent. At most one lock is
// active at a time and a stale lock is ignored after the TTL, so the system
// self-heals if a caller dies before clearing it.
type Arbiter struct {
	mu   sync.Mutex
	lock *Lock
	ttl  time.Duration

	now func() time.Time
}

// NewArbiter creates an arbiter with the given lock TTL. A non-positive ttl
// falls back to DefaultLockTTL.
func NewArbiter(ttl time.Duration) *Arbiter {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Arbiter{ttl: ttl, now: time.Now}
}

// ShouldAllowRedirect reports whether issuing the from→to transition is safe.
// It refuses when an active lock already records the same transition or its
// inverse; either would mean a bounce.
func (a *Arbiter) ShouldAllowRedirect(from, to string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.active()
	if l == nil {
		return true
	}
	if l.From == from && l.To == to {
		return false
	}
	if l.From == to && l.To == from {
		return false
	}
	return true
}

// SetRedirectLock atomically installs a lock for the transition. It refuses
// when a different, still-live transition holds the lock so one caller's
// redirect cannot stomp another's. Re-installing the same transition is a
// no-op success.
func (a *Arbiter) SetRedirectLock(from, to string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if l := a.active(); l != nil {
		if l.From == from && l.To == to {
			return true
		}
		return false
	}

	a.lock = &Lock{From: from, To: to, CreatedAt: a.now()}
	return true
}

// ClearRedirectLock releases any active lock. Called once the destination
// confirms it has the access it needs.
func (a *Arbiter) ClearRedirectLock() {
	a.mu.Lock()
	a.lock = nil
	a.mu.Unlock()
}

// Active returns the current non-expired lock, if any.
func (a *Arbiter) Active() (Lock, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if l := a.active(); l != nil {
		return *l, true
	}
	return Lock{}, false
}

// active drops an expired lock and returns the live one. Callers hold a.mu.
func (a *Arbiter) active() *Lock {
	if a.lock == nil {
		return nil
	}
	if a.now().Sub(a.lock.CreatedAt) > a.ttl {
		a.lock = nil
		return nil
	}
	return a.lock
}

// ArbiterSet hands out one arbiter per browser session key. Locks are scoped
// to a single visitor's navigation, never shared across users. Idle entries
// are pruned opportunistically once their lock could no longer be live.
type ArbiterSet struct {
	mu       sync.Mutex
	ttl      time.Duration
	arbiters map[string]*arbiterEntry
}

type arbiterEntry struct {
	arb      *Arbiter
	lastSeen time.Time
}

// NewArbiterSet creates a per-session arbiter registry with the given TTL
// applied to every arbiter it creates.
func NewArbiterSet(ttl time.Duration) *ArbiterSet {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &ArbiterSet{ttl: ttl, arbiters: make(map[string]*arbiterEntry)}
}

// For returns the arbiter owning redirect decisions for the session key,
// creating it on first use.
func (s *ArbiterSet) For(key string) *Arbiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, e := range s.arbiters {
		if k != key && now.Sub(e.lastSeen) > 10*s.ttl {
			delete(s.arbiters, k)
		}
	}

	e, ok := s.arbiters[key]
	if !ok {
		e = &arbiterEntry{arb: NewArbiter(s.ttl)}
		s.arbiters[key] = e
	}
	e.lastSeen = now
	return e.arb
}
