package session

import (
	"context"
	"time"
)

// Action is the gate's verdict for a navigation.
type Action int

const (
	// ActionAllow renders the route.
	ActionAllow Action = iota
	// ActionRedirect issues a single navigation to Decision.Target.
	ActionRedirect
	// ActionDeny renders the access-denied view. Terminal for the session on
	// this route; it never loops.
	ActionDeny
	// ActionHold renders nothing: the same transition was already issued
	// within the lock TTL and is still in flight.
	ActionHold
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	case ActionDeny:
		return "deny"
	case ActionHold:
		return "hold"
	}
	return "unknown"
}

// Decision is everything route shells are told: a resolved verdict plus
// whether a redirect is pending. Raw classification errors never appear here.
type Decision struct {
	Action  Action
	Target  string
	Outcome Outcome
	Pending bool
}

// Gate arbitrates every page load: resolve the caller, compare against the
// access policy, and decide whether a redirect is required and safe.
type Gate struct {
	resolver *Resolver
	policy   *Policy
	arbiters *ArbiterSet

	// retryDelay is the single back-off used after losing a lock race,
	// before re-checking cached state once and giving up.
	retryDelay time.Duration
}

// NewGate wires the gate. retryDelay may be zero in tests.
func NewGate(resolver *Resolver, policy *Policy, arbiters *ArbiterSet, retryDelay time.Duration) *Gate {
	return &Gate{
		resolver:   resolver,
		policy:     policy,
		arbiters:   arbiters,
		retryDelay: retryDelay,
	}
}

// Resolver exposes the underlying session resolver to handlers that establish
// or clear sessions directly (login, logout).
func (g *Gate) Resolver() *Resolver { return g.resolver }

// Policy exposes the static access policy.
func (g *Gate) Policy() *Policy { return g.policy }

// Arbitrate decides the fate of one navigation. key scopes redirect locks to
// a single visitor's session; subjectID is empty for anonymous callers.
func (g *Gate) Arbitrate(ctx context.Context, key, subjectID, route string) Decision {
	out := g.resolver.Resolve(ctx, subjectID)
	arb := g.arbiters.For(key)

	role := RoleCustomer
	if out.Record != nil {
		role = out.Record.Role
	}

	if g.policy.Allowed(route, role) && out.Kind != OutcomeAnonymous && out.Kind != OutcomeDenied {
		// Navigation succeeded and is stable: release any lock we hold.
		if out.Record != nil {
			arb.ClearRedirectLock()
		}
		return Decision{Action: ActionAllow, Outcome: out}
	}

	if !g.policy.RequiresStaff(route) {
		// Open route, anonymous or unclassifiable caller. Nothing to gate.
		return Decision{Action: ActionAllow, Outcome: out}
	}

	var target string
	switch out.Kind {
	case OutcomeAnonymous:
		target = g.policy.LoginRoute(route)
	case OutcomeStaff:
		// Wrong back-office: send the role home instead of looping here.
		target = g.policy.HomeFor(role)
	case OutcomeCustomer, OutcomeDenied:
		// Not staff (or unclassifiable with nothing cached): fail closed.
		return Decision{Action: ActionDeny, Outcome: out}
	}

	if !arb.ShouldAllowRedirect(route, target) {
		// This exact transition (or its inverse) already fired within the
		// TTL. Render nothing and let it land.
		return Decision{Action: ActionHold, Outcome: out, Pending: true}
	}

	if !arb.SetRedirectLock(route, target) {
		// A different transition holds the lock. Defer to the winner: one
		// short delay, one cached re-check, then fall back to denied.
		if g.retryDelay > 0 {
			time.Sleep(g.retryDelay)
		}
		if rec := g.resolver.GetCached(ctx, subjectID); rec != nil && g.policy.Allowed(route, rec.Role) {
			arb.ClearRedirectLock()
			return Decision{Action: ActionAllow, Outcome: Outcome{Kind: OutcomeStaff, Record: rec}}
		}
		return Decision{Action: ActionDeny, Outcome: out, Pending: true}
	}

	return Decision{Action: ActionRedirect, Target: target, Outcome: out, Pending: true}
}
