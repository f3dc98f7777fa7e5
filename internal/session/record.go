package session

import (
	"errors"
	"time"
)

var (
	// ErrUnauthorized means the identity token behind the call was invalid or
	// expired. For routing purposes this is the same as never having logged in.
	ErrUnauthorized = errors.New("identity token invalid or expired")

	// ErrNotStaff means the caller is authenticated but not a registered staff
	// member.
	ErrNotStaff = errors.New("caller is not registered staff")
)

// Role is the closed set of roles a resolved session can carry.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleWorker    Role = "worker"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// ParseRole maps a stored string onto a known role. Unknown values come back
// as customer with ok=false so malformed records are never trusted with staff
// access.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleWorker, RoleAdmin, RoleSuperuser:
		return Role(s), true
	}
	return RoleCustomer, false
}

// IsStaff reports whether the role grants access to any back-office route.
func (r Role) IsStaff() bool {
	return r == RoleWorker || r == RoleAdmin || r == RoleSuperuser
}

// Record is the caller's resolved identity for the duration of a session.
// A record with a staff role always wins over plain-customer treatment; the
// two are never simultaneously active for a routing decision.
type Record struct {
	SubjectID   string    `json:"subject_id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// Valid reports whether the record can be trusted for routing.
func (r *Record) Valid() bool {
	if r == nil || r.SubjectID == "" {
		return false
	}
	_, ok := ParseRole(string(r.Role))
	return ok
}

// OutcomeKind is what page-facing code sees after resolution. No raw error
// from classification ever crosses this boundary.
type OutcomeKind int

const (
	// OutcomeAnonymous means no usable identity: route to login.
	OutcomeAnonymous OutcomeKind = iota
	// OutcomeCustomer means authenticated, not staff.
	OutcomeCustomer
	// OutcomeStaff means authenticated staff with Record.Role set.
	OutcomeStaff
	// OutcomeDenied means classification could not be trusted (backend
	// unreachable with nothing cached): fail closed for staff routes.
	OutcomeDenied
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAnonymous:
		return "anonymous"
	case OutcomeCustomer:
		return "customer"
	case OutcomeStaff:
		return "staff"
	case OutcomeDenied:
		return "denied"
	}
	return "unknown"
}

// Outcome pairs the resolution kind with the record backing it, when any.
type Outcome struct {
	Kind   OutcomeKind
	Record *Record
}
