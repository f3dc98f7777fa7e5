package session

import (
	"net/url"
	"sort"
	"strings"
)

// Policy maps route prefixes to the roles allowed to view them. It is static
// configuration checked once per navigation, longest prefix first.
type Policy struct {
	rules []policyRule
}

type policyRule struct {
	prefix  string
	allowed map[Role]bool
}

// NewPolicy returns the storefront's access policy: /superadmin is superuser
// only, /admin is admin or superuser, /worker is worker only, everything else
// is open to any visitor.
func NewPolicy() *Policy {
	p := &Policy{}
	p.Add("/superadmin", RoleSuperuser)
	p.Add("/admin", RoleAdmin, RoleSuperuser)
	p.Add("/worker", RoleWorker)
	return p
}

// Add registers a prefix with its allowed roles. Rules are kept sorted by
// descending prefix length so lookup is longest-match.
func (p *Policy) Add(prefix string, roles ...Role) {
	allowed := make(map[Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	p.rules = append(p.rules, policyRule{prefix: prefix, allowed: allowed})
	sort.SliceStable(p.rules, func(i, j int) bool {
		return len(p.rules[i].prefix) > len(p.rules[j].prefix)
	})
}

func (p *Policy) match(route string) *policyRule {
	for i := range p.rules {
		r := &p.rules[i]
		if route == r.prefix || strings.HasPrefix(route, r.prefix+"/") {
			return r
		}
	}
	return nil
}

// RequiresStaff reports whether the route is gated at all.
func (p *Policy) RequiresStaff(route string) bool {
	return p.match(route) != nil
}

// Allowed reports whether the role may view the route. Open routes allow
// every role.
func (p *Policy) Allowed(route string, role Role) bool {
	r := p.match(route)
	if r == nil {
		return true
	}
	return r.allowed[role]
}

// HomeFor is where a resolved role belongs when it lands on a route it cannot
// view.
func (p *Policy) HomeFor(role Role) string {
	switch role {
	case RoleWorker:
		return "/worker/dashboard"
	case RoleAdmin, RoleSuperuser:
		return "/admin"
	}
	return "/"
}

// LoginRoute builds the login destination carrying the originally requested
// route so the shell can come back after authentication.
func (p *Policy) LoginRoute(callback string) string {
	if callback == "" || callback == "/login" {
		return "/login"
	}
	return "/login?callbackUrl=" + url.QueryEscape(callback)
}
