package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyPrefixMatching(t *testing.T) {
	p := NewPolicy()

	assert.True(t, p.RequiresStaff("/admin"))
	assert.True(t, p.RequiresStaff("/admin/products"))
	assert.True(t, p.RequiresStaff("/worker/dashboard"))
	assert.True(t, p.RequiresStaff("/superadmin/staff"))

	assert.False(t, p.RequiresStaff("/"))
	assert.False(t, p.RequiresStaff("/products"))
	assert.False(t, p.RequiresStaff("/administrators"), "prefix match must respect path segments")
}

func TestPolicyRoleSets(t *testing.T) {
	p := NewPolicy()

	assert.True(t, p.Allowed("/admin", RoleAdmin))
	assert.True(t, p.Allowed("/admin/orders", RoleSuperuser))
	assert.False(t, p.Allowed("/admin", RoleWorker))
	assert.False(t, p.Allowed("/admin", RoleCustomer))

	assert.True(t, p.Allowed("/worker", RoleWorker))
	assert.False(t, p.Allowed("/worker", RoleAdmin))

	assert.True(t, p.Allowed("/superadmin", RoleSuperuser))
	assert.False(t, p.Allowed("/superadmin", RoleAdmin))

	// Open routes allow everyone.
	assert.True(t, p.Allowed("/products/ring-of-dawn", RoleCustomer))
	assert.True(t, p.Allowed("/cart", RoleWorker))
}

func TestPolicyLongestPrefixWins(t *testing.T) {
	p := NewPolicy()
	p.Add("/admin/audit", RoleSuperuser)

	assert.True(t, p.Allowed("/admin/audit", RoleSuperuser))
	assert.False(t, p.Allowed("/admin/audit/log", RoleAdmin))
	assert.True(t, p.Allowed("/admin/orders", RoleAdmin))
}

func TestHomeFor(t *testing.T) {
	p := NewPolicy()

	assert.Equal(t, "/worker/dashboard", p.HomeFor(RoleWorker))
	assert.Equal(t, "/admin", p.HomeFor(RoleAdmin))
	assert.Equal(t, "/admin", p.HomeFor(RoleSuperuser))
	assert.Equal(t, "/", p.HomeFor(RoleCustomer))
}

func TestLoginRouteCarriesCallback(t *testing.T) {
	p := NewPolicy()

	assert.Equal(t, "/login?callbackUrl=%2Fadmin", p.LoginRoute("/admin"))
	assert.Equal(t, "/login", p.LoginRoute(""))
	assert.Equal(t, "/login", p.LoginRoute("/login"))
}

func TestParseRoleRejectsUnknownValues(t *testing.T) {
	for _, s := range []string{"customer", "worker", "admin", "superuser"} {
		_, ok := ParseRole(s)
		assert.True(t, ok, s)
	}

	r, ok := ParseRole("root")
	assert.False(t, ok)
	assert.Equal(t, RoleCustomer, r, "unknown roles must never map onto staff access")
}
