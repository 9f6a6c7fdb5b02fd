package policy

import (
	"net/http"

	"github.com/atelier-store/atelier/internal/domain/user"
)

// staffRoles is the role set for moderation and catalog mutation.
var staffRoles = []user.Role{user.RoleModerator, user.RoleAdmin}

// DefaultRules returns the route rule table.
//
// Catalog reads are public; catalog mutations are restricted to staff. The
// original configuration left the mutation endpoints unguarded, which is
// treated here as a defect, not a behavior to preserve.
func DefaultRules() []Rule {
	return []Rule{
		// Anonymous endpoints.
		{PathPrefix: "/api/users/register", Methods: []string{http.MethodPost}, Require: RequireNone},
		{PathPrefix: "/api/users/login", Methods: []string{http.MethodPost}, Require: RequireNone},
		{PathPrefix: "/api/docs", Require: RequireNone},
		{PathPrefix: "/healthz", Require: RequireNone},
		{PathPrefix: "/metrics", Require: RequireNone},

		// Catalog mutations before the catch-all read rule: same prefix
		// family, but longer prefixes, so they match first.
		{PathPrefix: "/api/products/createProduct", Methods: []string{http.MethodPost}, Require: RequireRole, Roles: staffRoles},
		{PathPrefix: "/api/products/updateProduct/", Methods: []string{http.MethodPut}, Require: RequireRole, Roles: staffRoles},
		{PathPrefix: "/api/products/deleteProduct/", Methods: []string{http.MethodDelete}, Require: RequireRole, Roles: staffRoles},
		{PathPrefix: "/api/products/", Methods: []string{http.MethodGet}, Require: RequireNone},

		// Staff areas.
		{PathPrefix: "/api/admin/", Require: RequireRole, Roles: []user.Role{user.RoleAdmin}},
		{PathPrefix: "/api/moderator/", Require: RequireRole, Roles: staffRoles},
	}
}
