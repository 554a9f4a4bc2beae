package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

// RequireRole lets the request through only for the given roles. Ownership
// is checked later by the services.
func RequireRole(roles ...access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := access.FromContext(r.Context())
			if !ok {
				response.HandleError(w, access.ErrUnauthenticated)
				return
			}
			if !slices.Contains(roles, p.Role) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' may not access this resource", p.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly requires the admin role
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(access.RoleAdmin)(next)
}
