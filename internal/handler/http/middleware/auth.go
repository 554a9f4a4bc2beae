package middleware

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired must run after jwtauth.Verifier. It rejects missing or
// non-access tokens and puts the caller's access.Principal on the context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		p, err := jwt.PrincipalFromClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(access.WithPrincipal(r.Context(), p)))
	})
}

// OptionalAuth attaches a principal when a valid access token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err == nil && token != nil && claims["type"] == jwt.TypeAccess {
			if p, err := jwt.PrincipalFromClaims(claims); err == nil {
				r = r.WithContext(access.WithPrincipal(r.Context(), p))
			}
		}
		next.ServeHTTP(w, r)
	})
}
