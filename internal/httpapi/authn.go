package httpapi

import (
	"net/http"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
)

// withAuth resolves the Authorization header on every request and stores the
// resulting claims in the context. It never rejects: public routes must stay
// reachable without a token, so enforcement happens per handler.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if claims := a.auth.Authenticate(header); claims != nil {
			ctx := auth.ContextWithClaims(r.Context(), claims)
			if token, ok := bearerValue(header); ok {
				ctx = auth.ContextWithToken(ctx, token)
			}
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole enforces an allowed-role set on a protected handler. It writes
// the error response itself and reports whether the request may proceed.
func (a *API) requireRole(w http.ResponseWriter, r *http.Request, allowed ...auth.Role) *auth.Claims {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, http.StatusUnauthorized, "Authentification requise")
		return nil
	}
	if !auth.Authorize(claims, allowed...) {
		writeError(w, r, http.StatusForbidden, "Accès non autorisé")
		return nil
	}
	return claims
}

// requireAdmin is the guard for the administration surface.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) *auth.Claims {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, http.StatusUnauthorized, "Authentification requise")
		return nil
	}
	if !auth.Authorize(claims, auth.RoleAdmin) {
		writeError(w, r, http.StatusForbidden, "Accès non autorisé. Seuls les administrateurs peuvent accéder à cette ressource.")
		return nil
	}
	return claims
}

func bearerValue(header string) (string, bool) {
	const scheme = "Bearer "
	if len(header) <= len(scheme) || header[:len(scheme)] != scheme {
		return "", false
	}
	return header[len(scheme):], true
}
