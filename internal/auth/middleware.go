package auth

import (
	"context"
	"net/http"

	"github.com/sakif/miniblog/internal/session"
)

// contextKey is unexported so no other package can read or shadow the
// identity stored in a request context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth gates protected routes on a valid authenticated session.
//
// An anonymous request is redirected to /login before any handler (and
// therefore any repository) runs. The response never reveals what the
// protected route would have done. An authenticated request proceeds with
// the acting identity stored in its context.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := sessions.Current(r)
			if !identity.IsAuthenticated() {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the acting user's identity from the request
// context. Returns (zero, false) on routes not behind RequireAuth.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(session.Identity)
	return identity, ok && identity.IsAuthenticated()
}
