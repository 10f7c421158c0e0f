package middleware

import (
	"context"
	"net/http"

	"github.com/mclassic/sentry"
)

type userContextKey struct{}

// UserFromContext returns the record injected by [RequireAuthenticated].
func UserFromContext(ctx context.Context) (sentry.UserRecord, bool) {
	user, ok := ctx.Value(userContextKey{}).(sentry.UserRecord)
	return user, ok
}

// RequireAuthenticated rejects requests that carry no authenticated
// session with 401. A valid remember-me cookie transparently re-opens the
// session before the verdict, exactly as Check does on its own. On success
// the user record is resolved once and injected into the request context.
//
// The wrapped handler must run inside [WithSession] (or equivalent
// transport wiring) so the context carries a session id and the HTTP
// exchange.
func RequireAuthenticated(auth *sentry.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ok, err := auth.Check(r.Context())
			if err != nil || !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := auth.CurrentUser(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
