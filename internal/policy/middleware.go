package policy

import (
	"log/slog"
	"net/http"
)

// Middleware wires coarse authorization gates for HTTP handlers. It only
// applies the activation and baseline checks; resource-scoped refinement
// stays in the services, which hold the operation's target.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// RequireAny ensures the current subject baseline-holds at least one of
// the required permissions.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			sub := SubjectFromContext(r.Context())
			if sub == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !m.Engine.HoldsAny(*sub, perms...) {
				if m.Logger != nil {
					m.Logger.Warn("baseline gate denied",
						slog.String("subject", sub.ID),
						slog.String("role", string(sub.Role)))
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
