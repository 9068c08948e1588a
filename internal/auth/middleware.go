package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// Middleware resolves the session's account into a policy subject and
// stores it in the request context.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// WithSubject loads the current subject when a session user is present.
// Routes remain reachable; RequireSubject enforces presence.
func (m Middleware) WithSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		id := strings.TrimSpace(sess.User())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		sub, err := m.Service.SubjectByID(r.Context(), id)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("resolve subject", slog.String("id", id), slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := policy.ContextWithSubject(r.Context(), sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSubject rejects requests without a resolved subject.
func (m Middleware) RequireSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if policy.SubjectFromContext(r.Context()) == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
