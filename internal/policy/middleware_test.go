package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gateRequest(t *testing.T, mw Middleware, sub *Subject, perms ...Permission) int {
	t.Helper()
	handler := mw.RequireAny(perms...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if sub != nil {
		req = req.WithContext(ContextWithSubject(req.Context(), sub))
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr.Code
}

func TestRequireAny(t *testing.T) {
	mw := Middleware{Engine: NewEngine(newFakeRoster())}

	t.Run("no subject is unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, gateRequest(t, mw, nil, PermStudentsView))
	})

	t.Run("baseline grant passes", func(t *testing.T) {
		sub := generalSubject()
		assert.Equal(t, http.StatusNoContent, gateRequest(t, mw, &sub, PermGradesView))
	})

	t.Run("any of several suffices", func(t *testing.T) {
		sub := generalSubject()
		assert.Equal(t, http.StatusNoContent, gateRequest(t, mw, &sub, PermClassManage, PermGradesView))
	})

	t.Run("missing grant is forbidden", func(t *testing.T) {
		sub := generalSubject()
		assert.Equal(t, http.StatusForbidden, gateRequest(t, mw, &sub, PermClassManage))
	})

	t.Run("inactive subject is forbidden", func(t *testing.T) {
		sub := homeroomSubject()
		sub.Active = false
		assert.Equal(t, http.StatusForbidden, gateRequest(t, mw, &sub, PermStudentsView))
	})

	t.Run("empty permission list passes through", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, gateRequest(t, mw, nil))
	})
}
