package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "sekolah_session", "secret-key", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	sm := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, sess)

	sess.SetUser("t1")
	sess.Set("csrf_token", "abc")

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, req, sess))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sekolah_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// next request carries the cookie back
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	assert.Equal(t, "t1", loaded.User())
	assert.Equal(t, "abc", loaded.Get("csrf_token"))
}

func TestSessionDestroy(t *testing.T) {
	ctx := context.Background()
	sm := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetUser("t1")

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, req, sess))
	cookie := rr.Result().Cookies()[0]

	sm.Destroy(sess)
	rr2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr2, req, sess))
	expired := rr2.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, -1, expired[0].MaxAge)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	loaded, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	assert.Empty(t, loaded.User())
}

func TestCSRFTokens(t *testing.T) {
	ctx := context.Background()
	manager := NewCSRFManager("csrf-secret")
	sess := &Session{ID: "sess-1", values: make(map[string]string)}

	token, err := manager.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// stable across calls within one session
	again, err := manager.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	require.NoError(t, manager.VerifyToken(ctx, sess, token))
	require.ErrorIs(t, manager.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, manager.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, manager.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)
}
