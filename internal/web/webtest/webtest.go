// Package webtest holds helpers for handler tests.
package webtest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/web"
)

// NewResponder wires a Responder with the real templates and a cookie-only session manager.
func NewResponder(t *testing.T) (*web.Responder, *session.Manager) {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	mgr := session.NewManager(session.NewCookieStore("test-secret", false), nil, session.Options{
		Name:        "ping_console",
		SessionTTL:  time.Hour,
		RememberTTL: 24 * time.Hour,
	}, slog.Default())

	return web.NewResponder(slog.Default(), renderer, mgr, web.NewValidator()), mgr
}

// Flashes reads the flashes a recorded response left in its session cookie.
func Flashes(t *testing.T, mgr *session.Manager, rr *httptest.ResponseRecorder) []session.Flash {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return mgr.Flashes(httptest.NewRecorder(), req)
}

func PostForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// WithURLParams attaches chi URL parameters given as key, value pairs.
func WithURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func WithSession(req *http.Request, sess *session.Session) *http.Request {
	return req.WithContext(session.NewContext(req.Context(), sess))
}
