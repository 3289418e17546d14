package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, req storage.LoginRequest) (*storage.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.LoginResponse), args.Error(1)
}

func (m *MockAuthenticator) Me(ctx context.Context) (*storage.UserInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UserInfo), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newManager() *session.Manager {
	return session.NewManager(session.NewCookieStore("test-secret", false), nil, session.Options{
		Name:        "ping_console",
		SessionTTL:  time.Hour,
		RememberTTL: 24 * time.Hour,
	}, slog.Default())
}

// loggedInCookie returns a cookie carrying token, as set by a successful login.
func loggedInCookie(t *testing.T, mgr *session.Manager, token string) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, mgr.Bind(rr, httptest.NewRequest(http.MethodPost, "/login", nil)).SaveToken(token, false))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func protected(mgr *session.Manager, authenticator session.Authenticator, reached *bool) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = restapi.TokensFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	})
	return LoadSession(slog.Default(), mgr, authenticator)(RequireUser(final))
}

func TestRequireUser_AnonymousRedirects(t *testing.T) {
	mgr := newManager()
	authenticator := new(MockAuthenticator)
	reached := false

	rr := httptest.NewRecorder()
	protected(mgr, authenticator, &reached).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/spaces", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, reached)
	authenticator.AssertNotCalled(t, "Me", mock.Anything)
}

func TestRequireUser_LoggedInPassesThrough(t *testing.T) {
	mgr := newManager()
	authenticator := new(MockAuthenticator)
	authenticator.On("Me", mock.Anything).Return(&storage.UserInfo{ID: "u-1", Email: "admin@example.com"}, nil)
	reached := false

	req := httptest.NewRequest(http.MethodGet, "/spaces", nil)
	req.AddCookie(loggedInCookie(t, mgr, "jwt"))

	rr := httptest.NewRecorder()
	protected(mgr, authenticator, &reached).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reached)
	authenticator.AssertExpectations(t)
}

func TestLoadSession_ExpiredTokenIsDropped(t *testing.T) {
	mgr := newManager()
	authenticator := new(MockAuthenticator)
	authenticator.On("Me", mock.Anything).Return(nil, restapi.ErrUnauthorized)
	reached := false

	req := httptest.NewRequest(http.MethodGet, "/agreements", nil)
	req.AddCookie(loggedInCookie(t, mgr, "expired"))

	rr := httptest.NewRecorder()
	protected(mgr, authenticator, &reached).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.False(t, reached)
}

func TestLoadSession_SessionAvailableToHandlers(t *testing.T) {
	mgr := newManager()
	authenticator := new(MockAuthenticator)

	var sess *session.Session
	handler := LoadSession(slog.Default(), mgr, authenticator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess = session.FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))

	require.NotNil(t, sess)
	assert.False(t, sess.Loading())
	assert.False(t, sess.Authenticated())
}
