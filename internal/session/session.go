package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

type Authenticator interface {
	Login(ctx context.Context, req storage.LoginRequest) (*storage.LoginResponse, error)
	Me(ctx context.Context) (*storage.UserInfo, error)
	Logout(ctx context.Context) error
}

// Session is the operator's authentication state for a single request.
type Session struct {
	auth    Authenticator
	tokens  restapi.TokenStore
	user    *storage.UserInfo
	loading bool
	log     *slog.Logger
}

func New(auth Authenticator, tokens restapi.TokenStore, log *slog.Logger) *Session {
	return &Session{auth: auth, tokens: tokens, loading: true, log: log}
}

func (s *Session) User() *storage.UserInfo { return s.user }

func (s *Session) Loading() bool { return s.loading }

func (s *Session) Authenticated() bool { return s.user != nil }

func (s *Session) withTokens(ctx context.Context) context.Context {
	return restapi.ContextWithTokens(ctx, s.tokens)
}

// Init resolves the current user from a stored token. A token the server
// rejects is dropped and the session stays anonymous.
func (s *Session) Init(ctx context.Context) error {
	const op = "session.Init"

	defer func() { s.loading = false }()

	token, err := s.tokens.LoadToken()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if token == "" {
		return nil
	}

	user, err := s.auth.Me(s.withTokens(ctx))
	if err != nil {
		s.user = nil
		if errors.Is(err, restapi.ErrUnauthorized) {
			return nil
		}
		if clearErr := s.tokens.ClearToken(); clearErr != nil {
			return fmt.Errorf("%s: %w", op, clearErr)
		}
		return nil
	}

	s.user = user
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string, remember bool) error {
	const op = "session.Login"

	resp, err := s.auth.Login(ctx, storage.LoginRequest{Email: email, Password: password, RememberMe: remember})
	if err != nil {
		return err
	}

	if err := s.tokens.SaveToken(resp.AccessToken, remember); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.auth.Me(s.withTokens(ctx))
	if err != nil {
		if clearErr := s.tokens.ClearToken(); clearErr != nil {
			s.log.Warn("failed to clear token after user lookup failed",
				slog.String("op", op), slog.String("error", clearErr.Error()))
		}
		return err
	}

	s.user = user
	return nil
}

// Logout notifies the server and clears the token even if the notification fails.
func (s *Session) Logout(ctx context.Context) error {
	const op = "session.Logout"

	notifyErr := s.auth.Logout(s.withTokens(ctx))
	s.user = nil

	if err := s.tokens.ClearToken(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if notifyErr != nil && !errors.Is(notifyErr, restapi.ErrUnauthorized) {
		return fmt.Errorf("%s: notify: %w", op, notifyErr)
	}

	return nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns nil outside LoadSession.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
