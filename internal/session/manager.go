package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/hauwenw/ping-parking/internal/storage"
)

const (
	valueToken    = "token"
	valueTokenKey = "token_key"
	valueMaxAge   = "max_age"
	valueCSRF     = "csrf"
)

// Tokens is a server-side token table keyed by an opaque id kept in the cookie.
type Tokens interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

func init() {
	gob.Register(Flash{})
}

type Options struct {
	Name        string
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

// Manager owns the session cookie. With a nil Tokens the bearer token lives in
// the (encrypted) cookie itself.
type Manager struct {
	store  sessions.Store
	tokens Tokens
	opts   Options
	log    *slog.Logger
}

func NewManager(store sessions.Store, tokens Tokens, opts Options, log *slog.Logger) *Manager {
	return &Manager{store: store, tokens: tokens, opts: opts, log: log}
}

// NewCookieStore derives signing and encryption keys from secret.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	hashKey := sha256.Sum256([]byte("hash:" + secret))
	blockKey := sha256.Sum256([]byte("block:" + secret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(0)

	return store
}

func (m *Manager) session(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, m.opts.Name)
	if err != nil {
		// tampered or rotated-secret cookies decode to a fresh session
		m.log.Debug("discarding undecodable session cookie", slog.String("error", err.Error()))
	}
	// Get returns the store's default options; keep the lifetime chosen at login
	if maxAge, ok := sess.Values[valueMaxAge].(int); ok {
		setMaxAge(sess, maxAge)
	}
	return sess
}

func setMaxAge(sess *sessions.Session, maxAge int) {
	var opts sessions.Options
	if sess.Options != nil {
		opts = *sess.Options
	}
	opts.MaxAge = maxAge
	sess.Options = &opts
}

// Bind returns the token store for one request/response pair.
func (m *Manager) Bind(w http.ResponseWriter, r *http.Request) *RequestTokens {
	return &RequestTokens{m: m, w: w, r: r, sess: m.session(r)}
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind FlashKind, message string) {
	sess := m.session(r)
	sess.AddFlash(Flash{Kind: kind, Message: message})
	if err := sess.Save(r, w); err != nil {
		m.log.Error("failed to save flash", slog.String("error", err.Error()))
	}
}

// Flashes pops pending notifications.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := m.session(r)
	flashes, popped := popFlashes(sess)
	if popped {
		if err := sess.Save(r, w); err != nil {
			m.log.Error("failed to save session after reading flashes", slog.String("error", err.Error()))
		}
	}
	return flashes
}

// PageState pops pending flashes and returns the session's CSRF token,
// minting one on first use. The cookie is saved at most once.
func (m *Manager) PageState(w http.ResponseWriter, r *http.Request) ([]Flash, string) {
	sess := m.session(r)
	flashes, dirty := popFlashes(sess)

	token, _ := sess.Values[valueCSRF].(string)
	if token == "" {
		var err error
		if token, err = newCSRFToken(); err != nil {
			m.log.Error("failed to mint csrf token", slog.String("error", err.Error()))
		} else {
			sess.Values[valueCSRF] = token
			dirty = true
		}
	}

	if dirty {
		if err := sess.Save(r, w); err != nil {
			m.log.Error("failed to save session for page", slog.String("error", err.Error()))
		}
	}

	return flashes, token
}

// CheckCSRF reports whether token is the one issued to this session.
func (m *Manager) CheckCSRF(r *http.Request, token string) bool {
	want, _ := m.session(r).Values[valueCSRF].(string)
	return want != "" && hmac.Equal([]byte(token), []byte(want))
}

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func popFlashes(sess *sessions.Session) ([]Flash, bool) {
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, false
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes, true
}

// RequestTokens implements restapi.TokenStore on top of the session cookie.
type RequestTokens struct {
	m    *Manager
	w    http.ResponseWriter
	r    *http.Request
	sess *sessions.Session
}

func (t *RequestTokens) LoadToken() (string, error) {
	const op = "session.LoadToken"

	if t.m.tokens == nil {
		token, _ := t.sess.Values[valueToken].(string)
		return token, nil
	}

	key, _ := t.sess.Values[valueTokenKey].(string)
	if key == "" {
		return "", nil
	}

	token, err := t.m.tokens.Get(t.r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func (t *RequestTokens) SaveToken(token string, remember bool) error {
	const op = "session.SaveToken"

	ttl := t.m.opts.SessionTTL
	if remember {
		ttl = t.m.opts.RememberTTL
	}

	if t.m.tokens == nil {
		t.sess.Values[valueToken] = token
	} else {
		if old, _ := t.sess.Values[valueTokenKey].(string); old != "" {
			if err := t.m.tokens.Delete(t.r.Context(), old); err != nil {
				t.m.log.Warn("failed to drop previous token", slog.String("op", op), slog.String("error", err.Error()))
			}
		}

		key := uuid.NewString()
		if err := t.m.tokens.Put(t.r.Context(), key, token, ttl); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		t.sess.Values[valueTokenKey] = key
	}

	// a new identity gets a new csrf token on its first page
	delete(t.sess.Values, valueCSRF)

	maxAge := int(ttl.Seconds())
	t.sess.Values[valueMaxAge] = maxAge
	setMaxAge(t.sess, maxAge)

	if err := t.sess.Save(t.r, t.w); err != nil {
		return fmt.Errorf("%s: save cookie: %w", op, err)
	}

	return nil
}

// ClearToken drops the token but keeps the cookie so pending flashes survive.
func (t *RequestTokens) ClearToken() error {
	const op = "session.ClearToken"

	if t.m.tokens != nil {
		if key, _ := t.sess.Values[valueTokenKey].(string); key != "" {
			if err := t.m.tokens.Delete(t.r.Context(), key); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	delete(t.sess.Values, valueToken)
	delete(t.sess.Values, valueTokenKey)
	delete(t.sess.Values, valueMaxAge)
	setMaxAge(t.sess, 0)

	if err := t.sess.Save(t.r, t.w); err != nil {
		return fmt.Errorf("%s: save cookie: %w", op, err)
	}

	return nil
}
