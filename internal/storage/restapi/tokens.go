package restapi

import (
	"context"
	"sync"
)

// TokenStore persists the operator's bearer token.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string, remember bool) error
	ClearToken() error
}

type tokensKey struct{}

// ContextWithTokens attaches the request's token store to ctx.
func ContextWithTokens(ctx context.Context, tokens TokenStore) context.Context {
	return context.WithValue(ctx, tokensKey{}, tokens)
}

func TokensFromContext(ctx context.Context) TokenStore {
	tokens, _ := ctx.Value(tokensKey{}).(TokenStore)
	return tokens
}

// CachedTokens is a read-through cache in front of a durable store. It is safe
// for the concurrent fetches of a single page load.
type CachedTokens struct {
	mu     sync.Mutex
	store  TokenStore
	token  string
	loaded bool
}

func NewCachedTokens(store TokenStore) *CachedTokens {
	return &CachedTokens{store: store}
}

func (c *CachedTokens) LoadToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.token, nil
	}

	token, err := c.store.LoadToken()
	if err != nil {
		return "", err
	}
	c.token, c.loaded = token, true

	return token, nil
}

func (c *CachedTokens) SaveToken(token string, remember bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SaveToken(token, remember); err != nil {
		return err
	}
	c.token, c.loaded = token, true

	return nil
}

func (c *CachedTokens) ClearToken() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// an already-cleared cache means a concurrent 401 got here first
	if c.loaded && c.token == "" {
		return nil
	}
	if err := c.store.ClearToken(); err != nil {
		return err
	}
	c.token, c.loaded = "", true

	return nil
}
