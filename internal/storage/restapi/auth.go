package restapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hauwenw/ping-parking/internal/storage"
)

// Login is sent without a bearer header; a 401 here is a credential error
// returned as *Error rather than ErrUnauthorized.
func (c *Client) Login(ctx context.Context, req storage.LoginRequest) (*storage.LoginResponse, error) {
	const op = "storage.restapi.Login"

	var resp storage.LoginResponse
	if err := c.do(ctx, http.MethodPost, v1("/auth/login"), req, &resp, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*storage.UserInfo, error) {
	const op = "storage.restapi.Me"

	var user storage.UserInfo
	if err := c.Get(ctx, v1("/auth/me"), &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	const op = "storage.restapi.Logout"

	if err := c.Post(ctx, v1("/auth/logout"), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
