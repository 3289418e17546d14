package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hauwenw/ping-parking/internal/storage"
)

// ListSpaces filters server-side; empty filter fields are omitted.
func (c *Client) ListSpaces(ctx context.Context, filter storage.SpaceFilter) ([]storage.Space, error) {
	const op = "storage.restapi.ListSpaces"

	query := url.Values{}
	if filter.SiteID != "" {
		query.Set("site_id", filter.SiteID)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Tag != "" {
		query.Set("tag", filter.Tag)
	}

	var spaces []storage.Space
	if err := c.Get(ctx, withQuery(v1("/spaces"), query), &spaces); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return spaces, nil
}

func (c *Client) GetSpace(ctx context.Context, id string) (*storage.Space, error) {
	const op = "storage.restapi.GetSpace"

	var space storage.Space
	if err := c.Get(ctx, v1("/spaces/%s", url.PathEscape(id)), &space); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &space, nil
}

func (c *Client) CreateSpace(ctx context.Context, in storage.SpaceInput) (*storage.Space, error) {
	const op = "storage.restapi.CreateSpace"

	var space storage.Space
	if err := c.Post(ctx, v1("/spaces"), in, &space); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &space, nil
}

func (c *Client) BatchCreateSpaces(ctx context.Context, in storage.SpaceBatchInput) ([]storage.Space, error) {
	const op = "storage.restapi.BatchCreateSpaces"

	var spaces []storage.Space
	if err := c.Post(ctx, v1("/spaces/batch"), in, &spaces); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return spaces, nil
}

func (c *Client) UpdateSpace(ctx context.Context, id string, in storage.SpaceUpdate) (*storage.Space, error) {
	const op = "storage.restapi.UpdateSpace"

	var space storage.Space
	if err := c.Put(ctx, v1("/spaces/%s", url.PathEscape(id)), in, &space); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &space, nil
}

func (c *Client) DeleteSpace(ctx context.Context, id string) error {
	const op = "storage.restapi.DeleteSpace"

	if err := c.Delete(ctx, v1("/spaces/%s", url.PathEscape(id))); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
