package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hauwenw/ping-parking/internal/storage"
)

func (c *Client) ListSites(ctx context.Context) ([]storage.Site, error) {
	const op = "storage.restapi.ListSites"

	var sites []storage.Site
	if err := c.Get(ctx, v1("/sites"), &sites); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sites, nil
}

func (c *Client) CreateSite(ctx context.Context, in storage.SiteInput) (*storage.Site, error) {
	const op = "storage.restapi.CreateSite"

	var site storage.Site
	if err := c.Post(ctx, v1("/sites"), in, &site); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &site, nil
}

func (c *Client) UpdateSite(ctx context.Context, id string, in storage.SiteInput) (*storage.Site, error) {
	const op = "storage.restapi.UpdateSite"

	var site storage.Site
	if err := c.Put(ctx, v1("/sites/%s", url.PathEscape(id)), in, &site); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &site, nil
}

func (c *Client) DeleteSite(ctx context.Context, id string) error {
	const op = "storage.restapi.DeleteSite"

	if err := c.Delete(ctx, v1("/sites/%s", url.PathEscape(id))); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) ListTags(ctx context.Context) ([]storage.Tag, error) {
	const op = "storage.restapi.ListTags"

	var tags []storage.Tag
	if err := c.Get(ctx, v1("/tags"), &tags); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}

func (c *Client) CreateTag(ctx context.Context, in storage.TagInput) (*storage.Tag, error) {
	const op = "storage.restapi.CreateTag"

	var tag storage.Tag
	if err := c.Post(ctx, v1("/tags"), in, &tag); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tag, nil
}

func (c *Client) UpdateTag(ctx context.Context, id string, in storage.TagInput) (*storage.Tag, error) {
	const op = "storage.restapi.UpdateTag"

	var tag storage.Tag
	if err := c.Put(ctx, v1("/tags/%s", url.PathEscape(id)), in, &tag); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	const op = "storage.restapi.DeleteTag"

	if err := c.Delete(ctx, v1("/tags/%s", url.PathEscape(id))); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
