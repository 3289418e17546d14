package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hauwenw/ping-parking/internal/storage"
)

// ListCustomers matches search against name or phone on the server.
func (c *Client) ListCustomers(ctx context.Context, search string) ([]storage.Customer, error) {
	const op = "storage.restapi.ListCustomers"

	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var customers []storage.Customer
	if err := c.Get(ctx, withQuery(v1("/customers"), query), &customers); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return customers, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*storage.Customer, error) {
	const op = "storage.restapi.GetCustomer"

	var customer storage.Customer
	if err := c.Get(ctx, v1("/customers/%s", url.PathEscape(id)), &customer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in storage.CustomerInput) (*storage.Customer, error) {
	const op = "storage.restapi.CreateCustomer"

	var customer storage.Customer
	if err := c.Post(ctx, v1("/customers"), in, &customer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &customer, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in storage.CustomerInput) (*storage.Customer, error) {
	const op = "storage.restapi.UpdateCustomer"

	var customer storage.Customer
	if err := c.Put(ctx, v1("/customers/%s", url.PathEscape(id)), in, &customer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	const op = "storage.restapi.DeleteCustomer"

	if err := c.Delete(ctx, v1("/customers/%s", url.PathEscape(id))); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
