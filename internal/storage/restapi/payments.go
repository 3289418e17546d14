package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hauwenw/ping-parking/internal/storage"
)

func (c *Client) GetPayment(ctx context.Context, id string) (*storage.Payment, error) {
	const op = "storage.restapi.GetPayment"

	var payment storage.Payment
	if err := c.Get(ctx, v1("/payments/%s", url.PathEscape(id)), &payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payment, nil
}

// CompletePayment is the pending → completed action, distinct from UpdatePayment.
func (c *Client) CompletePayment(ctx context.Context, id string, in storage.PaymentComplete) (*storage.Payment, error) {
	const op = "storage.restapi.CompletePayment"

	var payment storage.Payment
	if err := c.Post(ctx, v1("/payments/%s/complete", url.PathEscape(id)), in, &payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payment, nil
}

func (c *Client) UpdatePayment(ctx context.Context, id string, in storage.PaymentUpdate) (*storage.Payment, error) {
	const op = "storage.restapi.UpdatePayment"

	var payment storage.Payment
	if err := c.Put(ctx, v1("/payments/%s", url.PathEscape(id)), in, &payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payment, nil
}
