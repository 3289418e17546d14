package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hauwenw/ping-parking/internal/storage"
)

func (c *Client) ListAgreements(ctx context.Context, filter storage.AgreementFilter) ([]storage.Agreement, error) {
	const op = "storage.restapi.ListAgreements"

	query := url.Values{}
	if filter.CustomerID != "" {
		query.Set("customer_id", filter.CustomerID)
	}
	if filter.SpaceID != "" {
		query.Set("space_id", filter.SpaceID)
	}
	if filter.ActiveOnly {
		query.Set("active_only", "true")
	}

	var agreements []storage.Agreement
	if err := c.Get(ctx, withQuery(v1("/agreements"), query), &agreements); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return agreements, nil
}

func (c *Client) GetAgreement(ctx context.Context, id string) (*storage.Agreement, error) {
	const op = "storage.restapi.GetAgreement"

	var agreement storage.Agreement
	if err := c.Get(ctx, v1("/agreements/%s", url.PathEscape(id)), &agreement); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &agreement, nil
}

func (c *Client) AgreementSummary(ctx context.Context) (*storage.AgreementSummary, error) {
	const op = "storage.restapi.AgreementSummary"

	var summary storage.AgreementSummary
	if err := c.Get(ctx, v1("/agreements/summary"), &summary); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &summary, nil
}

func (c *Client) CreateAgreement(ctx context.Context, in storage.AgreementInput) (*storage.Agreement, error) {
	const op = "storage.restapi.CreateAgreement"

	var agreement storage.Agreement
	if err := c.Post(ctx, v1("/agreements"), in, &agreement); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &agreement, nil
}

func (c *Client) TerminateAgreement(ctx context.Context, id string, in storage.TerminateInput) (*storage.Agreement, error) {
	const op = "storage.restapi.TerminateAgreement"

	var agreement storage.Agreement
	if err := c.Post(ctx, v1("/agreements/%s/terminate", url.PathEscape(id)), in, &agreement); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &agreement, nil
}

// AgreementPayment returns the payment attached to an agreement; a 404 means
// none exists yet.
func (c *Client) AgreementPayment(ctx context.Context, agreementID string) (*storage.Payment, error) {
	const op = "storage.restapi.AgreementPayment"

	var payment storage.Payment
	if err := c.Get(ctx, v1("/agreements/%s/payment", url.PathEscape(agreementID)), &payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payment, nil
}
