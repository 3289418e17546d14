package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

// ErrNoActiveAgreement means the space has no running agreement.
var ErrNoActiveAgreement = errors.New("no active agreement for space")

type PageStorage interface {
	ListSites(ctx context.Context) ([]storage.Site, error)
	ListTags(ctx context.Context) ([]storage.Tag, error)
	ListSpaces(ctx context.Context, filter storage.SpaceFilter) ([]storage.Space, error)
	GetSpace(ctx context.Context, id string) (*storage.Space, error)
	ListCustomers(ctx context.Context, search string) ([]storage.Customer, error)
	GetCustomer(ctx context.Context, id string) (*storage.Customer, error)
	ListAgreements(ctx context.Context, filter storage.AgreementFilter) ([]storage.Agreement, error)
	GetAgreement(ctx context.Context, id string) (*storage.Agreement, error)
	AgreementSummary(ctx context.Context) (*storage.AgreementSummary, error)
	AgreementPayment(ctx context.Context, agreementID string) (*storage.Payment, error)
}

// PageService joins the independent fetches a page needs before it renders.
// Any failed fetch fails the whole load unless noted otherwise.
type PageService struct {
	storage PageStorage
}

func NewPageService(storage PageStorage) *PageService {
	return &PageService{storage: storage}
}

type SpacesPage struct {
	Spaces []storage.Space
	Sites  []storage.Site
	Tags   []storage.Tag
}

func (s *PageService) SpacesPage(ctx context.Context, filter storage.SpaceFilter) (*SpacesPage, error) {
	const op = "service.pages.SpacesPage"

	var page SpacesPage
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Spaces, err = s.storage.ListSpaces(gCtx, filter)
		if err != nil {
			return fmt.Errorf("spaces: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		page.Sites, err = s.storage.ListSites(gCtx)
		if err != nil {
			return fmt.Errorf("sites: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		page.Tags, err = s.storage.ListTags(gCtx)
		if err != nil {
			return fmt.Errorf("tags: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &page, nil
}

type AgreementsPage struct {
	Agreements []storage.Agreement
	Customers  []storage.Customer
	Spaces     []storage.Space
	Summary    *storage.AgreementSummary
}

func (s *PageService) AgreementsPage(ctx context.Context) (*AgreementsPage, error) {
	const op = "service.pages.AgreementsPage"

	var page AgreementsPage
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Agreements, err = s.storage.ListAgreements(gCtx, storage.AgreementFilter{})
		if err != nil {
			return fmt.Errorf("agreements: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		page.Customers, err = s.storage.ListCustomers(gCtx, "")
		if err != nil {
			return fmt.Errorf("customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		page.Spaces, err = s.storage.ListSpaces(gCtx, storage.SpaceFilter{})
		if err != nil {
			return fmt.Errorf("spaces: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		page.Summary, err = s.storage.AgreementSummary(gCtx)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &page, nil
}

type AgreementForm struct {
	Customers []storage.Customer
	Spaces    []storage.Space
	// Selected is the space the form was opened for, if any.
	Selected *storage.Space
}

// AgreementForm loads the create form. Only available spaces are offered, plus
// the preselected one whatever its status.
func (s *PageService) AgreementForm(ctx context.Context, spaceID string) (*AgreementForm, error) {
	const op = "service.pages.AgreementForm"

	var form AgreementForm
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		form.Customers, err = s.storage.ListCustomers(gCtx, "")
		if err != nil {
			return fmt.Errorf("customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		form.Spaces, err = s.storage.ListSpaces(gCtx, storage.SpaceFilter{Status: string(storage.SpaceAvailable)})
		if err != nil {
			return fmt.Errorf("spaces: %w", err)
		}
		return nil
	})
	if spaceID != "" {
		g.Go(func() error {
			var err error
			form.Selected, err = s.storage.GetSpace(gCtx, spaceID)
			if err != nil {
				return fmt.Errorf("space %s: %w", spaceID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if form.Selected != nil && !containsSpace(form.Spaces, form.Selected.ID) {
		form.Spaces = append([]storage.Space{*form.Selected}, form.Spaces...)
	}

	return &form, nil
}

func containsSpace(spaces []storage.Space, id string) bool {
	for _, sp := range spaces {
		if sp.ID == id {
			return true
		}
	}
	return false
}

type AgreementDetail struct {
	Agreement *storage.Agreement
	// Payment is nil when the agreement has no payment record yet.
	Payment *storage.Payment
}

// AgreementDetail treats a 404 on the payment as absence. Every other payment
// error fails the load like any other fetch.
func (s *PageService) AgreementDetail(ctx context.Context, id string) (*AgreementDetail, error) {
	const op = "service.pages.AgreementDetail"

	var detail AgreementDetail
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Agreement, err = s.storage.GetAgreement(gCtx, id)
		if err != nil {
			return fmt.Errorf("agreement: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		payment, err := s.storage.AgreementPayment(gCtx, id)
		if err != nil {
			if restapi.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("payment: %w", err)
		}
		detail.Payment = payment
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &detail, nil
}

type CustomerDetail struct {
	Customer   *storage.Customer
	Agreements []storage.Agreement
}

func (s *PageService) CustomerDetail(ctx context.Context, id string) (*CustomerDetail, error) {
	const op = "service.pages.CustomerDetail"

	var detail CustomerDetail
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Customer, err = s.storage.GetCustomer(gCtx, id)
		if err != nil {
			return fmt.Errorf("customer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		detail.Agreements, err = s.storage.ListAgreements(gCtx, storage.AgreementFilter{CustomerID: id})
		if err != nil {
			return fmt.Errorf("agreements: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &detail, nil
}

func (s *PageService) ActiveAgreementForSpace(ctx context.Context, spaceID string) (*storage.Agreement, error) {
	const op = "service.pages.ActiveAgreementForSpace"

	agreements, err := s.storage.ListAgreements(ctx, storage.AgreementFilter{SpaceID: spaceID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range agreements {
		if agreements[i].Active() {
			return &agreements[i], nil
		}
	}

	return nil, ErrNoActiveAgreement
}
