package agreements

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hauwenw/ping-parking/internal/pricing"
	"github.com/hauwenw/ping-parking/internal/service"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

const (
	listPath    = "/agreements"
	msgNotFound = "找不到合約"
)

type AgreementPages interface {
	AgreementsPage(ctx context.Context) (*service.AgreementsPage, error)
	AgreementForm(ctx context.Context, spaceID string) (*service.AgreementForm, error)
	AgreementDetail(ctx context.Context, id string) (*service.AgreementDetail, error)
}

type AgreementCreator interface {
	CreateAgreement(ctx context.Context, in storage.AgreementInput) (*storage.Agreement, error)
}

type AgreementTerminator interface {
	TerminateAgreement(ctx context.Context, id string, in storage.TerminateInput) (*storage.Agreement, error)
}

func GetAgreements(log *slog.Logger, rs *web.Responder, pages AgreementPages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.agreements.GetAgreements"

		page, err := pages.AgreementsPage(r.Context())
		if err != nil {
			rs.LoadFailed(w, r, op, err)
			return
		}

		rs.HTML(w, r, http.StatusOK, "agreements", "合約管理", page)
	}
}

type FormView struct {
	*service.AgreementForm
	SpaceID       string
	CustomerID    string
	AgreementType storage.RentalType
	// ProposedPrice is nil when the selected space has no matching price.
	ProposedPrice *int64
}

// NewAgreement renders the create form with a proposed price for the
// preselected space and rental type.
func NewAgreement(log *slog.Logger, rs *web.Responder, pages AgreementPages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.agreements.NewAgreement"

		q := r.URL.Query()
		rental := storage.RentalType(q.Get("agreement_type"))
		if !rental.Valid() {
			rental = storage.RentalMonthly
		}

		form, err := pages.AgreementForm(r.Context(), q.Get("space_id"))
		if err != nil {
			rs.FailNotFound(w, r, op, err, listPath, "找不到車位")
			return
		}

		view := FormView{
			AgreementForm: form,
			SpaceID:       q.Get("space_id"),
			CustomerID:    q.Get("customer_id"),
			AgreementType: rental,
		}
		if form.Selected != nil {
			if price, ok := pricing.ProposePrice(*form.Selected, rental); ok {
				view.ProposedPrice = &price
			}
		}

		rs.HTML(w, r, http.StatusOK, "agreement_new", "新增合約", view)
	}
}

func SaveAgreement(log *slog.Logger, rs *web.Responder, creator AgreementCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.agreements.SaveAgreement"

		in, err := agreementInput(r)
		back := "/agreements/new?space_id=" + url.QueryEscape(in.SpaceID)
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		agreement, err := creator.CreateAgreement(r.Context(), in)
		if err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		log.Info("agreement created",
			slog.String("op", op),
			slog.String("id", agreement.ID),
			slog.String("space_id", in.SpaceID),
			slog.String("customer_id", in.CustomerID),
		)
		rs.Success(w, r, "合約已建立", detailPath(agreement.ID))
	}
}

func GetAgreement(log *slog.Logger, rs *web.Responder, pages AgreementPages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.agreements.GetAgreement"

		detail, err := pages.AgreementDetail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			rs.FailNotFound(w, r, op, err, listPath, msgNotFound)
			return
		}

		rs.HTML(w, r, http.StatusOK, "agreement_detail", "合約詳情", detail)
	}
}

func TerminateAgreement(log *slog.Logger, rs *web.Responder, terminator AgreementTerminator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.agreements.TerminateAgreement"

		id := chi.URLParam(r, "id")
		back := detailPath(id)

		in := storage.TerminateInput{TerminationReason: web.FormString(r, "termination_reason")}
		if err := rs.Validate(in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		if _, err := terminator.TerminateAgreement(r.Context(), id, in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		log.Info("agreement terminated", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "合約已終止", back)
	}
}

func detailPath(id string) string {
	return listPath + "/" + url.PathEscape(id)
}

func agreementInput(r *http.Request) (storage.AgreementInput, error) {
	in := storage.AgreementInput{
		CustomerID:    web.FormString(r, "customer_id"),
		SpaceID:       web.FormString(r, "space_id"),
		AgreementType: storage.RentalType(web.FormString(r, "agreement_type")),
		StartDate:     web.FormString(r, "start_date"),
		LicensePlates: web.FormString(r, "license_plates"),
		Notes:         web.OptString(r, "notes"),
	}

	if web.FormString(r, "price") == "" {
		return in, &web.ValidationError{Field: "price", Message: "價格為必填"}
	}
	price, err := web.FormInt64(r, "price")
	if err != nil {
		return in, err
	}
	in.Price = price

	return in, nil
}
