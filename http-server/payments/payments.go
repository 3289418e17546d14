package payments

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

type PaymentCompleter interface {
	CompletePayment(ctx context.Context, id string, in storage.PaymentComplete) (*storage.Payment, error)
}

type PaymentUpdater interface {
	UpdatePayment(ctx context.Context, id string, in storage.PaymentUpdate) (*storage.Payment, error)
}

// CompletePayment records a bank transfer against a pending payment. The form
// posts the owning agreement so both outcomes land back on its detail page.
func CompletePayment(log *slog.Logger, rs *web.Responder, completer PaymentCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payments.CompletePayment"

		id := chi.URLParam(r, "id")
		back := agreementPath(r)

		in := storage.PaymentComplete{
			PaymentDate:   web.FormString(r, "payment_date"),
			BankReference: web.FormString(r, "bank_reference"),
			Notes:         web.OptString(r, "notes"),
		}
		if err := rs.Validate(in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		payment, err := completer.CompletePayment(r.Context(), id, in)
		if err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		log.Info("payment completed",
			slog.String("op", op),
			slog.String("id", id),
			slog.Int64("amount", payment.Amount),
			slog.String("bank_reference", in.BankReference),
		)
		rs.Success(w, r, "已記錄付款", back)
	}
}

func UpdatePayment(log *slog.Logger, rs *web.Responder, updater PaymentUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payments.UpdatePayment"

		id := chi.URLParam(r, "id")
		back := agreementPath(r)

		in := storage.PaymentUpdate{
			BankReference: web.OptString(r, "bank_reference"),
			Notes:         web.OptString(r, "notes"),
			PaymentDate:   web.OptString(r, "payment_date"),
			DueDate:       web.OptString(r, "due_date"),
		}
		if err := rs.Validate(in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		if _, err := updater.UpdatePayment(r.Context(), id, in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		log.Info("payment updated", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "付款資料已更新", back)
	}
}

func agreementPath(r *http.Request) string {
	id := web.FormString(r, "agreement_id")
	if id == "" {
		return "/agreements"
	}
	return "/agreements/" + url.PathEscape(id)
}
