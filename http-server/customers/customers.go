package customers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hauwenw/ping-parking/internal/service"
	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

const (
	listPath        = "/customers"
	msgNotFound     = "找不到客戶"
	confirmedDelete = "yes"
)

type CustomerProvider interface {
	ListCustomers(ctx context.Context, search string) ([]storage.Customer, error)
	GetCustomer(ctx context.Context, id string) (*storage.Customer, error)
}

type CustomerDetailLoader interface {
	CustomerDetail(ctx context.Context, id string) (*service.CustomerDetail, error)
}

type CustomerCreator interface {
	CreateCustomer(ctx context.Context, in storage.CustomerInput) (*storage.Customer, error)
}

type CustomerUpdater interface {
	UpdateCustomer(ctx context.Context, id string, in storage.CustomerInput) (*storage.Customer, error)
}

type CustomerDeleter interface {
	DeleteCustomer(ctx context.Context, id string) error
}

type ListView struct {
	Customers []storage.Customer
	Search    string
}

func GetCustomers(log *slog.Logger, rs *web.Responder, provider CustomerProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.GetCustomers"

		search := r.URL.Query().Get("search")
		customers, err := provider.ListCustomers(r.Context(), search)
		if err != nil {
			rs.LoadFailed(w, r, op, err)
			return
		}

		rs.HTML(w, r, http.StatusOK, "customers", "客戶管理", ListView{Customers: customers, Search: search})
	}
}

func GetCustomer(log *slog.Logger, rs *web.Responder, loader CustomerDetailLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.GetCustomer"

		detail, err := loader.CustomerDetail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			rs.FailNotFound(w, r, op, err, listPath, msgNotFound)
			return
		}

		rs.HTML(w, r, http.StatusOK, "customer_detail", detail.Customer.Name, detail)
	}
}

func SaveCustomer(log *slog.Logger, rs *web.Responder, creator CustomerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.SaveCustomer"

		in := customerInput(r)
		if err := rs.Validate(in); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		customer, err := creator.CreateCustomer(r.Context(), in)
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("customer created", slog.String("op", op), slog.String("id", customer.ID))
		rs.Success(w, r, "客戶已新增", detailPath(customer.ID))
	}
}

func UpdateCustomer(log *slog.Logger, rs *web.Responder, updater CustomerUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.UpdateCustomer"

		id := chi.URLParam(r, "id")
		back := detailPath(id)

		in := customerInput(r)
		if err := rs.Validate(in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		if _, err := updater.UpdateCustomer(r.Context(), id, in); err != nil {
			rs.Fail(w, r, op, err, back)
			return
		}

		log.Info("customer updated", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "客戶已更新", back)
	}
}

// ConfirmDelete renders the confirmation step; nothing is deleted on GET.
func ConfirmDelete(log *slog.Logger, rs *web.Responder, provider CustomerProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.ConfirmDelete"

		customer, err := provider.GetCustomer(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			rs.FailNotFound(w, r, op, err, listPath, msgNotFound)
			return
		}

		rs.HTML(w, r, http.StatusOK, "customer_delete", "刪除客戶", customer)
	}
}

func DeleteCustomer(log *slog.Logger, rs *web.Responder, deleter CustomerDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.DeleteCustomer"

		id := chi.URLParam(r, "id")
		if web.FormString(r, "confirm") != confirmedDelete {
			rs.Flash(w, r, session.FlashInfo, "已取消刪除")
			rs.Redirect(w, r, detailPath(id))
			return
		}

		if err := deleter.DeleteCustomer(r.Context(), id); err != nil {
			rs.Fail(w, r, op, err, detailPath(id))
			return
		}

		log.Info("customer deleted", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "客戶已刪除", listPath)
	}
}

func detailPath(id string) string {
	return listPath + "/" + url.PathEscape(id)
}

func customerInput(r *http.Request) storage.CustomerInput {
	return storage.CustomerInput{
		Name:         web.FormString(r, "name"),
		Phone:        web.FormString(r, "phone"),
		ContactPhone: web.OptString(r, "contact_phone"),
		Email:        web.OptString(r, "email"),
		Notes:        web.OptString(r, "notes"),
	}
}
