package sites

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

const listPath = "/sites"

type SiteProvider interface {
	ListSites(ctx context.Context) ([]storage.Site, error)
}

type SiteCreator interface {
	CreateSite(ctx context.Context, in storage.SiteInput) (*storage.Site, error)
}

type SiteUpdater interface {
	UpdateSite(ctx context.Context, id string, in storage.SiteInput) (*storage.Site, error)
}

type SiteDeleter interface {
	DeleteSite(ctx context.Context, id string) error
}

func GetSites(log *slog.Logger, rs *web.Responder, provider SiteProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sites.GetSites"

		sites, err := provider.ListSites(r.Context())
		if err != nil {
			rs.LoadFailed(w, r, op, err)
			return
		}

		rs.HTML(w, r, http.StatusOK, "sites", "停車場管理", sites)
	}
}

func SaveSite(log *slog.Logger, rs *web.Responder, creator SiteCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sites.SaveSite"

		in, err := siteInput(r)
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		site, err := creator.CreateSite(r.Context(), in)
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("site created", slog.String("op", op), slog.String("id", site.ID))
		rs.Success(w, r, "停車場已新增", listPath)
	}
}

func UpdateSite(log *slog.Logger, rs *web.Responder, updater SiteUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sites.UpdateSite"

		id := chi.URLParam(r, "id")

		in, err := siteInput(r)
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		if _, err := updater.UpdateSite(r.Context(), id, in); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("site updated", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "停車場已更新", listPath)
	}
}

func DeleteSite(log *slog.Logger, rs *web.Responder, deleter SiteDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sites.DeleteSite"

		id := chi.URLParam(r, "id")
		if err := deleter.DeleteSite(r.Context(), id); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("site deleted", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "停車場已刪除", listPath)
	}
}

func siteInput(r *http.Request) (storage.SiteInput, error) {
	monthly, err := web.FormInt64(r, "monthly_base_price")
	if err != nil {
		return storage.SiteInput{}, err
	}
	daily, err := web.FormInt64(r, "daily_base_price")
	if err != nil {
		return storage.SiteInput{}, err
	}

	return storage.SiteInput{
		Name:             web.FormString(r, "name"),
		Address:          web.OptString(r, "address"),
		Description:      web.OptString(r, "description"),
		MonthlyBasePrice: monthly,
		DailyBasePrice:   daily,
	}, nil
}
