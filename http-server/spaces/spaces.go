package spaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hauwenw/ping-parking/internal/service"
	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

const listPath = "/spaces"

type SpacesPageLoader interface {
	SpacesPage(ctx context.Context, filter storage.SpaceFilter) (*service.SpacesPage, error)
}

type SpaceCreator interface {
	CreateSpace(ctx context.Context, in storage.SpaceInput) (*storage.Space, error)
	BatchCreateSpaces(ctx context.Context, in storage.SpaceBatchInput) ([]storage.Space, error)
}

type SpaceUpdater interface {
	UpdateSpace(ctx context.Context, id string, in storage.SpaceUpdate) (*storage.Space, error)
}

type SpaceDeleter interface {
	DeleteSpace(ctx context.Context, id string) error
}

type ActiveAgreementFinder interface {
	ActiveAgreementForSpace(ctx context.Context, spaceID string) (*storage.Agreement, error)
}

type SpacesView struct {
	*service.SpacesPage
	Filter storage.SpaceFilter
}

func GetSpaces(log *slog.Logger, rs *web.Responder, loader SpacesPageLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spaces.GetSpaces"

		q := r.URL.Query()
		filter := storage.SpaceFilter{
			SiteID: q.Get("site_id"),
			Status: q.Get("status"),
			Tag:    q.Get("tag"),
		}

		page, err := loader.SpacesPage(r.Context(), filter)
		if err != nil {
			rs.LoadFailed(w, r, op, err)
			return
		}

		rs.HTML(w, r, http.StatusOK, "spaces", "車位管理", SpacesView{SpacesPage: page, Filter: filter})
	}
}

func SaveSpace(log *slog.Logger, rs *web.Responder, creator SpaceCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spaces.SaveSpace"

		customPrice, err := web.OptInt64(r, "custom_price")
		in := storage.SpaceInput{
			SiteID:      web.FormString(r, "site_id"),
			Name:        web.FormString(r, "name"),
			Tags:        web.FormList(r, "tags"),
			CustomPrice: customPrice,
		}
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		space, err := creator.CreateSpace(r.Context(), in)
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("space created", slog.String("op", op), slog.String("id", space.ID), slog.String("site_id", in.SiteID))
		rs.Success(w, r, "車位已新增", listPath)
	}
}

func BatchSpaces(log *slog.Logger, rs *web.Responder, creator SpaceCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spaces.BatchSpaces"

		in, err := batchInput(r)
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		created, err := creator.BatchCreateSpaces(r.Context(), in)
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("spaces created in batch", slog.String("op", op), slog.String("site_id", in.SiteID), slog.Int("count", len(created)))
		rs.Success(w, r, fmt.Sprintf("已新增 %d 個車位", len(created)), listPath)
	}
}

func UpdateSpace(log *slog.Logger, rs *web.Responder, updater SpaceUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spaces.UpdateSpace"

		id := chi.URLParam(r, "id")

		customPrice, err := web.OptInt64(r, "custom_price")
		in := storage.SpaceUpdate{
			Name:        web.OptString(r, "name"),
			Tags:        web.FormList(r, "tags"),
			CustomPrice: customPrice,
		}
		if status := storage.SpaceStatus(web.FormString(r, "status")); status != "" {
			if !status.Valid() {
				err = &web.ValidationError{Field: "status", Message: "車位狀態無效"}
			}
			in.Status = &status
		}
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		if _, err := updater.UpdateSpace(r.Context(), id, in); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("space updated", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "車位已更新", listPath)
	}
}

func DeleteSpace(log *slog.Logger, rs *web.Responder, deleter SpaceDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spaces.DeleteSpace"

		id := chi.URLParam(r, "id")
		if err := deleter.DeleteSpace(r.Context(), id); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("space deleted", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "車位已刪除", listPath)
	}
}

// NewAgreementForSpace deep-links into the agreement form with the space preselected.
func NewAgreementForSpace(rs *web.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs.Redirect(w, r, "/agreements/new?space_id="+url.QueryEscape(chi.URLParam(r, "id")))
	}
}

// ActiveAgreement deep-links into the running agreement of a space.
func ActiveAgreement(log *slog.Logger, rs *web.Responder, finder ActiveAgreementFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spaces.ActiveAgreement"

		agreement, err := finder.ActiveAgreementForSpace(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, service.ErrNoActiveAgreement) {
				rs.Flash(w, r, session.FlashInfo, "此車位目前沒有進行中的合約")
				rs.Redirect(w, r, listPath)
				return
			}
			rs.Fail(w, r, op, err, listPath)
			return
		}

		rs.Redirect(w, r, "/agreements/"+url.PathEscape(agreement.ID))
	}
}

func batchInput(r *http.Request) (storage.SpaceBatchInput, error) {
	start, err := web.FormInt(r, "start")
	if err != nil {
		return storage.SpaceBatchInput{}, err
	}
	count, err := web.FormInt(r, "count")
	if err != nil {
		return storage.SpaceBatchInput{}, err
	}

	return storage.SpaceBatchInput{
		SiteID: web.FormString(r, "site_id"),
		Prefix: web.FormString(r, "prefix"),
		Start:  start,
		Count:  count,
		Tags:   web.FormList(r, "tags"),
	}, nil
}
