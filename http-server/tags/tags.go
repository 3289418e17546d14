package tags

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/web"
)

const listPath = "/tags"

type TagProvider interface {
	ListTags(ctx context.Context) ([]storage.Tag, error)
}

type TagCreator interface {
	CreateTag(ctx context.Context, in storage.TagInput) (*storage.Tag, error)
}

type TagUpdater interface {
	UpdateTag(ctx context.Context, id string, in storage.TagInput) (*storage.Tag, error)
}

type TagDeleter interface {
	DeleteTag(ctx context.Context, id string) error
}

func GetTags(log *slog.Logger, rs *web.Responder, provider TagProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tags.GetTags"

		tags, err := provider.ListTags(r.Context())
		if err != nil {
			rs.LoadFailed(w, r, op, err)
			return
		}

		rs.HTML(w, r, http.StatusOK, "tags", "標籤管理", tags)
	}
}

func SaveTag(log *slog.Logger, rs *web.Responder, creator TagCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tags.SaveTag"

		in, err := tagInput(r)
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		tag, err := creator.CreateTag(r.Context(), in)
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("tag created", slog.String("op", op), slog.String("id", tag.ID))
		rs.Success(w, r, "標籤已新增", listPath)
	}
}

func UpdateTag(log *slog.Logger, rs *web.Responder, updater TagUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tags.UpdateTag"

		id := chi.URLParam(r, "id")

		in, err := tagInput(r)
		if err == nil {
			err = rs.Validate(in)
		}
		if err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		if _, err := updater.UpdateTag(r.Context(), id, in); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("tag updated", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "標籤已更新", listPath)
	}
}

func DeleteTag(log *slog.Logger, rs *web.Responder, deleter TagDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tags.DeleteTag"

		id := chi.URLParam(r, "id")
		if err := deleter.DeleteTag(r.Context(), id); err != nil {
			rs.Fail(w, r, op, err, listPath)
			return
		}

		log.Info("tag deleted", slog.String("op", op), slog.String("id", id))
		rs.Success(w, r, "標籤已刪除", listPath)
	}
}

func tagInput(r *http.Request) (storage.TagInput, error) {
	monthly, err := web.OptInt64(r, "monthly_price")
	if err != nil {
		return storage.TagInput{}, err
	}
	daily, err := web.OptInt64(r, "daily_price")
	if err != nil {
		return storage.TagInput{}, err
	}

	return storage.TagInput{
		Name:         web.FormString(r, "name"),
		Color:        strings.ToLower(web.FormString(r, "color")),
		Description:  web.OptString(r, "description"),
		MonthlyPrice: monthly,
		DailyPrice:   daily,
	}, nil
}
