// Package preview serves the small JSON endpoints the console forms call
// while the operator is typing.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/hauwenw/ping-parking/internal/format"
	"github.com/hauwenw/ping-parking/internal/pricing"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

type SpaceGetter interface {
	GetSpace(ctx context.Context, id string) (*storage.Space, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type BatchNamesResponse struct {
	Names []string `json:"names"`
}

type PriceResponse struct {
	Price     *int64 `json:"price"`
	Formatted string `json:"formatted,omitempty"`
}

var batchMessages = map[error]string{
	pricing.ErrEmptyPrefix:   "請輸入前綴",
	pricing.ErrBatchCount:    "數量必須介於 1 到 200",
	pricing.ErrNegativeStart: "起始編號不可小於 0",
}

func BatchNames(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		start, err := strconv.Atoi(q.Get("start"))
		if err != nil {
			fail(w, r, http.StatusBadRequest, "起始編號必須是整數")
			return
		}
		count, err := strconv.Atoi(q.Get("count"))
		if err != nil {
			fail(w, r, http.StatusBadRequest, "數量必須是整數")
			return
		}

		names, err := pricing.BatchNames(q.Get("prefix"), start, count)
		if err != nil {
			fail(w, r, http.StatusBadRequest, batchMessages[err])
			return
		}

		render.JSON(w, r, BatchNamesResponse{Names: names})
	}
}

// Price proposes an agreement price for a space and rental type. A space with
// no matching price answers with a null price.
func Price(log *slog.Logger, spaces SpaceGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.preview.Price"

		q := r.URL.Query()
		rental := storage.RentalType(q.Get("agreement_type"))
		if !rental.Valid() {
			fail(w, r, http.StatusBadRequest, "租用類型不是有效的選項")
			return
		}

		space, err := spaces.GetSpace(r.Context(), q.Get("space_id"))
		switch {
		case err == nil:
		case errors.Is(err, restapi.ErrUnauthorized):
			fail(w, r, http.StatusUnauthorized, "登入已過期，請重新登入")
			return
		case restapi.IsNotFound(err):
			fail(w, r, http.StatusNotFound, "找不到車位")
			return
		default:
			log.Error("failed to load space", slog.String("op", op), slog.String("error", err.Error()))
			fail(w, r, http.StatusBadGateway, "無法取得車位價格")
			return
		}

		price, ok := pricing.ProposePrice(*space, rental)
		if !ok {
			render.JSON(w, r, PriceResponse{})
			return
		}

		render.JSON(w, r, PriceResponse{Price: &price, Formatted: format.Currency(price)})
	}
}

func fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
