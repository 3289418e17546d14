package systemlogs

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
	"github.com/hauwenw/ping-parking/internal/web"
)

const (
	DefaultLimit = 100
	MaxLimit     = 200

	ExportDefaultLimit = 1000
	MaxExportLimit     = 5000
)

type SystemLogLister interface {
	ListSystemLogs(ctx context.Context, limit int) ([]storage.SystemLog, error)
}

type SystemLogExporter interface {
	ExportSystemLogs(ctx context.Context, limit int) (*restapi.Download, error)
}

// Limit reads ?limit= clamped to 1..MaxLimit. Missing or non-numeric values
// fall back to DefaultLimit.
func Limit(r *http.Request) int {
	return clampLimit(r, DefaultLimit, MaxLimit)
}

// ExportLimit is Limit for downloads, which reach further back than a page.
func ExportLimit(r *http.Request) int {
	return clampLimit(r, ExportDefaultLimit, MaxExportLimit)
}

func clampLimit(r *http.Request, def, ceiling int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	switch {
	case err != nil:
		return def
	case n < 1:
		return 1
	case n > ceiling:
		return ceiling
	default:
		return n
	}
}

type ListView struct {
	Logs  []storage.SystemLog
	Limit int
}

func GetSystemLogs(log *slog.Logger, rs *web.Responder, lister SystemLogLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.systemlogs.GetSystemLogs"

		limit := Limit(r)
		logs, err := lister.ListSystemLogs(r.Context(), limit)
		if err != nil {
			rs.LoadFailed(w, r, op, err)
			return
		}

		rs.HTML(w, r, http.StatusOK, "system_logs", "系統日誌", ListView{Logs: logs, Limit: limit})
	}
}

// ExportCSV streams the server-rendered CSV through unchanged.
func ExportCSV(log *slog.Logger, rs *web.Responder, exporter SystemLogExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.systemlogs.ExportCSV"

		limit := ExportLimit(r)
		dl, err := exporter.ExportSystemLogs(r.Context(), limit)
		if err != nil {
			rs.Fail(w, r, op, err, "/system-logs")
			return
		}

		contentType := dl.ContentType
		if contentType == "" {
			contentType = "text/csv; charset=utf-8"
		}
		filename := dl.Filename
		if filename == "" {
			filename = "system_logs.csv"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		if _, err := w.Write(dl.Body); err != nil {
			log.Error("failed to write export", slog.String("op", op), slog.String("error", err.Error()))
			return
		}

		log.Info("system logs exported", slog.String("op", op), slog.String("format", "csv"), slog.Int("limit", limit))
	}
}

// Export picks the export flavour from ?format=, CSV unless xlsx is asked for.
func Export(csv, xlsx http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") == "xlsx" {
			xlsx.ServeHTTP(w, r)
			return
		}
		csv.ServeHTTP(w, r)
	}
}
