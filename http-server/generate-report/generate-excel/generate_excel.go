package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	systemlogs "github.com/hauwenw/ping-parking/http-server/system-logs"
	"github.com/hauwenw/ping-parking/internal/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SystemLogsExcelGenerator interface {
	SystemLogsExcel(ctx context.Context, limit int) ([]byte, error)
}

// SystemLogsReport builds the audit workbook locally from the JSON listing.
func SystemLogsReport(log *slog.Logger, rs *web.Responder, gen SystemLogsExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.generate_excel.SystemLogsReport"

		limit := systemlogs.ExportLimit(r)

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		excelBytes, err := gen.SystemLogsExcel(ctx, limit)
		if err != nil {
			rs.Fail(w, r, op, err, "/system-logs")
			return
		}

		fileName := fmt.Sprintf("system_logs_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("failed to write workbook", slog.String("op", op), slog.String("error", err.Error()))
			return
		}

		log.Info("system logs exported", slog.String("op", op), slog.String("format", "xlsx"), slog.Int("limit", limit))
	}
}
