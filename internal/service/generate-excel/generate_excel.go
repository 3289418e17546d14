package generate_excel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hauwenw/ping-parking/internal/format"
	"github.com/hauwenw/ping-parking/internal/storage"
)

const sheetName = "系統日誌"

var headers = []string{"時間", "操作", "資料表", "紀錄 ID", "使用者", "IP 位址", "舊值", "新值"}

// pageSize is the largest page the system-log listing serves.
const pageSize = 200

type SystemLogStorage interface {
	ListSystemLogsPage(ctx context.Context, limit, offset int) ([]storage.SystemLog, error)
}

type GenerateExcelService struct {
	storage SystemLogStorage
}

func NewGenerateService(storage SystemLogStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

// SystemLogsExcel renders the latest limit audit entries as an XLSX workbook.
func (g *GenerateExcelService) SystemLogsExcel(ctx context.Context, limit int) ([]byte, error) {
	const op = "service.generate_excel.SystemLogsExcel"

	logs, err := g.fetchLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch logs: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	for i, name := range headers {
		if err := f.SetCellValue(sheetName, cellName(i+1, 1), name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", cellName(len(headers), 1), headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, entry := range logs {
		row := []any{
			format.DateTime(entry.CreatedAt),
			entry.Action,
			deref(entry.TableName),
			deref(entry.RecordID),
			deref(entry.UserID),
			deref(entry.IPAddress),
			jsonCell(entry.OldValues),
			jsonCell(entry.NewValues),
		}
		if err := f.SetSheetRow(sheetName, cellName(1, i+2), &row); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", op, i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	}); err != nil {
		return nil, fmt.Errorf("%s: freeze header: %w", op, err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 22)
	_ = f.SetColWidth(sheetName, "B", "F", 16)
	_ = f.SetColWidth(sheetName, "G", "H", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}

	return buf.Bytes(), nil
}

// fetchLogs pages through the listing until limit entries or a short page.
func (g *GenerateExcelService) fetchLogs(ctx context.Context, limit int) ([]storage.SystemLog, error) {
	logs := make([]storage.SystemLog, 0, min(limit, pageSize))

	for len(logs) < limit {
		size := min(pageSize, limit-len(logs))

		page, err := g.storage.ListSystemLogsPage(ctx, size, len(logs))
		if err != nil {
			return nil, err
		}
		logs = append(logs, page...)

		if len(page) < size {
			break
		}
	}

	return logs, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// jsonCell flattens a change set into one cell.
func jsonCell(values map[string]any) string {
	if len(values) == 0 {
		return ""
	}
	b, err := json.Marshal(values)
	if err != nil {
		return fmt.Sprint(values)
	}
	return string(b)
}
