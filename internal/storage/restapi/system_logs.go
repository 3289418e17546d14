package restapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hauwenw/ping-parking/internal/storage"
)

func (c *Client) ListSystemLogs(ctx context.Context, limit int) ([]storage.SystemLog, error) {
	return c.ListSystemLogsPage(ctx, limit, 0)
}

// ListSystemLogsPage reads one page, newest first. The API caps limit at 200.
func (c *Client) ListSystemLogsPage(ctx context.Context, limit, offset int) ([]storage.SystemLog, error) {
	const op = "storage.restapi.ListSystemLogsPage"

	var logs []storage.SystemLog
	path := v1("/system-logs?limit=%s&offset=%s", strconv.Itoa(limit), strconv.Itoa(offset))
	if err := c.Get(ctx, path, &logs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return logs, nil
}

// ExportSystemLogs returns the server-rendered CSV as raw bytes.
func (c *Client) ExportSystemLogs(ctx context.Context, limit int) (*Download, error) {
	const op = "storage.restapi.ExportSystemLogs"

	dl, err := c.Download(ctx, v1("/system-logs/export?limit=%s", strconv.Itoa(limit)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dl, nil
}
