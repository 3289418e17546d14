package storage

import "time"

type SystemLog struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id"`
	Action    string         `json:"action"`
	TableName *string        `json:"table_name"`
	RecordID  *string        `json:"record_id"`
	OldValues map[string]any `json:"old_values"`
	NewValues map[string]any `json:"new_values"`
	IPAddress *string        `json:"ip_address"`
	CreatedAt time.Time      `json:"created_at"`
}
