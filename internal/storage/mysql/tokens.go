package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hauwenw/ping-parking/internal/storage"
)

const (
	stmtCreateTokens = `CREATE TABLE IF NOT EXISTS console_tokens (
	token_key    CHAR(36)     NOT NULL PRIMARY KEY,
	access_token TEXT         NOT NULL,
	expires_at   DATETIME     NOT NULL,
	INDEX idx_console_tokens_expires (expires_at)
)`
	stmtGetToken    = `SELECT access_token FROM console_tokens WHERE token_key = ? AND expires_at > ?`
	stmtPutToken    = `INSERT INTO console_tokens (token_key, access_token, expires_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE access_token = VALUES(access_token), expires_at = VALUES(expires_at)`
	stmtDeleteToken = `DELETE FROM console_tokens WHERE token_key = ?`
	stmtPurgeTokens = `DELETE FROM console_tokens WHERE expires_at <= ?`
)

func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.mysql.Migrate"

	if _, err := s.db.ExecContext(ctx, stmtCreateTokens); err != nil {
		return fmt.Errorf("%s: create console_tokens: %w", op, err)
	}

	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.mysql.Get"

	var token string
	err := s.db.QueryRowContext(ctx, stmtGetToken, key, s.now().UTC()).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrTokenNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func (s *Storage) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	const op = "storage.mysql.Put"

	expiresAt := s.now().UTC().Add(ttl)
	if _, err := s.db.ExecContext(ctx, stmtPutToken, key, token, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.mysql.Delete"

	if _, err := s.db.ExecContext(ctx, stmtDeleteToken, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PurgeExpired removes rows past their expiry and reports how many went.
func (s *Storage) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "storage.mysql.PurgeExpired"

	res, err := s.db.ExecContext(ctx, stmtPurgeTokens, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	return n, nil
}
