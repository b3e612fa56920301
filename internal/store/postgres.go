package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore はPostgreSQLを使用したShareStore実装。
// 期限切れの行は取得時に除外し、物理削除はクリーンアップワーカーが行う。
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore はPostgresStoreを生成する。
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Put はレポートをTTL付きで保存する。同一IDは上書きする。
func (s *PostgresStore) Put(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shares (id, data, expires_at, created_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (id) DO UPDATE SET data = $2, expires_at = $3`,
		id, data, time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to store share %s: %w", id, err)
	}
	return nil
}

// Get は共有IDに対応するレポートを取得する。期限切れはErrNotFoundを返す。
func (s *PostgresStore) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM shares
		 WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load share %s: %w", id, err)
	}
	return data, nil
}

// Delete は共有IDに対応するレポートを削除する。
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM shares WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete share %s: %w", id, err)
	}
	return nil
}

// DeleteExpired は期限切れの共有を削除し、削除件数を返す。
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM shares WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired shares: %w", err)
	}
	return result.RowsAffected()
}

// Ping はデータベースへの疎通を確認する。
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はデータベースとの接続を閉じる。
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// compile-time interface check
var _ ShareStore = (*PostgresStore)(nil)
