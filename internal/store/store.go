// Package store は共有されたレポートの永続化を提供する。
// バックエンドとしてRedisとPostgreSQLを選択できる。
package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNotFound は共有IDに対応するレポートが存在しないことを表す。
// 期限切れで削除済みの場合も同じエラーになる。
var ErrNotFound = errors.New("share not found")

// shareIDLength は共有IDの文字数。
const shareIDLength = 10

// shareIDPattern は有効な共有IDの形式。nanoidのURLセーフな文字集合。
var shareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{10}$`)

// ShareStore は共有レポートの保存と取得を抽象化する。
type ShareStore interface {
	// Put はレポートのJSONバイト列をTTL付きで保存する。
	Put(ctx context.Context, id string, data []byte, ttl time.Duration) error
	// Get は共有IDに対応するレポートを取得する。
	// 存在しない場合はErrNotFoundを返す。
	Get(ctx context.Context, id string) ([]byte, error)
	// Delete は共有IDに対応するレポートを削除する。
	Delete(ctx context.Context, id string) error
	// Ping はバックエンドへの疎通を確認する。
	Ping(ctx context.Context) error
	// Close はバックエンドとの接続を閉じる。
	Close() error
}

// NewID は新しい共有IDを生成する。
func NewID() (string, error) {
	return gonanoid.New(shareIDLength)
}

// ValidID は文字列が有効な共有ID形式かどうかを返す。
// ストア照会の前に呼び、形式不正なIDをバックエンドに渡さない。
func ValidID(id string) bool {
	return shareIDPattern.MatchString(id)
}
