// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, archive, share, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidTweet       = "INVALID_TWEET"
	ErrCodeArchiveParseFailed = "ARCHIVE_PARSE_FAILED"
	ErrCodeArchiveFileMissing = "ARCHIVE_FILE_MISSING"
	ErrCodeShareNotFound      = "SHARE_NOT_FOUND"
	ErrCodeInvalidShareID     = "INVALID_SHARE_ID"
	ErrCodeShareTooLarge      = "SHARE_TOO_LARGE"
	ErrCodeNoData             = "NO_DATA"
)

// NewInvalidTweetError は入力契約違反（必須フィールド欠損）のエラーを生成する。
// 部分的に欠けたレコードはランキングやヒストグラムを静かに壊すため、
// 集計全体を即座に失敗させる。
func NewInvalidTweetError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTweet,
		Message:  fmt.Sprintf("不正なツイートレコードです: %s", reason),
		Category: "validation",
		Action:   "Twitterエクスポートのtweets.jsが破損していないか確認してください。",
	}
}

// NewArchiveParseFailedError はエクスポートファイルの解析失敗エラーを生成する。
func NewArchiveParseFailedError(filename string, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeArchiveParseFailed,
		Message:  fmt.Sprintf("エクスポートファイルの解析に失敗しました: %s: %s", filename, reason),
		Category: "archive",
		Action:   "Twitterからダウンロードしたアーカイブをそのまま指定してください。",
	}
}

// NewArchiveFileMissingError は必須のエクスポートファイルが見つからない場合のエラーを生成する。
func NewArchiveFileMissingError(filename string) *APIError {
	return &APIError{
		Code:     ErrCodeArchiveFileMissing,
		Message:  fmt.Sprintf("必須ファイルが見つかりません: %s", filename),
		Category: "archive",
		Action:   "アーカイブのdataディレクトリが含まれているか確認してください。",
	}
}

// NewShareNotFoundError は共有データが見つからない場合のエラーを生成する。
func NewShareNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeShareNotFound,
		Message:  fmt.Sprintf("指定された共有データが見つかりません: %s", id),
		Category: "share",
		Action:   "URLが正しいか、有効期限が切れていないか確認してください。",
	}
}

// NewInvalidShareIDError は共有IDの形式が不正な場合のエラーを生成する。
func NewInvalidShareIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidShareID,
		Message:  fmt.Sprintf("不正な共有IDです: %s", id),
		Category: "validation",
		Action:   "共有リンクをコピーし直してください。",
	}
}

// NewShareTooLargeError は共有データがサイズ上限を超えた場合のエラーを生成する。
func NewShareTooLargeError(limit int64) *APIError {
	return &APIError{
		Code:     ErrCodeShareTooLarge,
		Message:  fmt.Sprintf("共有データがサイズ上限（%dバイト）を超えています。", limit),
		Category: "share",
		Action:   "統計データが想定外に大きくなっています。再生成してお試しください。",
	}
}

// NewNoDataError はリクエストボディにデータが含まれていない場合のエラーを生成する。
func NewNoDataError() *APIError {
	return &APIError{
		Code:     ErrCodeNoData,
		Message:  "データが指定されていません。",
		Category: "validation",
		Action:   "dataフィールドに統計データを指定してください。",
	}
}
