package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/tweetwrap/internal/metrics"
	"github.com/hitoshi/tweetwrap/internal/model"
	"github.com/hitoshi/tweetwrap/internal/store"
)

// ShareStore は共有ハンドラーが必要とするストアのインターフェース。
type ShareStore interface {
	// Put は共有データをTTL付きで保存する。
	Put(ctx context.Context, id string, data []byte, ttl time.Duration) error
	// Get は共有データを取得する。見つからない場合はstore.ErrNotFoundを返す。
	Get(ctx context.Context, id string) ([]byte, error)
}

// ShareHandlerConfig は共有ハンドラーの設定。
type ShareHandlerConfig struct {
	BaseURL      string        // 共有URLの組み立てに使用
	ShareTTL     time.Duration // 共有データの保持期間
	ShareMaxSize int64         // リクエストボディの上限（バイト）
}

// ShareHandler は共有データ管理のHTTPハンドラー。
type ShareHandler struct {
	store     ShareStore
	collector metrics.MetricsCollector
	config    ShareHandlerConfig
}

// NewShareHandler はShareHandlerを生成する。
func NewShareHandler(store ShareStore, collector metrics.MetricsCollector, config ShareHandlerConfig) *ShareHandler {
	return &ShareHandler{
		store:     store,
		collector: collector,
		config:    config,
	}
}

// createShareRequest は共有作成リクエストのボディ。
type createShareRequest struct {
	Data *model.WrappedData `json:"data"`
}

// createShareResponse は共有作成のAPIレスポンス。
type createShareResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// generatedRequest は生成通知リクエストのボディ。
type generatedRequest struct {
	Username string `json:"username"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// CreateShare は共有データの作成を処理する。
// POST /api/share
func (h *ShareHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.ShareMaxSize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeAPIErrorResponse(w, http.StatusRequestEntityTooLarge,
				model.NewShareTooLargeError(h.config.ShareMaxSize))
			return
		}
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの読み込みに失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	var req createShareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	if req.Data == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewNoDataError())
		return
	}

	// 保存するのはdataフィールドの正規化済みJSONのみ
	payload, err := json.Marshal(req.Data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	id, err := store.NewID()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.store.Put(r.Context(), id, payload, h.config.ShareTTL); err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordShareCreated()
	slog.Info("share created",
		slog.String("share_id", id),
		slog.String("username", req.Data.Account.Username),
		slog.Int("payload_bytes", len(payload)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createShareResponse{
		ID:  id,
		URL: fmt.Sprintf("%s/w/%s", h.config.BaseURL, id),
	})
}

// MarkGenerated はラップ生成の通知を処理する。カウンターを更新するだけで、
// ボディの解析に失敗してもクライアントにはエラーを返さない。
// POST /api/generated
func (h *ShareHandler) MarkGenerated(w http.ResponseWriter, r *http.Request) {
	var req generatedRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	h.collector.RecordWrappedGenerated()
	slog.Info("wrapped generated", slog.String("username", req.Username))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// --- ヘルパー関数 ---

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidShareID, model.ErrCodeNoData:
		return http.StatusBadRequest
	case model.ErrCodeShareNotFound:
		return http.StatusNotFound
	case model.ErrCodeShareTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.ErrCodeInvalidTweet, model.ErrCodeArchiveParseFailed, model.ErrCodeArchiveFileMissing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
