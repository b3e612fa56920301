package handler

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/tweetwrap/internal/metrics"
	"github.com/hitoshi/tweetwrap/internal/model"
	"github.com/hitoshi/tweetwrap/internal/render"
	"github.com/hitoshi/tweetwrap/internal/store"
)

// AvatarFetcher はOG画像用のアバター取得インターフェース。
type AvatarFetcher interface {
	// Fetch はアバター画像を取得してデコードする。
	Fetch(ctx context.Context, rawURL string) (image.Image, error)
}

// OGImageGenerator はOG画像生成のインターフェース。
type OGImageGenerator interface {
	// Generate は共有データからPNG画像を生成する。avatarはnilでもよい。
	Generate(data *model.WrappedData, avatar image.Image) ([]byte, error)
}

// PageHandler はHTMLページとOG画像配信のHTTPハンドラー。
type PageHandler struct {
	store      ShareStore
	renderer   *render.Renderer
	generator  OGImageGenerator
	avatars    AvatarFetcher
	collector  metrics.MetricsCollector
	targetYear int
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(store ShareStore, renderer *render.Renderer, generator OGImageGenerator, avatars AvatarFetcher, collector metrics.MetricsCollector, targetYear int) *PageHandler {
	return &PageHandler{
		store:      store,
		renderer:   renderer,
		generator:  generator,
		avatars:    avatars,
		collector:  collector,
		targetYear: targetYear,
	}
}

// Landing はランディングページを返す。
// GET /
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.LandingPage(w, h.targetYear); err != nil {
		slog.Error("landing page render failed", slog.String("error", err.Error()))
	}
}

// Wrapped は保存済み共有データのラップページを返す。
// GET /w/{id}
func (h *PageHandler) Wrapped(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, ok := h.loadShare(w, r, id)
	if !ok {
		return
	}

	view := h.renderer.BuildView(data, id)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.WrappedPage(w, view); err != nil {
		slog.Error("wrapped page render failed",
			slog.String("share_id", id),
			slog.String("error", err.Error()),
		)
		return
	}

	h.collector.RecordShareViewed()
}

// OGImage は共有データのOGカード画像を返す。
// GET /og/{id}.png
func (h *PageHandler) OGImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !store.ValidID(id) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewShareNotFoundError(id))
		return
	}

	raw, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeAPIErrorResponse(w, http.StatusNotFound, model.NewShareNotFoundError(id))
			return
		}
		handleServiceError(w, err)
		return
	}

	var data model.WrappedData
	if err := json.Unmarshal(raw, &data); err != nil {
		handleServiceError(w, err)
		return
	}

	// アバター取得の失敗は画像生成を妨げない
	var avatar image.Image
	if data.Account.AvatarURL != "" {
		avatar, err = h.avatars.Fetch(r.Context(), data.Account.AvatarURL)
		if err != nil {
			slog.Warn("avatar fetch failed",
				slog.String("share_id", id),
				slog.String("error", err.Error()),
			)
			avatar = nil
		}
	}

	png, err := h.generator.Generate(&data, avatar)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(png)

	h.collector.RecordOGImageServed()
}

// loadShare は共有IDの検証とストアからの取得を行う。
// 見つからない場合は404ページを描画してfalseを返す。
func (h *PageHandler) loadShare(w http.ResponseWriter, r *http.Request, id string) (*model.WrappedData, bool) {
	if !store.ValidID(id) {
		h.renderNotFound(w, id)
		return nil, false
	}

	raw, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderNotFound(w, id)
			return nil, false
		}
		handleServiceError(w, err)
		return nil, false
	}

	var data model.WrappedData
	if err := json.Unmarshal(raw, &data); err != nil {
		handleServiceError(w, err)
		return nil, false
	}

	return &data, true
}

// renderNotFound は404ページを描画する。
func (h *PageHandler) renderNotFound(w http.ResponseWriter, id string) {
	h.collector.RecordShareMiss()
	slog.Info("share not found", slog.String("share_id", id))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.NotFoundPage(w); err != nil {
		slog.Error("not found page render failed", slog.String("error", err.Error()))
	}
}
