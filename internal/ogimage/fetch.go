package ogimage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/tweetwrap/internal/security"
)

// maxAvatarBytes はアバター画像の最大取得サイズ。
const maxAvatarBytes = 5 * 1024 * 1024

// AvatarFetcher はプロフィールのアバター画像を外部から取得する。
// URLはユーザーのアーカイブ由来であるため、SSRF防止付きクライアントで取得する。
type AvatarFetcher struct {
	guard  security.SSRFGuardService
	client *http.Client
}

// NewAvatarFetcher はAvatarFetcherを生成する。
func NewAvatarFetcher(guard security.SSRFGuardService, timeout time.Duration) *AvatarFetcher {
	return &AvatarFetcher{
		guard:  guard,
		client: guard.NewSafeClient(timeout),
	}
}

// Fetch はURLからアバター画像を取得してデコードする。
// OGカードはアバターなしでも成立するため、呼び出し側は失敗時にnilで続行してよい。
func (f *AvatarFetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("empty avatar URL")
	}
	if err := f.guard.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("unsafe avatar URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build avatar request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar: %w", err)
	}
	return img, nil
}
