// Package ogimage は共有リンク用のOGカード画像（PNG）を生成する。
package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hitoshi/tweetwrap/internal/model"
	"github.com/hitoshi/tweetwrap/internal/render"
)

// OGカードの標準サイズ。主要SNSのlarge card推奨値。
const (
	cardWidth  = 1200
	cardHeight = 630
)

var (
	bgTop     = color.RGBA{R: 0x0f, G: 0x14, B: 0x19, A: 0xff}
	bgBottom  = color.RGBA{R: 0x1a, G: 0x23, B: 0x2e, A: 0xff}
	fgWhite   = color.RGBA{R: 0xe7, G: 0xe9, B: 0xea, A: 0xff}
	fgCyan    = color.RGBA{R: 0x1d, G: 0x9b, B: 0xf0, A: 0xff}
	fgMagenta = color.RGBA{R: 0xf9, G: 0x18, B: 0x80, A: 0xff}
	fgMuted   = color.RGBA{R: 0x71, G: 0x76, B: 0x7b, A: 0xff}
)

// Generator はOGカード画像の生成を担う。
// フォントのパースは生成時に1回だけ行う。
type Generator struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// NewGenerator はGeneratorを生成する。
func NewGenerator() (*Generator, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Generator{regular: regular, bold: bold}, nil
}

// Generate はレポートからOGカードPNGを生成する。
// avatarはnilを許容し、その場合はアバターなしで描画する。
func (g *Generator) Generate(data *model.WrappedData, avatar image.Image) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	drawGradient(img)

	// アクセントバー
	for x := 0; x < cardWidth; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, fgCyan)
		}
	}

	if avatar != nil {
		drawAvatar(img, avatar, cardWidth-192, 56, 96)
	}

	title := fmt.Sprintf("%d Twitter Wrapped", data.Report.Year)
	if err := g.drawText(img, title, 64, 120, 56, true, fgWhite); err != nil {
		return nil, err
	}
	if err := g.drawText(img, "@"+data.Account.Username, 64, 180, 32, false, fgCyan); err != nil {
		return nil, err
	}

	stats := &data.Report.Stats
	columns := []struct {
		label string
		value string
		col   color.RGBA
	}{
		{"TWEETS", render.FormatCount(stats.TotalTweets), fgWhite},
		{"LIKES RECEIVED", render.FormatCount(stats.TotalLikes), fgMagenta},
		{"FOLLOWERS", render.FormatCount(data.Followers), fgCyan},
	}
	colWidth := cardWidth / len(columns)
	for i, c := range columns {
		x := i*colWidth + 64
		if err := g.drawText(img, c.value, x, 380, 64, true, c.col); err != nil {
			return nil, err
		}
		if err := g.drawText(img, c.label, x, 430, 22, false, fgMuted); err != nil {
			return nil, err
		}
	}

	footer := fmt.Sprintf("Longest streak: %s  |  Peak hour: %s",
		render.StreakPhrase(stats.LongestStreak), render.PeakHour(stats.HourlyDistribution))
	if err := g.drawText(img, footer, 64, 550, 26, false, fgMuted); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode og image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawText は指定座標にテキストを描画する。yはベースライン位置。
func (g *Generator) drawText(dst *image.RGBA, text string, x, y int, size float64, bold bool, col color.RGBA) error {
	src := g.regular
	if bold {
		src = g.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return nil
}

// drawGradient は背景の縦グラデーションを描画する。
func drawGradient(img *image.RGBA) {
	for y := 0; y < cardHeight; y++ {
		t := float64(y) / float64(cardHeight)
		c := color.RGBA{
			R: lerp(bgTop.R, bgBottom.R, t),
			G: lerp(bgTop.G, bgBottom.G, t),
			B: lerp(bgTop.B, bgBottom.B, t),
			A: 0xff,
		}
		for x := 0; x < cardWidth; x++ {
			img.Set(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawAvatar はアバターを円形に切り抜いて描画する。
func drawAvatar(dst *image.RGBA, avatar image.Image, x, y, radius int) {
	size := radius * 2
	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), avatar, avatar.Bounds(), draw.Over, nil)

	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			cx := dx - radius
			cy := dy - radius
			if cx*cx+cy*cy <= radius*radius {
				dst.Set(x+dx, y+dy, scaled.At(dx, dy))
			}
		}
	}
}
