package ogimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/hitoshi/tweetwrap/internal/model"
)

func testWrappedData() *model.WrappedData {
	data := &model.WrappedData{
		Account:   model.AccountInfo{Username: "alice", DisplayName: "Alice"},
		Followers: 1200,
	}
	data.Report.Year = 2025
	data.Report.Stats.TotalTweets = 1000
	data.Report.Stats.TotalLikes = 2500
	data.Report.Stats.LongestStreak = 12
	return data
}

// 生成されたPNGが規定サイズでデコード可能なことを検証
func TestGenerator_Generate(t *testing.T) {
	g, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator returned error: %v", err)
	}

	out, err := g.Generate(testWrappedData(), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != cardWidth || bounds.Dy() != cardHeight {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), cardWidth, cardHeight)
	}
}

// アバター付きでも生成が成功することを検証
func TestGenerator_GenerateWithAvatar(t *testing.T) {
	g, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator returned error: %v", err)
	}

	avatar := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			avatar.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}

	out, err := g.Generate(testWrappedData(), avatar)
	if err != nil {
		t.Fatalf("Generate with avatar returned error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
}

// 同一入力から同一の画像が生成されることを検証
func TestGenerator_Deterministic(t *testing.T) {
	g, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator returned error: %v", err)
	}

	first, err := g.Generate(testWrappedData(), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := g.Generate(testWrappedData(), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two runs over the same input produced different images")
	}
}
