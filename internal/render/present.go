// Package render は集計結果のHTMLページ描画を提供する。
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hitoshi/tweetwrap/internal/model"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// FormatHour は0〜23の時刻を12時間表記のラベルに変換する。
func FormatHour(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h == 12:
		return "12 PM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// PeakHour は時間別分布の最大バケットを「12 PM-1 PM」形式で返す。
func PeakHour(hourly [24]int) string {
	maxIdx := 0
	for i, n := range hourly {
		if n > hourly[maxIdx] {
			maxIdx = i
		}
	}
	return FormatHour(maxIdx) + "-" + FormatHour((maxIdx+1)%24)
}

// MostActiveMonth は月別分布の最大バケットの月名と件数を返す。
func MostActiveMonth(monthly [12]int) (string, int) {
	maxIdx := 0
	for i, n := range monthly {
		if n > monthly[maxIdx] {
			maxIdx = i
		}
	}
	return monthNames[maxIdx], monthly[maxIdx]
}

// MostActiveWeekday は曜日別分布の最大バケットの曜日名を返す。
func MostActiveWeekday(daily [7]int) string {
	maxIdx := 0
	for i, n := range daily {
		if n > daily[maxIdx] {
			maxIdx = i
		}
	}
	return dayNames[maxIdx]
}

// ShortenSource はクライアント名を表示用に短縮する。
func ShortenSource(source string) string {
	s := strings.ReplaceAll(source, "Twitter for ", "")
	s = strings.ReplaceAll(s, "Twitter Web App", "Web")
	s = strings.ReplaceAll(s, "Twitter Web Client", "Web")
	return s
}

// SourceSplit は上位2クライアントの利用割合を「60% iPhone / 40% Web」形式で返す。
func SourceSplit(sources []model.CountEntry) string {
	switch {
	case len(sources) >= 2:
		total := sources[0].Count + sources[1].Count
		p0 := int(math.Round(float64(sources[0].Count) / float64(total) * 100))
		p1 := int(math.Round(float64(sources[1].Count) / float64(total) * 100))
		return fmt.Sprintf("%d%% %s / %d%% %s",
			p0, ShortenSource(sources[0].Name), p1, ShortenSource(sources[1].Name))
	case len(sources) == 1:
		return "100% " + ShortenSource(sources[0].Name)
	default:
		return "Unknown"
	}
}

// StreakPhrase は連続日数を表示用の文言に変換する。
// 30日以上は月単位で丸める。
func StreakPhrase(streak int) string {
	if streak >= 60 {
		return fmt.Sprintf("over %d months", streak/30)
	}
	if streak >= 30 {
		return fmt.Sprintf("over %d month", streak/30)
	}
	return fmt.Sprintf("%d days", streak)
}

// FormatCount は整数を3桁区切りの文字列に変換する。
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ReplyPct はリプライの割合をパーセントで返す。総数0のときは0。
func ReplyPct(stats *model.YearStats) int {
	if stats.TotalTweets == 0 {
		return 0
	}
	return int(math.Round(float64(stats.TotalReplies) / float64(stats.TotalTweets) * 100))
}

// TruncateText は本文からURLを除去して先頭n文字に切り詰める。
// 引用表示用。
func TruncateText(text string, n int) string {
	cleaned := strings.TrimSpace(urlPattern.ReplaceAllString(text, ""))
	runes := []rune(cleaned)
	if len(runes) <= n {
		return cleaned
	}
	return string(runes[:n])
}
