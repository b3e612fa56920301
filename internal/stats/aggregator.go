// Package stats はTwitterエクスポートの年間統計集計を提供する。
//
// 集計は入力シーケンスに対する単一パスで行われ、純粋関数として振る舞う
// （I/Oなし、呼び出し間で共有される状態なし）。同点時は常に先に
// 出現したレコードが勝つため、入力の順序がそのまま結果を決定する。
package stats

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/tweetwrap/internal/model"
)

// top-K抽出の各カテゴリの件数。レンダリング都合の値だが決定的であること。
const (
	topHashtagsLimit  = 15
	topMentionsLimit  = 15
	topEmojisLimit    = 50
	topSourcesLimit   = 5
	topLanguagesLimit = 5
	topWordsLimit     = 40
)

// minWordLength より短い語（2文字以下）は語彙ランキングから除外する。
const minWordLength = 3

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// accumulator はスキャン中のみ生きる作業用アキュムレータ。
// 巨大な中間構造（生の頻度マップ、文字数サンプル）はここに閉じ込め、
// finalizeで導出値だけをReportに移す。外部には公開しない。
type accumulator struct {
	targetYear int

	year model.YearStats

	dayCounts *counter
	hashtags  *counter
	mentions  *counter
	emojis    *counter
	sources   *counter
	languages *counter
	words     *counter

	// メンションハンドルごとの表示名。初回観測時の値を保持する。
	mentionNames map[string]string

	// 文字数サンプルは平均算出に必要な合計と件数だけ持つ。
	lengthSum int
	lengthN   int

	mostLikedCount     int
	mostRetweetedCount int
	longestLength      int
	firstAt            time.Time
	lastAt             time.Time

	// 全期間統計
	allTime         model.AllTimeStats
	allTimeMentions map[string]struct{}
	firstEverAt     time.Time
}

// Aggregate はツイート列を1パスで走査し、targetYear（UTC）の年間統計と
// 全期間統計を持つReportを構築して返す。
//
// 入力に順序要件はないが、同点タイブレークは入力順に依存するため、
// 同一の入力列に対しては常に同一のReportを返す（冪等）。
// 必須フィールド（本文・作成日時）を欠くレコードは入力契約違反であり、
// 部分的なReportを返さず即座にエラーで中断する。
func Aggregate(tweets []model.Tweet, targetYear int) (*model.Report, error) {
	acc := newAccumulator(targetYear)

	for i := range tweets {
		if err := acc.update(&tweets[i]); err != nil {
			return nil, fmt.Errorf("tweet at index %d: %w", i, err)
		}
	}

	return acc.finalize(), nil
}

func newAccumulator(targetYear int) *accumulator {
	return &accumulator{
		targetYear:      targetYear,
		dayCounts:       newCounter(),
		hashtags:        newCounter(),
		mentions:        newCounter(),
		emojis:          newCounter(),
		sources:         newCounter(),
		languages:       newCounter(),
		words:           newCounter(),
		mentionNames:    make(map[string]string),
		allTimeMentions: make(map[string]struct{}),
	}
}

// update は1レコード分の更新を適用する。
// 全期間統計は年フィルタの前に無条件で更新される。
func (a *accumulator) update(t *model.Tweet) error {
	if err := validate(t); err != nil {
		return err
	}

	ts := t.CreatedAt.UTC()
	isRetweet := t.IsRetweet()

	// --- 全期間統計（年フィルタ前） ---
	a.allTime.TotalTweets++

	if a.firstEverAt.IsZero() || ts.Before(a.firstEverAt) {
		a.firstEverAt = ts
		a.allTime.FirstTweet = tweetRef(t)
	}

	if !isRetweet {
		a.allTime.TotalWords += len(strings.Fields(stripLinks(t.FullText)))
	}

	for _, m := range t.MediaList() {
		if a.allTime.MediaTypes == nil {
			a.allTime.MediaTypes = make(map[string]int)
		}
		a.allTime.MediaTypes[m.Type]++
	}

	for _, m := range t.Entities.UserMentions {
		a.allTimeMentions[m.ScreenName] = struct{}{}
	}

	// --- 年間統計（対象年のみ） ---
	if ts.Year() != a.targetYear {
		return nil
	}

	a.year.TotalTweets++

	// 分類: リツイート > リプライ > オリジナル
	switch t.Kind() {
	case model.KindRetweet:
		a.year.TotalRetweets++
	case model.KindReply:
		a.year.TotalReplies++
	default:
		a.year.TotalOriginal++
	}

	// エンゲージメント合計と最多記録。同数は先着が保持される（厳密な > 比較）。
	favs, rts := t.Favorites(), t.Retweets()
	a.year.TotalLikes += favs
	a.year.TotalRetwCounts += rts

	if a.year.MostLikedTweet == nil || favs > a.mostLikedCount {
		a.year.MostLikedTweet = tweetRef(t)
		a.mostLikedCount = favs
	}
	if a.year.MostRetweetedTweet == nil || rts > a.mostRetweetedCount {
		a.year.MostRetweetedTweet = tweetRef(t)
		a.mostRetweetedCount = rts
	}

	// 時間帯・曜日・月のヒストグラム（すべてUTC、曜日は0=日曜）
	a.year.HourlyDistribution[ts.Hour()]++
	a.year.DailyDistribution[int(ts.Weekday())]++
	a.year.MonthlyDistribution[int(ts.Month())-1]++

	// カレンダー日ごとのカウント（ストリークと最多/最少アクティブ日の母集団）
	a.dayCounts.add(ts.Format("2006-01-02"))

	// 最初・最後のツイート（厳密な < / > 比較で先着が勝つ）
	if a.year.FirstTweet == nil || ts.Before(a.firstAt) {
		a.year.FirstTweet = tweetRef(t)
		a.firstAt = ts
	}
	if a.year.LastTweet == nil || ts.After(a.lastAt) {
		a.year.LastTweet = tweetRef(t)
		a.lastAt = ts
	}

	// ハッシュタグ（小文字化）とメンション
	for _, h := range t.Entities.Hashtags {
		a.hashtags.add(strings.ToLower(h.Text))
	}
	for _, m := range t.Entities.UserMentions {
		a.mentions.add(m.ScreenName)
		if _, ok := a.mentionNames[m.ScreenName]; !ok {
			a.mentionNames[m.ScreenName] = m.Name
		}
	}

	// ソースラベルと言語
	a.sources.add(extractSourceLabel(t.Source))
	a.languages.add(t.Lang)

	// メディア
	if media := t.MediaList(); len(media) > 0 {
		a.year.TweetsWithMedia++
		if a.year.MediaTypes == nil {
			a.year.MediaTypes = make(map[string]int)
		}
		for _, m := range media {
			a.year.MediaTypes[m.Type]++
		}
	}

	// 語数・文字数・語彙（リツイートは母集団に含めない）
	if !isRetweet {
		stripped := stripLinks(t.FullText)
		a.year.TotalWords += len(strings.Fields(stripped))

		length := utf8.RuneCountInString(t.FullText)
		a.lengthSum += length
		a.lengthN++

		if a.year.LongestTweet == nil || length > a.longestLength {
			a.year.LongestTweet = tweetRef(t)
			a.longestLength = length
		}

		cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(stripped), " ")
		for _, w := range strings.Fields(cleaned) {
			if len(w) < minWordLength || isStopWord(w) {
				continue
			}
			a.words.add(w)
		}
	}

	// 絵文字はリツイートも含めて数える
	for _, e := range extractEmojis(t.FullText) {
		a.emojis.add(e)
	}

	return nil
}

// finalize は作業用アキュムレータから導出統計を計算し、Reportを構築する。
// 生の頻度マップや文字数サンプルはReportに含めない。
func (a *accumulator) finalize() *model.Report {
	ys := a.year

	days := a.dayCounts.distinct()
	if days > 0 {
		ys.TweetsPerDay = round1(float64(ys.TotalTweets) / float64(days))
	}
	if ys.TotalTweets > 0 {
		ys.AvgLikesPerTweet = round1(float64(ys.TotalLikes) / float64(ys.TotalTweets))
		ys.AvgRetweetsPerTweet = round1(float64(ys.TotalRetwCounts) / float64(ys.TotalTweets))
	}
	if a.lengthN > 0 {
		ys.AvgTweetLength = int(math.Round(float64(a.lengthSum) / float64(a.lengthN)))
	}

	ys.MostActiveDay, ys.LeastActiveDay = a.activeDays()
	ys.LongestStreak = a.longestStreak()

	ys.TopHashtags = a.hashtags.top(topHashtagsLimit)
	ys.TopMentions = a.topMentions()
	ys.TopEmojis = a.emojis.top(topEmojisLimit)
	ys.TopSources = a.sources.top(topSourcesLimit)
	ys.TopLanguages = a.languages.top(topLanguagesLimit)
	ys.TopWordsList = a.words.top(topWordsLimit)

	ys.UniqueHashtagsCount = a.hashtags.distinct()
	ys.UniqueMentionsCount = a.mentions.distinct()

	if ys.MediaTypes == nil {
		ys.MediaTypes = map[string]int{}
	}

	at := a.allTime
	at.UniqueMentionsCount = len(a.allTimeMentions)
	if at.MediaTypes == nil {
		at.MediaTypes = map[string]int{}
	}

	return &model.Report{
		Year:    a.targetYear,
		Stats:   ys,
		AllTime: at,
	}
}

// activeDays は最多・最少アクティブ日を返す。
// 同数の場合はより早い日付が勝つ（日付昇順に走査し厳密比較で更新するため）。
func (a *accumulator) activeDays() (most, least *model.DayCount) {
	if a.dayCounts.distinct() == 0 {
		return nil, nil
	}

	dates := make([]string, 0, a.dayCounts.distinct())
	for d := range a.dayCounts.counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		n := a.dayCounts.counts[d]
		if most == nil || n > most.Count {
			most = &model.DayCount{Date: d, Count: n}
		}
		if least == nil || n < least.Count {
			least = &model.DayCount{Date: d, Count: n}
		}
	}
	return most, least
}

// longestStreak は連続するカレンダー日の最長ランを返す。
// 異なり日数が0または1の場合はその値をそのまま返す。
func (a *accumulator) longestStreak() int {
	days := a.dayCounts.distinct()
	if days <= 1 {
		return days
	}

	dates := make([]string, 0, days)
	for d := range a.dayCounts.counts {
		dates = append(dates, d)
	}
	// YYYY-MM-DDは辞書順ソート＝時系列ソート
	sort.Strings(dates)

	current, longest := 1, 1
	for i := 1; i < len(dates); i++ {
		prev, _ := time.Parse("2006-01-02", dates[i-1])
		curr, _ := time.Parse("2006-01-02", dates[i])
		if curr.Sub(prev) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// topMentions はメンションランキングを表示名付きで返す。
func (a *accumulator) topMentions() []model.MentionEntry {
	entries := a.mentions.top(topMentionsLimit)
	out := make([]model.MentionEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.MentionEntry{
			Handle: e.Name,
			Name:   a.mentionNames[e.Name],
			Count:  e.Count,
		})
	}
	return out
}

// validate は必須フィールドの存在を検証する。
// 欠損はINVALID_TWEETとして集計全体を中断させる。
func validate(t *model.Tweet) error {
	if t.CreatedAt.IsZero() {
		return model.NewInvalidTweetError("created_atがありません")
	}
	if t.FullText == "" {
		return model.NewInvalidTweetError("full_textがありません")
	}
	return nil
}

// stripLinks は語数カウントの前処理としてURLとメンションを除去する。
func stripLinks(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	return mentionPattern.ReplaceAllString(text, "")
}

// extractSourceLabel はsourceフィールドから表示ラベルを抽出する。
// 最初の ">" と次の "<" の間のテキストを取り、区切りが無ければ原文を返す。
func extractSourceLabel(source string) string {
	gt := strings.Index(source, ">")
	if gt < 0 {
		return source
	}
	lt := strings.Index(source[gt+1:], "<")
	if lt < 0 {
		return source
	}
	return source[gt+1 : gt+1+lt]
}

// tweetRef はレポートに保持する軽量参照を構築する。
func tweetRef(t *model.Tweet) *model.TweetRef {
	ref := &model.TweetRef{
		ID:        t.ID,
		Text:      t.FullText,
		CreatedAt: t.CreatedAt.UTC(),
		Favorites: t.Favorites(),
		Retweets:  t.Retweets(),
	}
	if media := t.MediaList(); len(media) > 0 {
		ref.MediaURL = media[0].MediaURL
	}
	return ref
}

// round1 は小数第1位に丸める。
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
