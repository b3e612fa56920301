package stats

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/hitoshi/tweetwrap/internal/model"
)

// mkTweet はテスト用のオリジナルツイートを生成する。
func mkTweet(ts string, text string) model.Tweet {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return model.Tweet{
		ID:        "id-" + ts,
		CreatedAt: t,
		FullText:  text,
		Source:    `<a href="https://mobile.twitter.com" rel="nofollow">Twitter for iPhone</a>`,
		Lang:      "en",
	}
}

// TestAggregate_SingleOriginalTweet は単一オリジナルツイートの基本シナリオを検証する。
func TestAggregate_SingleOriginalTweet(t *testing.T) {
	tw := mkTweet("2025-06-15T12:00:00Z", "Hello world https://x.co @bob")
	tw.FavoriteCount = "5"
	tw.RetweetCount = "2"

	report, err := Aggregate([]model.Tweet{tw}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	ys := report.Stats
	if ys.TotalTweets != 1 {
		t.Errorf("TotalTweets = %d, want 1", ys.TotalTweets)
	}
	if ys.TotalOriginal != 1 {
		t.Errorf("TotalOriginal = %d, want 1", ys.TotalOriginal)
	}
	if ys.TotalLikes != 5 {
		t.Errorf("TotalLikes = %d, want 5", ys.TotalLikes)
	}
	if ys.TotalRetwCounts != 2 {
		t.Errorf("TotalRetwCounts = %d, want 2", ys.TotalRetwCounts)
	}
	if ys.HourlyDistribution[12] != 1 {
		t.Errorf("HourlyDistribution[12] = %d, want 1", ys.HourlyDistribution[12])
	}
	// URLとメンションを除去した後の語数は "Hello", "world" の2語
	if ys.TotalWords != 2 {
		t.Errorf("TotalWords = %d, want 2", ys.TotalWords)
	}
	if ys.LongestTweet == nil || ys.LongestTweet.ID != tw.ID {
		t.Errorf("LongestTweet = %+v, want the single tweet", ys.LongestTweet)
	}
	if ys.MostLikedTweet == nil || ys.MostLikedTweet.ID != tw.ID {
		t.Errorf("MostLikedTweet = %+v, want the single tweet", ys.MostLikedTweet)
	}
	if ys.TweetsPerDay != 1.0 {
		t.Errorf("TweetsPerDay = %v, want 1.0", ys.TweetsPerDay)
	}
	if ys.AvgLikesPerTweet != 5.0 {
		t.Errorf("AvgLikesPerTweet = %v, want 5.0", ys.AvgLikesPerTweet)
	}
}

// TestAggregate_EmptyInput は空入力が有効でゼロ値のReportを返すことを検証する。
func TestAggregate_EmptyInput(t *testing.T) {
	report, err := Aggregate(nil, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	ys := report.Stats
	if ys.TotalTweets != 0 {
		t.Errorf("TotalTweets = %d, want 0", ys.TotalTweets)
	}
	for i, n := range ys.HourlyDistribution {
		if n != 0 {
			t.Errorf("HourlyDistribution[%d] = %d, want 0", i, n)
		}
	}
	if ys.TweetsPerDay != 0 {
		t.Errorf("TweetsPerDay = %v, want 0", ys.TweetsPerDay)
	}
	if ys.TopHashtags == nil || len(ys.TopHashtags) != 0 {
		t.Errorf("TopHashtags = %#v, want empty non-nil slice", ys.TopHashtags)
	}
	if ys.LongestStreak != 0 {
		t.Errorf("LongestStreak = %d, want 0", ys.LongestStreak)
	}
	if ys.MostActiveDay != nil {
		t.Errorf("MostActiveDay = %+v, want nil", ys.MostActiveDay)
	}
}

// TestAggregate_ClassificationSum は分類の合計が総数と一致する性質を検証する。
func TestAggregate_ClassificationSum(t *testing.T) {
	reply := mkTweet("2025-03-02T08:00:00Z", "@alice yes")
	reply.InReplyToStatusID = "900"

	tweets := []model.Tweet{
		mkTweet("2025-03-01T10:00:00Z", "original one"),
		mkTweet("2025-03-01T11:00:00Z", "RT @bob: reshared"),
		reply,
		mkTweet("2025-03-03T23:00:00Z", "original two"),
	}

	report, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	ys := report.Stats
	sum := ys.TotalOriginal + ys.TotalReplies + ys.TotalRetweets
	if sum != ys.TotalTweets {
		t.Errorf("original+replies+retweets = %d, want TotalTweets = %d", sum, ys.TotalTweets)
	}

	// 各ヒストグラムのバケット合計は総数と一致する
	for name, total := range map[string]int{
		"hourly":  sumOf(ys.HourlyDistribution[:]),
		"daily":   sumOf(ys.DailyDistribution[:]),
		"monthly": sumOf(ys.MonthlyDistribution[:]),
	} {
		if total != ys.TotalTweets {
			t.Errorf("%s histogram sum = %d, want %d", name, total, ys.TotalTweets)
		}
	}
}

func sumOf(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// TestAggregate_YearFilter は対象年以外のレコードが年間統計から除外され、
// 全期間統計には含まれることを検証する。
func TestAggregate_YearFilter(t *testing.T) {
	tweets := []model.Tweet{
		mkTweet("2024-12-31T23:59:59Z", "last year tweet"),
		mkTweet("2025-01-01T00:00:00Z", "new year tweet"),
	}

	report, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	if report.Stats.TotalTweets != 1 {
		t.Errorf("Stats.TotalTweets = %d, want 1", report.Stats.TotalTweets)
	}
	if report.AllTime.TotalTweets != 2 {
		t.Errorf("AllTime.TotalTweets = %d, want 2", report.AllTime.TotalTweets)
	}
	// 全期間の最初のツイートは2024年のもの
	if report.AllTime.FirstTweet == nil || report.AllTime.FirstTweet.CreatedAt.Year() != 2024 {
		t.Errorf("AllTime.FirstTweet = %+v, want the 2024 tweet", report.AllTime.FirstTweet)
	}
}

// TestAggregate_RetweetExclusions はリツイートが語数・最長ツイート・語彙から
// 除外され、絵文字とメディアには寄与することを検証する。
func TestAggregate_RetweetExclusions(t *testing.T) {
	rt := mkTweet("2025-05-01T09:00:00Z", "RT @bob: something amazing happened today 🎉")
	rt.Entities.Media = []model.Media{{Type: "photo", MediaURL: "https://pbs.example/p.jpg"}}

	report, err := Aggregate([]model.Tweet{rt}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	ys := report.Stats
	if ys.TotalWords != 0 {
		t.Errorf("TotalWords = %d, want 0 (retweets excluded)", ys.TotalWords)
	}
	if len(ys.TopWordsList) != 0 {
		t.Errorf("TopWordsList = %+v, want empty (retweets excluded)", ys.TopWordsList)
	}
	if ys.LongestTweet != nil {
		t.Errorf("LongestTweet = %+v, want nil (retweets excluded)", ys.LongestTweet)
	}
	if len(ys.TopEmojis) != 1 || ys.TopEmojis[0].Name != "🎉" {
		t.Errorf("TopEmojis = %+v, want the 🎉 from the retweet", ys.TopEmojis)
	}
	if ys.TweetsWithMedia != 1 || ys.MediaTypes["photo"] != 1 {
		t.Errorf("media stats = %d / %+v, want retweet media counted", ys.TweetsWithMedia, ys.MediaTypes)
	}
}

// TestAggregate_TieBreakFirstWins は同数エンゲージメントで先に出現した
// レコードが保持されることを検証する。
func TestAggregate_TieBreakFirstWins(t *testing.T) {
	first := mkTweet("2025-07-01T10:00:00Z", "first tweet")
	first.FavoriteCount = "10"
	second := mkTweet("2025-07-02T10:00:00Z", "second tweet")
	second.FavoriteCount = "10"

	report, err := Aggregate([]model.Tweet{first, second}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	got := report.Stats.MostLikedTweet
	if got == nil || got.ID != first.ID {
		t.Errorf("MostLikedTweet.ID = %v, want first-encountered %q", got, first.ID)
	}

	// 厳密に大きい場合のみ入れ替わる
	third := mkTweet("2025-07-03T10:00:00Z", "third tweet")
	third.FavoriteCount = "11"
	report, err = Aggregate([]model.Tweet{first, second, third}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if report.Stats.MostLikedTweet.ID != third.ID {
		t.Errorf("MostLikedTweet.ID = %q, want %q", report.Stats.MostLikedTweet.ID, third.ID)
	}
}

// TestAggregate_LongestStreak はストリーク計算を検証する。
// {01-01, 01-02, 01-03, 01-10} の異なり日ならストリークは3。
func TestAggregate_LongestStreak(t *testing.T) {
	tweets := []model.Tweet{
		mkTweet("2025-01-01T10:00:00Z", "day one"),
		mkTweet("2025-01-02T10:00:00Z", "day two"),
		mkTweet("2025-01-02T18:00:00Z", "day two again"),
		mkTweet("2025-01-03T10:00:00Z", "day three"),
		mkTweet("2025-01-10T10:00:00Z", "after the gap"),
	}

	report, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if report.Stats.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", report.Stats.LongestStreak)
	}

	// 異なり日が1日ならストリークは1
	report, err = Aggregate(tweets[:1], 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if report.Stats.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", report.Stats.LongestStreak)
	}
}

// TestAggregate_TopKOrdering はtop-Kリストが件数の降順で、同数なら
// 先に観測されたキーが先に並ぶことを検証する。
func TestAggregate_TopKOrdering(t *testing.T) {
	mk := func(ts, tag string) model.Tweet {
		tw := mkTweet(ts, "tagged tweet")
		tw.Entities.Hashtags = []model.Hashtag{{Text: tag}}
		return tw
	}
	tweets := []model.Tweet{
		mk("2025-02-01T10:00:00Z", "golang"),
		mk("2025-02-01T11:00:00Z", "rust"),
		mk("2025-02-01T12:00:00Z", "golang"),
		mk("2025-02-01T13:00:00Z", "zig"), // rustと同数、rustより後に観測
	}

	report, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	got := report.Stats.TopHashtags
	want := []model.CountEntry{
		{Name: "golang", Count: 2},
		{Name: "rust", Count: 1},
		{Name: "zig", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopHashtags = %+v, want %+v", got, want)
	}

	// 降順かつ重複なしの性質
	seen := map[string]bool{}
	for i, e := range got {
		if i > 0 && e.Count > got[i-1].Count {
			t.Errorf("TopHashtags not non-increasing at %d: %+v", i, got)
		}
		if seen[e.Name] {
			t.Errorf("duplicate entry %q in TopHashtags", e.Name)
		}
		seen[e.Name] = true
	}
}

// TestAggregate_Idempotence は同一入力に対して常に同一のReportを返すことを検証する。
func TestAggregate_Idempotence(t *testing.T) {
	reply := mkTweet("2025-04-02T12:00:00Z", "@carol nice! 🙌")
	reply.InReplyToStatusID = "42"
	tweets := []model.Tweet{
		mkTweet("2025-04-01T07:30:00Z", "morning #coffee thoughts"),
		reply,
		mkTweet("2025-04-03T22:00:00Z", "RT @dave: late night take"),
	}
	tweets[0].Entities.Hashtags = []model.Hashtag{{Text: "Coffee"}}

	first, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	second, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same input produced different Reports")
	}
}

// TestAggregate_InvalidTweet は必須フィールド欠損で集計全体が中断することを検証する。
func TestAggregate_InvalidTweet(t *testing.T) {
	tests := []struct {
		name  string
		tweet model.Tweet
	}{
		{"missing_created_at", model.Tweet{FullText: "hello"}},
		{"missing_full_text", model.Tweet{CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := mkTweet("2025-06-15T12:00:00Z", "ok tweet")
			_, err := Aggregate([]model.Tweet{valid, tt.tweet}, 2025)
			if err == nil {
				t.Fatal("expected error for invalid tweet")
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *model.APIError, got %T", err)
			}
			if apiErr.Code != model.ErrCodeInvalidTweet {
				t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeInvalidTweet)
			}
		})
	}
}

// TestAggregate_MalformedCounts は不正なカウント文字列が0として扱われることを検証する。
func TestAggregate_MalformedCounts(t *testing.T) {
	tw := mkTweet("2025-08-08T08:00:00Z", "malformed counts")
	tw.FavoriteCount = "not-a-number"
	tw.RetweetCount = ""

	report, err := Aggregate([]model.Tweet{tw}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if report.Stats.TotalLikes != 0 || report.Stats.TotalRetwCounts != 0 {
		t.Errorf("totals = %d/%d, want 0/0",
			report.Stats.TotalLikes, report.Stats.TotalRetwCounts)
	}
}

// TestAggregate_MostActiveDayTie は最多アクティブ日の同数タイブレークで
// より早い日付が選ばれることを検証する。
func TestAggregate_MostActiveDayTie(t *testing.T) {
	tweets := []model.Tweet{
		mkTweet("2025-09-05T10:00:00Z", "later day a"),
		mkTweet("2025-09-05T11:00:00Z", "later day b"),
		mkTweet("2025-09-01T10:00:00Z", "earlier day a"),
		mkTweet("2025-09-01T11:00:00Z", "earlier day b"),
	}

	report, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	most := report.Stats.MostActiveDay
	if most == nil || most.Date != "2025-09-01" || most.Count != 2 {
		t.Errorf("MostActiveDay = %+v, want 2025-09-01 with count 2", most)
	}
}

// TestAggregate_StopWordsAndShortTokens は語彙ランキングからストップワードと
// 2文字以下の語が除外されることを検証する。
func TestAggregate_StopWordsAndShortTokens(t *testing.T) {
	tw := mkTweet("2025-10-10T10:00:00Z", "the quick brown fox is on it")

	report, err := Aggregate([]model.Tweet{tw}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	want := []model.CountEntry{
		{Name: "quick", Count: 1},
		{Name: "brown", Count: 1},
		{Name: "fox", Count: 1},
	}
	if !reflect.DeepEqual(report.Stats.TopWordsList, want) {
		t.Errorf("TopWordsList = %+v, want %+v", report.Stats.TopWordsList, want)
	}
}

// TestAggregate_WeekdayAndMonthBuckets は曜日（0=日曜）と月のバケット位置を検証する。
func TestAggregate_WeekdayAndMonthBuckets(t *testing.T) {
	// 2025-06-15は日曜日
	tw := mkTweet("2025-06-15T12:00:00Z", "sunday tweet")

	report, err := Aggregate([]model.Tweet{tw}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	if report.Stats.DailyDistribution[0] != 1 {
		t.Errorf("DailyDistribution[0] = %d, want 1 (Sunday)", report.Stats.DailyDistribution[0])
	}
	if report.Stats.MonthlyDistribution[5] != 1 {
		t.Errorf("MonthlyDistribution[5] = %d, want 1 (June)", report.Stats.MonthlyDistribution[5])
	}
}

// TestAggregate_MentionNames はメンションランキングに初回観測時の表示名が
// 付与されることを検証する。
func TestAggregate_MentionNames(t *testing.T) {
	first := mkTweet("2025-11-01T10:00:00Z", "@bob hello")
	first.Entities.UserMentions = []model.UserMention{{ScreenName: "bob", Name: "Bob Smith"}}
	second := mkTweet("2025-11-02T10:00:00Z", "@bob again")
	second.Entities.UserMentions = []model.UserMention{{ScreenName: "bob", Name: "Bobby"}}

	report, err := Aggregate([]model.Tweet{first, second}, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	want := []model.MentionEntry{{Handle: "bob", Name: "Bob Smith", Count: 2}}
	if !reflect.DeepEqual(report.Stats.TopMentions, want) {
		t.Errorf("TopMentions = %+v, want %+v", report.Stats.TopMentions, want)
	}
	if report.Stats.UniqueMentionsCount != 1 {
		t.Errorf("UniqueMentionsCount = %d, want 1", report.Stats.UniqueMentionsCount)
	}
}

// TestExtractSourceLabel はsourceフィールドのラベル抽出規則を検証する。
func TestExtractSourceLabel(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "anchor_tag",
			source: `<a href="https://mobile.twitter.com" rel="nofollow">Twitter for iPhone</a>`,
			want:   "Twitter for iPhone",
		},
		{
			name:   "no_delimiters",
			source: "Twitter Web App",
			want:   "Twitter Web App",
		},
		{
			name:   "gt_without_lt",
			source: "broken > label",
			want:   "broken > label",
		},
		{
			name:   "empty",
			source: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSourceLabel(tt.source); got != tt.want {
				t.Errorf("extractSourceLabel(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

// TestAggregate_AvgTweetLength は文字数平均が四捨五入されることを検証する。
func TestAggregate_AvgTweetLength(t *testing.T) {
	tweets := []model.Tweet{
		mkTweet("2025-12-01T10:00:00Z", "abcde"),   // 5文字
		mkTweet("2025-12-02T10:00:00Z", "abcdefgh"), // 8文字 → 平均6.5 → 7
	}

	report, err := Aggregate(tweets, 2025)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if report.Stats.AvgTweetLength != 7 {
		t.Errorf("AvgTweetLength = %d, want 7", report.Stats.AvgTweetLength)
	}
}
