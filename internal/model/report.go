package model

import "time"

// Report は1回の集計で生成される統計レポートを表す。
// 集計後に変更されることはなく、レンダラーと共有ストアがそのまま利用する。
// JSONフィールド名はレンダラーとのバインディング契約であり、安定している。
type Report struct {
	Year    int          `json:"year"`
	Stats   YearStats    `json:"stats"`
	AllTime AllTimeStats `json:"allTimeStats"`
}

// YearStats は対象年のツイートのみを母集団とした統計を表す。
type YearStats struct {
	TotalTweets     int `json:"totalTweets"`
	TotalRetweets   int `json:"totalRetweets"`
	TotalReplies    int `json:"totalReplies"`
	TotalOriginal   int `json:"totalOriginal"`
	TotalLikes      int `json:"totalLikes"`
	TotalRetwCounts int `json:"totalRetwCounts"`
	TweetsWithMedia int `json:"tweetsWithMedia"`
	TotalWords      int `json:"totalWords"`

	HourlyDistribution  [24]int `json:"hourlyDistribution"`
	DailyDistribution   [7]int  `json:"dailyDistribution"` // 0=日曜
	MonthlyDistribution [12]int `json:"monthlyDistribution"`

	MostLikedTweet     *TweetRef `json:"mostLikedTweet,omitempty"`
	MostRetweetedTweet *TweetRef `json:"mostRetweetedTweet,omitempty"`
	LongestTweet       *TweetRef `json:"longestTweet,omitempty"`
	FirstTweet         *TweetRef `json:"firstTweet,omitempty"`
	LastTweet          *TweetRef `json:"lastTweet,omitempty"`

	TweetsPerDay        float64 `json:"tweetsPerDay"`
	AvgLikesPerTweet    float64 `json:"avgLikesPerTweet"`
	AvgRetweetsPerTweet float64 `json:"avgRetweetsPerTweet"`
	AvgTweetLength      int     `json:"avgTweetLength"`

	MostActiveDay  *DayCount `json:"mostActiveDay,omitempty"`
	LeastActiveDay *DayCount `json:"leastActiveDay,omitempty"`
	LongestStreak  int       `json:"longestStreak"`

	TopHashtags  []CountEntry   `json:"topHashtags"`
	TopMentions  []MentionEntry `json:"topMentions"`
	TopEmojis    []CountEntry   `json:"topEmojis"`
	TopSources   []CountEntry   `json:"topSources"`
	TopLanguages []CountEntry   `json:"topLanguages"`
	TopWordsList []CountEntry   `json:"topWordsList"`

	MediaTypes map[string]int `json:"mediaTypes"`

	UniqueHashtagsCount int `json:"uniqueHashtagsCount"`
	UniqueMentionsCount int `json:"uniqueMentionsCount"`
}

// AllTimeStats は年フィルタをかけない全期間の統計を表す。
// 年次統計と同じ1パスで安価に集計できるもののみを含む。
type AllTimeStats struct {
	TotalTweets         int            `json:"totalTweets"`
	TotalWords          int            `json:"totalWords"`
	MediaTypes          map[string]int `json:"mediaTypes"`
	UniqueMentionsCount int            `json:"uniqueMentionsCount"`
	FirstTweet          *TweetRef      `json:"firstTweet,omitempty"`
}

// TweetRef はレポートに保持するツイートへの軽量参照を表す。
// 作業用アキュムレータの中間構造とは異なり、表示に必要な値のみを持つ。
type TweetRef struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Favorites int       `json:"favorites"`
	Retweets  int       `json:"retweets"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
}

// DayCount はカレンダー日（UTC, YYYY-MM-DD）ごとのツイート数を表す。
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CountEntry は頻度ランキングの1エントリを表す。
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MentionEntry はメンションランキングの1エントリを表す。
// ハンドルに加えて最初に観測された表示名を保持する。
type MentionEntry struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// AccountInfo はレンダラーと共有ストアに渡すアカウント表示情報を表す。
type AccountInfo struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatarUrl"`
}

// WrappedData はプロフィール情報とReportを束ねた共有用の値を表す。
// 共有ストアにはこの値が不透明なJSON blobとして保存される。
type WrappedData struct {
	Account    AccountInfo `json:"account"`
	Followers  int         `json:"followers"`
	Following  int         `json:"following"`
	TotalLikes int         `json:"totalLikes"` // ユーザーがいいねした件数（受けた数ではない）
	Report     Report      `json:"report"`
}
