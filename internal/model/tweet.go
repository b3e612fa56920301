// Package model はドメインモデルを定義する。
package model

import (
	"strconv"
	"strings"
	"time"
)

// retweetPrefix はリツイートを判定する本文プレフィックス。
const retweetPrefix = "RT @"

// Tweet はTwitterエクスポートから復元された1件のツイートを表す。
// エクスポートのネイティブ表現（window.YTD形式）からデコード済みの状態。
type Tweet struct {
	ID                string
	CreatedAt         time.Time // UTCのカレンダー要素のみ集計に使用する
	FullText          string
	Source            string // クライアントラベル（通常は<a>タグで包まれた表示文字列）
	Lang              string
	FavoriteCount     string // エクスポートでは数値が文字列で格納される
	RetweetCount      string
	InReplyToStatusID string // 空文字列は非リプライを表す
	Entities          Entities
	ExtendedEntities  Entities
}

// Entities はツイートに付随するエンティティ群を表す。
// いずれのリストも省略可能で、nilは空として扱う。
type Entities struct {
	Hashtags     []Hashtag
	UserMentions []UserMention
	Media        []Media
}

// Hashtag はハッシュタグエンティティを表す。
type Hashtag struct {
	Text string
}

// UserMention はメンションエンティティを表す。
type UserMention struct {
	ScreenName string
	Name       string
}

// Media はメディア添付エンティティを表す。
type Media struct {
	Type     string // photo, video, animated_gif など
	MediaURL string
}

// TweetKind はツイートの分類を表す。
type TweetKind int

const (
	// KindOriginal はリツイートでもリプライでもないツイート。
	KindOriginal TweetKind = iota
	// KindRetweet は本文が "RT @" で始まるツイート。
	KindRetweet
	// KindReply はin_reply_toが設定されたツイート。
	KindReply
)

// Kind はツイートの分類を返す。
// 判定優先順位: リツイート > リプライ > オリジナル。
func (t *Tweet) Kind() TweetKind {
	if t.IsRetweet() {
		return KindRetweet
	}
	if t.InReplyToStatusID != "" {
		return KindReply
	}
	return KindOriginal
}

// IsRetweet は本文が "RT @" で始まるかどうかを返す。
func (t *Tweet) IsRetweet() bool {
	return strings.HasPrefix(t.FullText, retweetPrefix)
}

// Favorites はfavorite_countを整数として返す。
// 不正な値や欠損は0として扱う（エラーにしない）。
func (t *Tweet) Favorites() int {
	return parseCount(t.FavoriteCount)
}

// Retweets はretweet_countを整数として返す。
// 不正な値や欠損は0として扱う（エラーにしない）。
func (t *Tweet) Retweets() int {
	return parseCount(t.RetweetCount)
}

// MediaList は集計対象のメディアリストを返す。
// extended_entitiesを優先し、なければ旧形式のentitiesにフォールバックする。
func (t *Tweet) MediaList() []Media {
	if len(t.ExtendedEntities.Media) > 0 {
		return t.ExtendedEntities.Media
	}
	return t.Entities.Media
}

// parseCount はエクスポートのカウント文字列を非負整数に変換する。
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
