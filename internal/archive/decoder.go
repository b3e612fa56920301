// Package archive はTwitterデータエクスポートの読み込みとデコードを行う。
//
// エクスポートの各データファイルはJSONではなく、グローバル変数への代入文
// （window.YTD.<name>.partN = [...]）として格納されているため、
// 代入プレフィックスを剥がしてからJSONとしてデコードする。
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/hitoshi/tweetwrap/internal/model"
)

// twitterTimeLayout はエクスポート内のcreated_at形式。
// 例: "Sun Jun 15 12:00:00 +0000 2025"
const twitterTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// stripPayload は window.YTD.<varName>.partN = プレフィックスを剥がし、
// JSON配列部分のバイト列を返す。
func stripPayload(content []byte, varName string) ([]byte, error) {
	pattern, err := regexp.Compile(`window\.YTD\.` + regexp.QuoteMeta(varName) + `\.part\d+ = `)
	if err != nil {
		return nil, err
	}
	loc := pattern.FindIndex(content)
	if loc == nil {
		return nil, fmt.Errorf("assignment prefix for %q not found", varName)
	}
	start := bytes.IndexByte(content[loc[0]:], '[')
	if start < 0 {
		return nil, fmt.Errorf("JSON array for %q not found", varName)
	}
	return content[loc[0]+start:], nil
}

// tweetEnvelope はtweets.jsの1要素を表す。各ツイートはtweetキーで包まれている。
type tweetEnvelope struct {
	Tweet tweetWire `json:"tweet"`
}

type tweetWire struct {
	IDStr             string       `json:"id_str"`
	CreatedAt         string       `json:"created_at"`
	FullText          string       `json:"full_text"`
	Source            string       `json:"source"`
	Lang              string       `json:"lang"`
	FavoriteCount     string       `json:"favorite_count"`
	RetweetCount      string       `json:"retweet_count"`
	InReplyToStatusID *string      `json:"in_reply_to_status_id_str"`
	Entities          entitiesWire `json:"entities"`
	ExtendedEntities  entitiesWire `json:"extended_entities"`
}

type entitiesWire struct {
	Hashtags []struct {
		Text string `json:"text"`
	} `json:"hashtags"`
	UserMentions []struct {
		ScreenName string `json:"screen_name"`
		Name       string `json:"name"`
	} `json:"user_mentions"`
	Media []struct {
		Type          string `json:"type"`
		MediaURLHTTPS string `json:"media_url_https"`
	} `json:"media"`
}

// decodeTweets はtweets.jsファイルの内容をツイートのスライスにデコードする。
func decodeTweets(content []byte) ([]model.Tweet, error) {
	payload, err := stripPayload(content, "tweets")
	if err != nil {
		return nil, err
	}
	var envelopes []tweetEnvelope
	if err := json.Unmarshal(payload, &envelopes); err != nil {
		return nil, err
	}

	tweets := make([]model.Tweet, 0, len(envelopes))
	for _, env := range envelopes {
		tweets = append(tweets, env.Tweet.toModel())
	}
	return tweets, nil
}

// toModel はワイヤ形式をドメインモデルに変換する。
// created_atが解析できない場合はゼロ値のままにし、検証は集計側に委ねる。
func (w *tweetWire) toModel() model.Tweet {
	t := model.Tweet{
		ID:            w.IDStr,
		FullText:      w.FullText,
		Source:        w.Source,
		Lang:          w.Lang,
		FavoriteCount: w.FavoriteCount,
		RetweetCount:  w.RetweetCount,
	}
	if w.CreatedAt != "" {
		if ts, err := time.Parse(twitterTimeLayout, w.CreatedAt); err == nil {
			t.CreatedAt = ts.UTC()
		}
	}
	if w.InReplyToStatusID != nil {
		t.InReplyToStatusID = *w.InReplyToStatusID
	}
	t.Entities = w.Entities.toModel()
	t.ExtendedEntities = w.ExtendedEntities.toModel()
	return t
}

func (w *entitiesWire) toModel() model.Entities {
	var e model.Entities
	for _, h := range w.Hashtags {
		e.Hashtags = append(e.Hashtags, model.Hashtag{Text: h.Text})
	}
	for _, m := range w.UserMentions {
		e.UserMentions = append(e.UserMentions, model.UserMention{
			ScreenName: m.ScreenName,
			Name:       m.Name,
		})
	}
	for _, md := range w.Media {
		e.Media = append(e.Media, model.Media{
			Type:     md.Type,
			MediaURL: md.MediaURLHTTPS,
		})
	}
	return e
}

// accountEnvelope はaccount.jsの1要素を表す。
type accountEnvelope struct {
	Account struct {
		Username           string `json:"username"`
		AccountDisplayName string `json:"accountDisplayName"`
		CreatedAt          string `json:"createdAt"`
	} `json:"account"`
}

// decodeAccount はaccount.jsファイルの内容をデコードする。
func decodeAccount(content []byte) (model.Account, error) {
	payload, err := stripPayload(content, "account")
	if err != nil {
		return model.Account{}, err
	}
	var envelopes []accountEnvelope
	if err := json.Unmarshal(payload, &envelopes); err != nil {
		return model.Account{}, err
	}
	if len(envelopes) == 0 {
		return model.Account{}, nil
	}

	acc := model.Account{
		Username:    envelopes[0].Account.Username,
		DisplayName: envelopes[0].Account.AccountDisplayName,
	}
	if acc.DisplayName == "" {
		acc.DisplayName = acc.Username
	}
	if raw := envelopes[0].Account.CreatedAt; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			acc.CreatedAt = ts.UTC()
		}
	}
	return acc, nil
}

// profileEnvelope はprofile.jsの1要素を表す。
type profileEnvelope struct {
	Profile struct {
		Description struct {
			Bio      string `json:"bio"`
			Location string `json:"location"`
		} `json:"description"`
		AvatarMediaURL string `json:"avatarMediaUrl"`
		HeaderMediaURL string `json:"headerMediaUrl"`
	} `json:"profile"`
}

// decodeProfile はprofile.jsファイルの内容をデコードする。
func decodeProfile(content []byte) (model.Profile, error) {
	payload, err := stripPayload(content, "profile")
	if err != nil {
		return model.Profile{}, err
	}
	var envelopes []profileEnvelope
	if err := json.Unmarshal(payload, &envelopes); err != nil {
		return model.Profile{}, err
	}
	if len(envelopes) == 0 {
		return model.Profile{}, nil
	}

	p := envelopes[0].Profile
	return model.Profile{
		Bio:       p.Description.Bio,
		Location:  p.Description.Location,
		AvatarURL: p.AvatarMediaURL,
		HeaderURL: p.HeaderMediaURL,
	}, nil
}

// decodeCount はlike.js / follower.js / following.jsの要素数を返す。
// これらのファイルは件数のみを利用する。
func decodeCount(content []byte, varName string) (int, error) {
	payload, err := stripPayload(content, varName)
	if err != nil {
		return 0, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}
