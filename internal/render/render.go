package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/tweetwrap/internal/model"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

// urlPattern は本文から除去するURLにマッチする。
var urlPattern = regexp.MustCompile(`https?://\S+`)

// Renderer はHTMLページの描画を担う。
// ユーザー由来のテキストはテンプレートに渡す前にサニタイズする。
type Renderer struct {
	templates *template.Template
	policy    *bluemonday.Policy
	baseURL   string
}

// New はRendererを生成する。
// baseURLは共有URLとOG画像URLの組み立てに使用する。
func New(baseURL string) (*Renderer, error) {
	funcs := template.FuncMap{
		"comma":      FormatCount,
		"formatHour": FormatHour,
		"shortenSrc": ShortenSource,
	}
	t, err := template.New("render").Funcs(funcs).ParseFS(templatesFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{
		templates: t,
		policy:    bluemonday.StrictPolicy(),
		baseURL:   baseURL,
	}, nil
}

// WrappedView はラップドページのテンプレートに渡すビューモデル。
type WrappedView struct {
	Year        int
	Username    string
	DisplayName string
	Bio         string
	Location    string
	AvatarURL   string
	Followers   int
	Following   int
	TotalLikes  int

	Stats   *model.YearStats
	AllTime *model.AllTimeStats

	PeakHour        string
	MostActiveMonth string
	MonthTweets     int
	ActiveWeekday   string
	SourceSplit     string
	StreakPhrase    string
	ReplyPct        int
	ViralText       string

	ShareURL      string
	OGImageURL    string
	OGDescription string
}

// BuildView はWrappedDataから表示用のビューモデルを構築する。
// shareIDが空の場合は共有メタタグなしのビューを返す。
func (r *Renderer) BuildView(data *model.WrappedData, shareID string) *WrappedView {
	stats := &data.Report.Stats
	monthName, monthTweets := MostActiveMonth(stats.MonthlyDistribution)

	view := &WrappedView{
		Year:        data.Report.Year,
		Username:    r.policy.Sanitize(data.Account.Username),
		DisplayName: r.policy.Sanitize(data.Account.DisplayName),
		Bio:         r.policy.Sanitize(data.Account.Bio),
		Location:    r.policy.Sanitize(data.Account.Location),
		AvatarURL:   data.Account.AvatarURL,
		Followers:   data.Followers,
		Following:   data.Following,
		TotalLikes:  data.TotalLikes,

		Stats:   stats,
		AllTime: &data.Report.AllTime,

		PeakHour:        PeakHour(stats.HourlyDistribution),
		MostActiveMonth: monthName,
		MonthTweets:     monthTweets,
		ActiveWeekday:   MostActiveWeekday(stats.DailyDistribution),
		SourceSplit:     SourceSplit(stats.TopSources),
		StreakPhrase:    StreakPhrase(stats.LongestStreak),
		ReplyPct:        ReplyPct(stats),
	}
	if stats.MostLikedTweet != nil {
		view.ViralText = TruncateText(stats.MostLikedTweet.Text, 100)
	}
	if shareID != "" {
		view.ShareURL = r.baseURL + "/w/" + shareID
		view.OGImageURL = r.baseURL + "/og/" + shareID + ".png"
		view.OGDescription = fmt.Sprintf("%s tweets, %s likes received. See the full wrapped!",
			FormatCount(stats.TotalTweets), FormatCount(stats.TotalLikes))
	}
	return view
}

// WrappedPage はラップドページをwに書き出す。
func (r *Renderer) WrappedPage(w io.Writer, view *WrappedView) error {
	if err := r.templates.ExecuteTemplate(w, "wrapped.html.tmpl", view); err != nil {
		return fmt.Errorf("failed to render wrapped page: %w", err)
	}
	return nil
}

// LandingPage はトップページをwに書き出す。
func (r *Renderer) LandingPage(w io.Writer, targetYear int) error {
	data := struct{ Year int }{Year: targetYear}
	if err := r.templates.ExecuteTemplate(w, "landing.html.tmpl", data); err != nil {
		return fmt.Errorf("failed to render landing page: %w", err)
	}
	return nil
}

// NotFoundPage は404ページをwに書き出す。
func (r *Renderer) NotFoundPage(w io.Writer) error {
	if err := r.templates.ExecuteTemplate(w, "notfound.html.tmpl", nil); err != nil {
		return fmt.Errorf("failed to render not found page: %w", err)
	}
	return nil
}
