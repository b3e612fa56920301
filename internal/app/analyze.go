package app

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/tweetwrap/internal/archive"
	"github.com/hitoshi/tweetwrap/internal/model"
	"github.com/hitoshi/tweetwrap/internal/render"
	"github.com/hitoshi/tweetwrap/internal/stats"
)

// analyzeOptions はanalyzeサブコマンドの実行オプション。
type analyzeOptions struct {
	archivePath string
	year        int
	outPath     string
	chartsPath  string
	jsonPath    string
	shareServer string
}

// parseAnalyzeArgs はanalyzeサブコマンドのフラグと位置引数を解析する。
// argsにはサブコマンド名を除いた引数を渡す。
func parseAnalyzeArgs(args []string) (*analyzeOptions, error) {
	opts := &analyzeOptions{}

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.IntVar(&opts.year, "year", defaultTargetYear(), "target year for the yearly stats")
	fs.StringVar(&opts.outPath, "out", "wrapped.html", "output path for the wrapped page")
	fs.StringVar(&opts.chartsPath, "charts", "", "output path for the charts dashboard (disabled when empty)")
	fs.StringVar(&opts.jsonPath, "json", "", "output path for the wrapped data JSON (disabled when empty)")
	fs.StringVar(&opts.shareServer, "share", "", "base URL of a tweetwrap server to create a share on (disabled when empty)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.archivePath = fs.Arg(0)
	if opts.archivePath == "" {
		return nil, fmt.Errorf("usage: tweetwrap analyze [flags] <archive dir or zip>")
	}

	return opts, nil
}

// defaultTargetYear は環境変数TARGET_YEARから対象年のデフォルト値を返す。
func defaultTargetYear() int {
	if v := os.Getenv("TARGET_YEAR"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			return year
		}
	}
	return 2025
}

// runAnalyze はローカルのTwitterエクスポートを解析し、ラップドページを生成する。
// オプションでチャートダッシュボードとJSONの出力、サーバーへの共有作成を行う。
func runAnalyze(args []string) error {
	opts, err := parseAnalyzeArgs(args)
	if err != nil {
		return err
	}

	// 1. エクスポートの読み込み（ディレクトリまたはzip）
	export, err := archive.Load(opts.archivePath)
	if err != nil {
		return fmt.Errorf("failed to load archive: %w", err)
	}

	slog.Info("archive loaded",
		slog.String("path", opts.archivePath),
		slog.String("username", export.Account.Username),
		slog.Int("tweet_count", len(export.Tweets)),
	)

	// 2. 集計
	report, err := stats.Aggregate(export.Tweets, opts.year)
	if err != nil {
		return fmt.Errorf("failed to aggregate tweets: %w", err)
	}

	data := buildWrappedData(export, report)

	// 3. ラップドページの出力
	if err := writeWrappedPage(opts.outPath, data); err != nil {
		return err
	}
	slog.Info("wrapped page written", slog.String("path", opts.outPath))

	// 4. チャートダッシュボードの出力
	if opts.chartsPath != "" {
		if err := writeChartsPage(opts.chartsPath, report); err != nil {
			return err
		}
		slog.Info("charts page written", slog.String("path", opts.chartsPath))
	}

	// 5. JSONの出力
	if opts.jsonPath != "" {
		if err := writeWrappedJSON(opts.jsonPath, data); err != nil {
			return err
		}
		slog.Info("wrapped data written", slog.String("path", opts.jsonPath))
	}

	// 6. サーバーへの共有作成
	if opts.shareServer != "" {
		shareURL, err := createShare(opts.shareServer, data)
		if err != nil {
			return fmt.Errorf("failed to create share: %w", err)
		}
		slog.Info("share created", slog.String("url", shareURL))
	}

	return nil
}

// buildWrappedData はエクスポートと集計結果からWrappedDataを組み立てる。
func buildWrappedData(export *archive.Export, report *model.Report) *model.WrappedData {
	return &model.WrappedData{
		Account: model.AccountInfo{
			Username:    export.Account.Username,
			DisplayName: export.Account.DisplayName,
			Bio:         export.Profile.Bio,
			Location:    export.Profile.Location,
			AvatarURL:   export.Profile.AvatarURL,
		},
		Followers:  export.FollowerCount,
		Following:  export.FollowingCount,
		TotalLikes: export.LikeCount,
		Report:     *report,
	}
}

// writeWrappedPage はラップドページのHTMLをファイルに書き出す。
// ローカル出力のため共有メタタグは含めない。
func writeWrappedPage(path string, data *model.WrappedData) error {
	renderer, err := render.New("")
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := renderer.WrappedPage(f, renderer.BuildView(data, "")); err != nil {
		return fmt.Errorf("failed to render wrapped page: %w", err)
	}

	return nil
}

// writeChartsPage はチャートダッシュボードのHTMLをファイルに書き出す。
func writeChartsPage(path string, report *model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := render.ChartsPage(f, report); err != nil {
		return fmt.Errorf("failed to render charts page: %w", err)
	}

	return nil
}

// writeWrappedJSON はWrappedDataをインデント付きJSONでファイルに書き出す。
func writeWrappedJSON(path string, data *model.WrappedData) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wrapped data: %w", err)
	}

	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// createShare は稼働中のサーバーに共有を作成し、共有URLを返す。
func createShare(server string, data *model.WrappedData) (string, error) {
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return "", fmt.Errorf("failed to marshal share request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	endpoint := strings.TrimRight(server, "/") + "/api/share"

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("share request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("share request returned status %d", resp.StatusCode)
	}

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode share response: %w", err)
	}

	return result.URL, nil
}
