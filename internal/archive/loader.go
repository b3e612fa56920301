package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hitoshi/tweetwrap/internal/model"
)

// Export はTwitterデータエクスポートから読み込んだ内容を表す。
// tweets.js以外のファイルは欠損を許容し、ゼロ値のまま返す。
type Export struct {
	Account        model.Account
	Profile        model.Profile
	Tweets         []model.Tweet
	LikeCount      int
	FollowerCount  int
	FollowingCount int
}

// partPattern は分割ファイル名（例: tweets-part1.js）にマッチする。
var partPattern = regexp.MustCompile(`^(tweets|like|follower|following)-part\d+\.js$`)

// fileSet はエクスポート内のファイル名から内容への対応。
// ディレクトリ形式とzip形式の違いをここで吸収する。
type fileSet map[string][]byte

// LoadDir はディレクトリ形式のエクスポートを読み込む。
// dirはtweets.jsを含むディレクトリ（通常はアーカイブ内のdata/）を指す。
func LoadDir(dir string) (*Export, error) {
	files := fileSet{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read export directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !wantedFile(entry.Name()) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		files[entry.Name()] = content
	}
	return buildExport(files)
}

// LoadZip はzip形式のエクスポートを読み込む。
// ファイルはアーカイブ内のどの階層にあってもベース名で発見する。
func LoadZip(zipPath string) (*Export, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open export zip: %w", err)
	}
	defer r.Close()

	files := fileSet{}
	for _, f := range r.File {
		name := path.Base(f.Name)
		if !wantedFile(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in zip: %w", f.Name, err)
		}
		files[name] = content
	}
	return buildExport(files)
}

// Load はパスの種別を判定して適切なローダに委譲する。
func Load(p string) (*Export, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("export path %s does not exist", p)
		}
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(p)
	}
	return LoadZip(p)
}

// wantedFile は読み込み対象のエクスポートファイルかどうかを返す。
func wantedFile(name string) bool {
	switch name {
	case "tweets.js", "account.js", "profile.js", "like.js", "follower.js", "following.js":
		return true
	}
	return partPattern.MatchString(name)
}

// buildExport はファイル集合からExportを構築する。
// tweets.jsのみ必須で、欠損時はARCHIVE_FILE_MISSINGエラーを返す。
func buildExport(files fileSet) (*Export, error) {
	if _, ok := files["tweets.js"]; !ok {
		return nil, model.NewArchiveFileMissingError("tweets.js")
	}

	export := &Export{}

	// 1. ツイート本体（分割ファイルを番号順に連結する）
	for _, name := range orderedNames(files, "tweets") {
		tweets, err := decodeTweets(files[name])
		if err != nil {
			return nil, model.NewArchiveParseFailedError(name, err.Error())
		}
		export.Tweets = append(export.Tweets, tweets...)
	}

	// 2. アカウントとプロフィール（任意）
	if content, ok := files["account.js"]; ok {
		account, err := decodeAccount(content)
		if err != nil {
			slog.Warn("skipping unreadable account.js", "error", err)
		} else {
			export.Account = account
		}
	}
	if content, ok := files["profile.js"]; ok {
		profile, err := decodeProfile(content)
		if err != nil {
			slog.Warn("skipping unreadable profile.js", "error", err)
		} else {
			export.Profile = profile
		}
	}

	// 3. いいね・フォロワー・フォロー数（任意、分割ファイル対応）
	export.LikeCount = countEntries(files, "like")
	export.FollowerCount = countEntries(files, "follower")
	export.FollowingCount = countEntries(files, "following")

	return export, nil
}

// orderedNames はbase.jsとbase-partN.jsのうち存在するものを名前順で返す。
func orderedNames(files fileSet, base string) []string {
	var names []string
	if _, ok := files[base+".js"]; ok {
		names = append(names, base+".js")
	}
	var parts []string
	for name := range files {
		if strings.HasPrefix(name, base+"-part") && partPattern.MatchString(name) {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	return append(names, parts...)
}

// countEntries は対象ファイル群の要素数を合算する。解析できないファイルは
// 警告を出して0として扱う。
func countEntries(files fileSet, varName string) int {
	total := 0
	for _, name := range orderedNames(files, varName) {
		n, err := decodeCount(files[name], varName)
		if err != nil {
			slog.Warn("skipping unreadable export file", "file", name, "error", err)
			continue
		}
		total += n
	}
	return total
}
