package stats

// emojiRanges は絵文字として数えるUnicodeコードポイント範囲の固定リスト。
// Miscellaneous Symbols系、Emoticons、Transport、Regional Indicatorを含む。
var emojiRanges = [...]struct{ lo, hi rune }{
	{0x1F300, 0x1F9FF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
}

// isEmoji はルーンが絵文字範囲に含まれるかを返す。
func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}

// extractEmojis はテキスト中の絵文字を出現順に返す。
// 国旗などの合成絵文字は構成コードポイントごとに個別に数える。
func extractEmojis(text string) []string {
	var out []string
	for _, r := range text {
		if isEmoji(r) {
			out = append(out, string(r))
		}
	}
	return out
}
