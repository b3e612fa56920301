package stats

import (
	"sort"

	"github.com/hitoshi/tweetwrap/internal/model"
)

// counter は初回観測順を保持する頻度カウンタ。
// top-K抽出の同数タイブレークは「先に観測されたものが勝つ」契約であり、
// Goのmap走査順に依存しないよう観測順スライスを併せて保持する。
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

// add はキーの出現を1回記録する。
func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// distinct は観測された異なりキー数を返す。
func (c *counter) distinct() int {
	return len(c.counts)
}

// top は出現回数の降順でK件までのエントリを返す。
// 同数の場合は先に観測されたキーが先に並ぶ（安定ソート）。
// 戻り値は常に非nil（エントリが無ければ空スライス）。
func (c *counter) top(k int) []model.CountEntry {
	keys := make([]string, len(c.order))
	copy(keys, c.order)

	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})

	if len(keys) > k {
		keys = keys[:k]
	}

	out := make([]model.CountEntry, 0, len(keys))
	for _, key := range keys {
		out = append(out, model.CountEntry{Name: key, Count: c.counts[key]})
	}
	return out
}
