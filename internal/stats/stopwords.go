package stats

// stopWords は語彙ランキングから除外する固定のストップワード集合。
// 冠詞・代名詞・助動詞などの汎用語に加えて、ネットスラングの略語を含む。
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "is", "it",
		"this", "that", "with", "as", "be", "was", "are", "been", "being", "have", "has", "had",
		"do", "does", "did", "will", "would", "could", "should", "may", "might", "must", "shall",
		"can", "need", "dare", "ought", "used", "i", "me", "my", "you", "your", "we", "our",
		"they", "them", "their", "he", "she", "him", "her", "his", "its", "if", "so", "just",
		"not", "no", "yes", "all", "any", "more", "some", "such", "only", "very", "too", "also",
		"now", "then", "here", "there", "when", "where", "why", "how", "what", "which", "who",
		"whom", "whose", "than", "from", "into", "over", "under", "again", "further", "once",
		"about", "out", "up", "down", "off", "rt", "amp", "im", "ive", "dont", "cant", "wont",
		"didnt", "like", "get", "got", "gonna", "really", "think", "know", "lol", "u", "ur",
		"bc", "tho", "rn", "thats", "lmao", "omg", "don",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// isStopWord は語がストップワード集合に含まれるかを返す。
func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
