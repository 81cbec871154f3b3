package extraction

// Chunking limits, in runes. Input at or below chunkThreshold is sent
// to the model whole; anything larger is split into chunks of roughly
// chunkTarget runes, cut at natural separators so a single product
// description is never split mid-token.
const (
	chunkThreshold = 3000
	chunkTarget    = 2500
	chunkLookahead = 200
)

// chunkSeparators are the boundary characters a cut may land after:
// item-list punctuation, sentence terminators, and newlines.
var chunkSeparators = map[rune]bool{
	'、': true, '，': true, ',': true,
	'；': true, ';': true,
	'。': true, '！': true, '？': true,
	'!': true, '?': true,
	'\n': true,
}

// SplitText splits oversized input into model-sized chunks. For each
// chunk boundary it scans backward from the target position for the
// nearest separator, then forward up to a bounded lookahead, and hard
// cuts only when neither scan finds one. Concatenating the returned
// chunks in order reproduces the input exactly.
func SplitText(text string) []string {
	return splitRunes([]rune(text), chunkThreshold, chunkTarget, chunkLookahead)
}

func splitRunes(runes []rune, threshold, target, lookahead int) []string {
	if len(runes) <= threshold {
		return []string{string(runes)}
	}

	var chunks []string
	start := 0
	for len(runes)-start > target {
		cut := findCut(runes, start, target, lookahead)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut
	}
	if start < len(runes) {
		chunks = append(chunks, string(runes[start:]))
	}
	return chunks
}

// findCut returns the index one past the separator closest to
// start+target, preferring the backward direction. The cut always
// advances past start so splitting terminates.
func findCut(runes []rune, start, target, lookahead int) int {
	end := start + target

	for i := end - 1; i > start; i-- {
		if chunkSeparators[runes[i]] {
			return i + 1
		}
	}

	limit := end + lookahead
	if limit > len(runes) {
		limit = len(runes)
	}
	for i := end; i < limit; i++ {
		if chunkSeparators[runes[i]] {
			return i + 1
		}
	}

	return end
}
