package chunker

import "strings"

const (
	// ChunkSize is the window size in characters (roughly 500 tokens).
	ChunkSize = 2000

	// ChunkOverlap is carried between consecutive chunks to preserve
	// context at boundaries. Must stay strictly below ChunkSize.
	ChunkOverlap = 200
)

// Chunk splits text into overlapping segments of at most ChunkSize
// characters. When a window does not reach the end of the text, the cut
// is snapped back to the last ". " sentence boundary past the window
// midpoint, so chunks end on a period instead of mid-sentence. Chunks
// are trimmed; empty slices are dropped. Returns nil for empty input.
func Chunk(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	var chunks []string
	start := 0

	for start < total {
		end := start + ChunkSize
		if end > total {
			end = total
		}

		// Snap to sentence boundary, but never shrink below the
		// window midpoint (avoids undersized chunks).
		if end < total {
			if p := lastSentenceEnd(runes, end); p > start+ChunkSize/2 {
				end = p + 1
			}
		}

		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}

		if end >= total {
			break
		}

		next := end - ChunkOverlap
		// Unreachable with the fixed constants, but if overlap ever
		// grows past the chunk size the cursor must still move.
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// lastSentenceEnd returns the index of the period of the last ". "
// occurrence whose period sits at or before `from`, or -1.
func lastSentenceEnd(runes []rune, from int) int {
	i := from
	if max := len(runes) - 2; i > max {
		i = max
	}
	for ; i >= 0; i-- {
		if runes[i] == '.' && runes[i+1] == ' ' {
			return i
		}
	}
	return -1
}

// EstimateTokens gives a rough token count (1 token per 4 characters).
// Telemetry only, never an ingestion decision.
func EstimateTokens(text string) int {
	return len([]rune(text)) / 4
}
