package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_Empty(t *testing.T) {
	assert.Empty(t, Chunk(""))
}

func TestChunk_ShortText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain sentence", "This is a short document.", "This is a short document."},
		{"surrounding whitespace", "  padded text \n", "padded text"},
		{"just under the window", strings.Repeat("a", ChunkSize-1), strings.Repeat("a", ChunkSize-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestChunk_NoBoundary_SplitsWithOverlap(t *testing.T) {
	// 2500 chars with no ". " anywhere: cursor 0→2000, then 1800→2500.
	text := strings.Repeat("x", 2500)

	got := Chunk(text)

	require.Len(t, got, 2)
	assert.Len(t, got[0], 2000)
	assert.Len(t, got[1], 700)
}

func TestChunk_SnapsToSentenceBoundary(t *testing.T) {
	// A ". " boundary at index 1500, past the midpoint of the first
	// window. The first chunk must end at that period, not at 2000.
	text := strings.Repeat("a", 1500) + ". " + strings.Repeat("b", 1500)

	got := Chunk(text)

	require.NotEmpty(t, got)
	assert.Len(t, got[0], 1501)
	assert.True(t, strings.HasSuffix(got[0], "."))
}

func TestChunk_IgnoresBoundaryBeforeMidpoint(t *testing.T) {
	// Boundary at 500 is before the midpoint (1000), so the first
	// window keeps its full size.
	text := strings.Repeat("a", 500) + ". " + strings.Repeat("b", 2500)

	got := Chunk(text)

	require.NotEmpty(t, got)
	assert.Len(t, got[0], 2000)
}

func TestChunk_NeverEmptyOrUntrimmed(t *testing.T) {
	text := strings.Repeat("word word word. ", 800) // ~12.8k chars

	for i, c := range Chunk(text) {
		assert.NotEmpty(t, c, "chunk %d", i)
		assert.Equal(t, strings.TrimSpace(c), c, "chunk %d", i)
		assert.LessOrEqual(t, len(c), ChunkSize+1, "chunk %d", i)
	}
}

func TestChunk_CursorAlwaysAdvances(t *testing.T) {
	// Long input must terminate and cover the tail of the text.
	tail := "the very last sentence"
	text := strings.Repeat("z", 10_000) + " " + tail

	got := Chunk(text)

	require.NotEmpty(t, got)
	assert.True(t, strings.HasSuffix(got[len(got)-1], tail))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 500, EstimateTokens(strings.Repeat("a", 2000)))
}
