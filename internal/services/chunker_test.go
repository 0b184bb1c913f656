package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	chunks := NewTextChunker().ChunkText("First paragraph.\n\nSecond paragraph.", DefaultChunkSize, DefaultChunkOverlap)
	assert.Equal(t, []string{"First paragraph.\n\nSecond paragraph."}, chunks)
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText("  \n\n  ", DefaultChunkSize, DefaultChunkOverlap))
}

func TestChunkText_RespectsMaxSizeWithOverlap(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 30; i++ {
		paragraphs = append(paragraphs, strings.Repeat("word ", 30)+"end.")
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 400, 50)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 400)
	}

	tail := lastRunes(chunks[0], 50)
	assert.True(t, strings.HasPrefix(chunks[1], tail), "next chunk starts with the previous tail")
}

func TestChunkText_SplitsLongParagraphBySentence(t *testing.T) {
	sentence := strings.Repeat("ä", 80) + "."
	text := strings.Repeat(sentence+" ", 20)

	chunks := NewTextChunker().ChunkText(text, 200, 20)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 200)
	}
}

func TestChunkText_SentenceWithoutBoundaryIsCut(t *testing.T) {
	text := strings.Repeat("x", 2500)

	chunks := NewTextChunker().ChunkText(text, 1000, 200)
	require.NotEmpty(t, chunks)
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 1000)
		total += strings.Count(chunk, "x")
	}
	assert.GreaterOrEqual(t, total, 2500)
}

func TestChunkText_NormalizesBadArguments(t *testing.T) {
	chunks := NewTextChunker().ChunkText("tiny", 0, 5000)
	assert.Equal(t, []string{"tiny"}, chunks)
}
