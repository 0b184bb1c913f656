package services

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// TextChunker splits long responses into overlapping windows for embedding.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. Sizes are counted in runes.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	c := &chunkAccumulator{max: maxChunkSize, overlap: overlap}
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			c.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			for _, piece := range splitRunes(sentence, maxChunkSize-overlap) {
				c.add(piece, " ")
			}
		}
	}

	return c.finish()
}

type chunkAccumulator struct {
	max     int
	overlap int
	current strings.Builder
	size    int
	chunks  []string
}

func (c *chunkAccumulator) add(piece, sep string) {
	pieceLen := utf8.RuneCountInString(piece)
	if c.size > 0 && c.size+len(sep)+pieceLen > c.max {
		c.flush(c.max - len(sep) - pieceLen)
	}

	if c.size > 0 {
		c.current.WriteString(sep)
		c.size += len(sep)
	}
	c.current.WriteString(piece)
	c.size += pieceLen
}

// flush closes the current chunk and seeds the next with at most room
// runes of its tail.
func (c *chunkAccumulator) flush(room int) {
	chunk := c.current.String()
	c.chunks = append(c.chunks, chunk)
	c.current.Reset()
	c.size = 0

	if tail := lastRunes(chunk, min(c.overlap, room)); tail != "" {
		c.current.WriteString(tail)
		c.size = utf8.RuneCountInString(tail)
	}
}

func (c *chunkAccumulator) finish() []string {
	if c.size > 0 {
		c.chunks = append(c.chunks, c.current.String())
	}
	return c.chunks
}

func splitIntoSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// splitRunes cuts a sentence with no usable boundary into fixed windows.
func splitRunes(text string, size int) []string {
	if size <= 0 {
		size = 1
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	pieces := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
