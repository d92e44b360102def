package chunker

import (
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// chunkWindow is the fixed-window fallback splitter, used when
// structure parsing is disabled or the document carries no structure.
// Windows overlap by a fixed character count and prefer breaking at
// sentence boundaries, then word boundaries.
func (c *Chunker) chunkWindow(content string) []domain.Chunk {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var chunks []domain.Chunk
	start := 0

	for start < len(content) {
		end := start + c.windowChars
		if end >= len(content) {
			end = len(content)
		} else {
			end = breakPoint(content, start, end)
		}

		text := strings.TrimSpace(content[start:end])
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				Content: text,
				Type:    domain.ChunkParagraph,
			})
		}

		if end >= len(content) {
			break
		}
		next := end - c.overlapChars
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint finds the best split position at or before limit:
// a sentence end in the second half of the window, else the last
// space, else the hard limit.
func breakPoint(content string, start, limit int) int {
	window := content[start:limit]
	half := len(window) / 2

	for _, sep := range []string{". ", ".\n", "! ", "? ", "\n\n"} {
		if idx := strings.LastIndex(window, sep); idx >= half {
			return start + idx + len(sep)
		}
	}
	if idx := strings.LastIndexByte(window, ' '); idx >= half {
		return start + idx + 1
	}
	return limit
}
