package chunker

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// maxTurnsPerChunk caps how many speaker turns one chat chunk holds.
const maxTurnsPerChunk = 3

// topicOverlapFloor is the key-term overlap below which consecutive
// turns from the same speaker count as a topic shift.
const topicOverlapFloor = 0.2

// topicLabelWords is how many words the synthesized topic label keeps.
const topicLabelWords = 8

var turnLineRe = regexp.MustCompile(`^([A-Za-z0-9_][\w .\-]{0,23}):\s+(.*)$`)

// Explicit topic-shift openers, checked at the start of a turn.
var shiftPhrases = []string{
	"anyway", "changing topic", "on another note", "btw", "by the way",
	"unrelated", "different question", "neues thema", "anderes thema",
}

// Leading question words stripped when synthesizing a topic label.
var questionWords = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true,
	"who": true, "which": true, "can": true, "could": true, "would": true,
	"should": true, "do": true, "does": true, "did": true, "is": true,
	"are": true, "was": true, "will": true,
}

// turn is one speaker-labelled message.
type turn struct {
	speaker string
	text    string
}

func (t turn) render() string {
	return t.speaker + ": " + t.text
}

// chunkTurns splits conversational content into chunks of 1-3 speaker
// turns. A new chunk starts when the running token estimate would
// exceed the max size, when three turns have accumulated, or when a
// topic shift is detected. Each chunk is prefixed with a topic label
// synthesized from its first turn.
func (c *Chunker) chunkTurns(content string) []domain.Chunk {
	turns := parseTurns(content)
	if len(turns) == 0 {
		return c.chunkWindow(content)
	}

	firstSpeaker := turns[0].speaker
	lastBySpeaker := make(map[string]string)

	var (
		chunks []domain.Chunk
		buf    []turn
		tokens int
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		label := topicLabel(buf[0].text)
		lines := make([]string, 0, len(buf)+1)
		lines = append(lines, "Topic: "+label)
		for _, t := range buf {
			lines = append(lines, t.render())
		}
		chunks = append(chunks, domain.Chunk{
			Content:      strings.Join(lines, "\n"),
			Type:         domain.ChunkChatTurn,
			SectionTitle: label,
		})
		buf = nil
		tokens = 0
	}

	for _, t := range turns {
		turnTokens := estimateTokens(t.render())

		shift := false
		if prev, ok := lastBySpeaker[t.speaker]; ok && t.speaker == firstSpeaker {
			shift = isTopicShift(prev, t.text)
		}
		lastBySpeaker[t.speaker] = t.text

		if len(buf) > 0 && (shift || tokens+turnTokens > c.maxTokens) {
			flush()
		}

		buf = append(buf, t)
		tokens += turnTokens

		if len(buf) >= maxTurnsPerChunk {
			flush()
		}
	}
	flush()

	return chunks
}

// parseTurns extracts speaker-labelled turns. Unlabelled lines are
// continuations of the current turn.
func parseTurns(content string) []turn {
	var turns []turn

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := turnLineRe.FindStringSubmatch(trimmed); m != nil {
			turns = append(turns, turn{speaker: m[1], text: m[2]})
			continue
		}
		if len(turns) > 0 {
			turns[len(turns)-1].text += " " + trimmed
		}
	}
	return turns
}

// isTopicShift detects explicit shift phrases or a key-term overlap
// below the floor between two turns of the same speaker.
func isTopicShift(prev, current string) bool {
	lower := strings.ToLower(current)
	for _, phrase := range shiftPhrases {
		if strings.HasPrefix(lower, phrase) {
			return true
		}
	}

	prevTerms := keyTerms(prev)
	currTerms := keyTerms(current)
	if len(prevTerms) == 0 || len(currTerms) == 0 {
		return false
	}

	common := 0
	for term := range currTerms {
		if prevTerms[term] {
			common++
		}
	}
	return float64(common)/float64(len(currTerms)) < topicOverlapFloor
}

// keyTerms returns the significant lowercase words of a turn.
func keyTerms(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) >= 4 && !questionWords[w] {
			terms[w] = true
		}
	}
	return terms
}

// topicLabel synthesizes a short title from a turn: question words
// stripped from the front, first few words kept, title-cased.
func topicLabel(text string) string {
	words := strings.Fields(text)

	for len(words) > 0 {
		w := strings.ToLower(strings.Trim(words[0], ".,!?;:\"'"))
		if !questionWords[w] {
			break
		}
		words = words[1:]
	}
	if len(words) > topicLabelWords {
		words = words[:topicLabelWords]
	}

	for i, w := range words {
		w = strings.Trim(w, ".,!?;:\"'")
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	label := strings.Join(words, " ")
	if label == "" {
		label = "Conversation"
	}
	return label
}
