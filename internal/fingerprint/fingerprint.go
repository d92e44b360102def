// Package fingerprint computes document identity signatures, finds
// duplicates among previously ingested documents and runs the triage
// cascade that classifies a document before expensive processing.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

const (
	// fuzzyWordWindow is how many leading words feed the fuzzy signature.
	fuzzyWordWindow = 1000

	// fuzzyTopWords is how many frequent words form the fuzzy set.
	fuzzyTopWords = 50

	// excerptLen is the leading-excerpt length in bytes.
	excerptLen = 200
)

// Generate computes a fingerprint for a raw document. Entities may be
// empty at triage time; the entity signature is then empty too.
// Deterministic: identical inputs always yield identical signatures.
func Generate(content, title, docDomain string, created time.Time, entities []string) domain.Fingerprint {
	words := strings.Fields(content)

	return domain.Fingerprint{
		ContentHash:       hashString(content),
		FuzzySignature:    fuzzySignature(words),
		MetadataSignature: hashString(fmt.Sprintf("%s|%s|%d", title, docDomain, created.Unix())),
		NormalizedTitle:   NormalizeTitle(title),
		LeadingExcerpt:    leadingExcerpt(content),
		WordCount:         len(words),
		EntitySignature:   entitySignature(entities),
	}
}

// NormalizeTitle lowercases a title, strips punctuation and collapses
// whitespace, for edit-distance comparison.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// fuzzySignature hashes the set of the most frequent lowercase word
// tokens among the leading words. The set is sorted before hashing so
// the signature is order-independent: near-duplicates with reordered
// paragraphs still match.
func fuzzySignature(words []string) string {
	window := words
	if len(window) > fuzzyWordWindow {
		window = window[:fuzzyWordWindow]
	}

	freq := make(map[string]int, len(window))
	for _, w := range window {
		token := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if token != "" {
			freq[token]++
		}
	}

	tokens := make([]string, 0, len(freq))
	for t := range freq {
		tokens = append(tokens, t)
	}
	// Frequency descending, lexicographic tiebreak for determinism.
	sort.Slice(tokens, func(i, j int) bool {
		if freq[tokens[i]] != freq[tokens[j]] {
			return freq[tokens[i]] > freq[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	if len(tokens) > fuzzyTopWords {
		tokens = tokens[:fuzzyTopWords]
	}
	sort.Strings(tokens)

	return hashString(strings.Join(tokens, " "))
}

// entitySignature hashes the sorted concatenated union of entity
// strings. Empty input yields an empty signature.
func entitySignature(entities []string) string {
	if len(entities) == 0 {
		return ""
	}
	sorted := make([]string, len(entities))
	copy(sorted, entities)
	sort.Strings(sorted)
	return hashString(strings.Join(sorted, "|"))
}

func leadingExcerpt(content string) string {
	if len(content) <= excerptLen {
		return content
	}
	return content[:excerptLen]
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
