package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

var attributionSplit = regexp.MustCompile(`[.!?]+\s+|\n+`)

// AttributionExtractor finds sentences that attribute a statement to a source
type AttributionExtractor struct {
	keywords []string
}

// NewAttributionExtractor creates an extractor with the default keyword list
func NewAttributionExtractor() *AttributionExtractor {
	return &AttributionExtractor{
		keywords: []string{
			"according to", "said", "told", "stated", "confirmed",
			"reported", "announced", "spokesperson", "spokesman", "spokeswoman",
			"in a statement", "quoted",
		},
	}
}

// Extract returns at most one attribution per sentence, deduplicated case-insensitively
func (e *AttributionExtractor) Extract(text string) []model.Attribution {
	var out []model.Attribution
	seen := make(map[string]bool)

	for i, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, kw := range e.keywords {
			if !containsWord(lower, kw) {
				continue
			}

			key := strings.ToLower(sentence)
			if !seen[key] {
				seen[key] = true
				out = append(out, model.Attribution{
					Text:     sentence,
					Keyword:  kw,
					Sentence: i,
				})
			}
			break
		}
	}

	return out
}

// splitSentences keeps sentences of a plausible length
func splitSentences(text string) []string {
	var sentences []string
	for _, part := range attributionSplit.Split(text, -1) {
		s := strings.TrimRight(collapseSpace(part), ".!?")
		if len(s) >= 20 && len(s) <= 500 {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// containsWord matches kw on word boundaries so "said" does not match "saidi"
func containsWord(text, kw string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)

		before := i == 0 || !isWordByte(text[i-1])
		after := end == len(text) || !isWordByte(text[end])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
