package score

import (
	"regexp"
	"strings"
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// TextStats holds the descriptive statistics the text scorer works from
type TextStats struct {
	Sentences        []string
	Words            []string
	SentenceLengths  []int
	AvgSentence      float64
	Variance         float64
	LexicalDiversity float64
}

// Sentences splits text on runs of '.', '!' and '?' and drops blank fragments
func Sentences(text string) []string {
	var out []string
	for _, part := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

// Words returns the whitespace-delimited tokens of text.
// Punctuation stays attached to its token.
func Words(text string) []string {
	return strings.Fields(text)
}

// ComputeStats tokenizes text and derives sentence and vocabulary statistics.
// With no sentences the average and variance are 0; with no words diversity is 0.
func ComputeStats(text string) TextStats {
	st := TextStats{
		Sentences: Sentences(text),
		Words:     Words(text),
	}

	st.SentenceLengths = make([]int, len(st.Sentences))
	for i, s := range st.Sentences {
		st.SentenceLengths[i] = len(strings.Fields(s))
	}

	if n := len(st.Sentences); n > 0 {
		st.AvgSentence = float64(len(st.Words)) / float64(n)
		st.Variance = populationVariance(st.SentenceLengths)
	}
	st.LexicalDiversity = lexicalDiversity(st.Words)

	return st
}

// populationVariance divides by N, not N-1
func populationVariance(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

func lexicalDiversity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}
