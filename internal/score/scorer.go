package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/veracity/internal/model"
)

const (
	textBase = 30

	verdictPossiblyAI = 40
	verdictAILike     = 70
)

// Scorer calculates the AI-likeness score of a text sample and explains it
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score scores text with a default Scorer
func Score(text string) model.ScoreResult {
	return NewScorer().Score(text)
}

// Score is a total function: it never fails and has no hidden state.
// Rules run in a fixed order and the factor list follows that order.
func (s *Scorer) Score(text string) model.ScoreResult {
	st := ComputeStats(text)
	phrases := FindPhrases(text, AIPhrases)
	transitions := CountTransitions(text)

	total := textBase
	var factors []model.Factor

	add := func(points int, f model.Factor, ok bool) {
		if !ok {
			return
		}
		f.Points = points
		total += points
		factors = append(factors, f)
	}

	// 1. Burstiness
	add(s.burstiness(st.Variance))

	// 2. AI phrasing
	add(s.phrasing(len(phrases)))

	// 3. Tone consistency (no factor when not triggered)
	add(s.tone(st.AvgSentence, st.Variance))

	// 4. Lexical diversity
	add(s.diversity(st.LexicalDiversity))

	// 5. Transition density (no factor when not triggered)
	add(s.transitions(transitions, len(st.Sentences)))

	// 6. Perplexity proxy
	add(s.perplexity(st.LexicalDiversity, st.Variance))

	final := clamp(total, 0, 100)

	return model.ScoreResult{
		Score:         final,
		Verdict:       VerdictFor(final),
		Factors:       factors,
		WordCount:     len(st.Words),
		SentenceCount: len(st.Sentences),
		Metrics: model.TextMetrics{
			AvgSentenceLength:      st.AvgSentence,
			SentenceLengthVariance: st.Variance,
			LexicalDiversity:       st.LexicalDiversity,
			AIPhrases:              phrases,
			TransitionCount:        transitions,
		},
	}
}

// VerdictFor maps a clamped score onto a verdict
func VerdictFor(score int) model.Verdict {
	switch {
	case score < verdictPossiblyAI:
		return model.VerdictLikelyHuman
	case score < verdictAILike:
		return model.VerdictPossiblyAI
	default:
		return model.VerdictAILike
	}
}

func (s *Scorer) burstiness(variance float64) (int, model.Factor, bool) {
	switch {
	case variance < 15:
		return 25, model.Factor{
			Label:    "Low burstiness - repetitive patterns",
			Impact:   "High suspicion",
			Negative: true,
		}, true
	case variance < 25:
		return 12, model.Factor{
			Label:    "Medium burstiness",
			Impact:   "Medium suspicion",
			Negative: true,
		}, true
	default:
		return 0, model.Factor{
			Label:  "High burstiness - human-like variation",
			Impact: "Low suspicion",
		}, true
	}
}

func (s *Scorer) phrasing(count int) (int, model.Factor, bool) {
	switch {
	case count >= 3:
		return 20, model.Factor{
			Label:    fmt.Sprintf("Multiple AI phrases detected (%d found)", count),
			Impact:   "High suspicion",
			Negative: true,
		}, true
	case count >= 1:
		return 10, model.Factor{
			Label:    fmt.Sprintf("Some AI phrasing detected (%d found)", count),
			Impact:   "Medium suspicion",
			Negative: true,
		}, true
	default:
		return 0, model.Factor{
			Label:  "Natural vocabulary and expressions",
			Impact: "Low suspicion",
		}, true
	}
}

func (s *Scorer) tone(avg, variance float64) (int, model.Factor, bool) {
	if avg > 18 && avg < 24 && variance < 20 {
		return 15, model.Factor{
			Label:    "Overly consistent, formal tone",
			Impact:   "Medium-High suspicion",
			Negative: true,
		}, true
	}
	return 0, model.Factor{}, false
}

func (s *Scorer) diversity(d float64) (int, model.Factor, bool) {
	pct := int(math.Round(d * 100))

	switch {
	case d < 0.35:
		return 15, model.Factor{
			Label:    fmt.Sprintf("Limited word variety (%d%%)", pct),
			Impact:   "Medium-High suspicion",
			Negative: true,
		}, true
	case d < 0.5:
		return 7, model.Factor{
			Label:    fmt.Sprintf("Moderate lexical diversity (%d%%)", pct),
			Impact:   "Low-Medium suspicion",
			Negative: true,
		}, true
	default:
		return 0, model.Factor{
			Label:  fmt.Sprintf("Good lexical diversity (%d%%)", pct),
			Impact: "Low suspicion",
		}, true
	}
}

func (s *Scorer) transitions(count, sentences int) (int, model.Factor, bool) {
	if float64(count) > float64(sentences)*0.3 {
		return 10, model.Factor{
			Label:    "Excessive formal transition words",
			Impact:   "Medium suspicion",
			Negative: true,
		}, true
	}
	return 0, model.Factor{}, false
}

func (s *Scorer) perplexity(d, variance float64) (int, model.Factor, bool) {
	if d < 0.4 || variance < 15 {
		return 5, model.Factor{
			Label:    "Low perplexity - predictable patterns",
			Impact:   "Low suspicion",
			Negative: true,
		}, true
	}
	return 0, model.Factor{
		Label:  "High perplexity - creative, unpredictable",
		Impact: "Low suspicion",
	}, true
}

// Compare scores two samples and reports which one reads as more AI-like
func (s *Scorer) Compare(a, b string) model.Comparison {
	ra := s.Score(a)
	rb := s.Score(b)

	more := "tie"
	switch {
	case ra.Score > rb.Score:
		more = "a"
	case rb.Score > ra.Score:
		more = "b"
	}

	return model.Comparison{
		A:          ra,
		B:          rb,
		Delta:      ra.Score - rb.Score,
		MoreAILike: more,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
