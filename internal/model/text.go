package model

// Factor is one human-readable reason that contributed to a score
type Factor struct {
	Label    string `json:"label"`
	Impact   string `json:"impact"`
	Negative bool   `json:"negative"` // true when it pushed the score toward "AI-like" / "not credible"
	Points   int    `json:"points"`   // signed contribution to the running total
}

// Verdict is the coarse classification derived from a text score
type Verdict string

const (
	VerdictLikelyHuman Verdict = "likely_human"
	VerdictPossiblyAI  Verdict = "possibly_ai"
	VerdictAILike      Verdict = "ai_like"
)

// Label returns the display name of the verdict
func (v Verdict) Label() string {
	switch v {
	case VerdictLikelyHuman:
		return "Likely Human"
	case VerdictPossiblyAI:
		return "Possibly AI-Generated"
	case VerdictAILike:
		return "AI-Like"
	default:
		return "Unknown"
	}
}

// TextMetrics exposes the descriptive statistics behind a ScoreResult
type TextMetrics struct {
	AvgSentenceLength      float64  `json:"avg_sentence_length"`
	SentenceLengthVariance float64  `json:"sentence_length_variance"` // population variance of words per sentence
	LexicalDiversity       float64  `json:"lexical_diversity"`        // unique lower-cased words / total words
	AIPhrases              []string `json:"ai_phrases,omitempty"`     // distinct phrases found, list order
	TransitionCount        int      `json:"transition_count"`
}

// ScoreResult is the outcome of scoring one text sample
type ScoreResult struct {
	Score         int         `json:"score"` // 0-100, higher is more AI-like
	Verdict       Verdict     `json:"verdict"`
	Factors       []Factor    `json:"factors"` // evaluation order
	WordCount     int         `json:"word_count"`
	SentenceCount int         `json:"sentence_count"`
	Metrics       TextMetrics `json:"metrics"`
}

// Comparison holds two scored samples side by side
type Comparison struct {
	A          ScoreResult `json:"a"`
	B          ScoreResult `json:"b"`
	Delta      int         `json:"delta"`        // A.Score - B.Score
	MoreAILike string      `json:"more_ai_like"` // "a", "b" or "tie"
	LabelA     string      `json:"label_a,omitempty"`
	LabelB     string      `json:"label_b,omitempty"`
}
