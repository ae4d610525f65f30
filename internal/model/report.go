package model

import "time"

// ReportKind identifies which analysis produced a report
type ReportKind string

const (
	KindText       ReportKind = "text"
	KindNews       ReportKind = "news"
	KindComparison ReportKind = "comparison"
)

// Disclaimer is attached to every report and rendered output
const Disclaimer = "This analysis uses rule-based heuristics and pattern matching. " +
	"Results are guidance, not proof of authorship or truth. Always verify with multiple sources."

// Report represents the complete output of one veracity analysis
type Report struct {
	ID         string     `json:"id,omitempty"` // set when persisted to history
	Kind       ReportKind `json:"kind"`
	Subject    string     `json:"subject"`          // file name, headline or page title
	Source     string     `json:"source,omitempty"` // path or URL that was analyzed
	AnalyzedAt time.Time  `json:"analyzed_at"`
	FetchMeta  *FetchMeta `json:"fetch_meta,omitempty"`

	Text        *ScoreResult `json:"text,omitempty"`        // AI-likeness of the text or article body
	Credibility *Credibility `json:"credibility,omitempty"` // news checks only
	Comparison  *Comparison  `json:"comparison,omitempty"`  // comparison only

	Evidence     []Evidence    `json:"evidence,omitempty"`     // outbound citations (news)
	Attributions []Attribution `json:"attributions,omitempty"` // attributed statements (news)

	Notes []string `json:"notes,omitempty"` // degraded steps, e.g. a page that could not be fetched

	Principles Principles `json:"principles"`
	Disclaimer string     `json:"disclaimer"`

	LLM *LLMSummary `json:"llm,omitempty"` // optional explanation, never affects scores
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	FromCache    bool              `json:"from_cache"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// Principles documents which core principles were applied
type Principles struct {
	NonNormative  bool `json:"non_normative"` // describes signals, not truth or authorship
	Transparent   bool `json:"transparent"`   // every point is attributed to a factor
	Deterministic bool `json:"deterministic"` // same input, same result
}

// DefaultPrinciples returns the standard veracity principles
func DefaultPrinciples() Principles {
	return Principles{
		NonNormative:  true,
		Transparent:   true,
		Deterministic: true,
	}
}

// NewReport creates a report envelope with principles and disclaimer filled in
func NewReport(kind ReportKind, subject, source string) *Report {
	return &Report{
		Kind:       kind,
		Subject:    subject,
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Principles: DefaultPrinciples(),
		Disclaimer: Disclaimer,
	}
}

// Headline returns the primary score and its display label
func (r *Report) Headline() (int, string) {
	switch {
	case r.Credibility != nil:
		return r.Credibility.Score, r.Credibility.Level.Label()
	case r.Comparison != nil:
		return r.Comparison.Delta, "Delta (A - B)"
	case r.Text != nil:
		return r.Text.Score, r.Text.Verdict.Label()
	default:
		return 0, "No result"
	}
}

// LLMSummary contains an optional LLM-generated explanation.
// It is produced after scoring and never changes any score.
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"`
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}
