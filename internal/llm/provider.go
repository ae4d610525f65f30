package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize explains a finished report in strict evidence mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for an explanation
type SummarizeRequest struct {
	Report model.Report

	// EvidenceURLs is the only set of URLs the model may cite
	EvidenceURLs []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the model output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama" or "" (disabled)
	Provider string
	Model    string
	APIKey   string

	// BaseURL points at any OpenAI-compatible endpoint
	BaseURL string

	Timeout        int // seconds
	StrictEvidence bool
	MaxTokens      int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the defaults; the provider is disabled
func DefaultConfig() Config {
	return Config{
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      600,
	}
}

// maxPromptURLs bounds the allowlist sent to the model
const maxPromptURLs = 20

// BuildPrompt constructs the default strict-evidence prompt for a report
func BuildPrompt(report model.Report, evidenceURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are explaining a Veracity report. Veracity scores surface signals in text: how AI-like the writing pattern looks and how credible a news item looks. It NEVER determines who wrote a text or whether a story is true.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT infer, speculate, or cite sources beyond this list.
3. Never say a text "was written by AI" or "by a human", and never say a story "is true" or "is false".
4. Explain which factors moved the score and what a reader could check next.

Report:
- Kind: %s
- Subject: %s
`, joinURLs(evidenceURLs), report.Kind, report.Subject)

	if r := report.Text; r != nil {
		fmt.Fprintf(&b, "- AI-likeness score: %d/100 (%s)\n", r.Score, r.Verdict.Label())
		fmt.Fprintf(&b, "- Words: %d, sentences: %d\n", r.WordCount, r.SentenceCount)
		writeFactors(&b, "Text factors", r.Factors)
	}

	if c := report.Credibility; c != nil {
		fmt.Fprintf(&b, "- Credibility score: %d/100 (%s)\n", c.Score, c.Level.Label())
		writeFactors(&b, "Credibility factors", c.Factors)
	}

	if cmp := report.Comparison; cmp != nil {
		fmt.Fprintf(&b, "- Sample A: %d/100, sample B: %d/100, delta %d\n", cmp.A.Score, cmp.B.Score, cmp.Delta)
	}

	b.WriteString("\nProvide a 3-4 sentence explanation of the signals, not a judgement.")
	return b.String()
}

func writeFactors(b *strings.Builder, title string, factors []model.Factor) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, f := range factors {
		fmt.Fprintf(b, "- %s (%+d, %s)\n", f.Label, f.Points, f.Impact)
	}
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No evidence URLs available)"
	}

	var b strings.Builder
	for i, u := range urls {
		if i >= maxPromptURLs {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-maxPromptURLs)
			break
		}
		fmt.Fprintf(&b, "\n- %s", u)
	}
	return b.String()
}
