package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// Summarizer attaches an optional LLM explanation to a finished report.
// Every failure degrades to warnings; scores are never touched.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; a disabled provider yields a no-op summarizer
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Explain returns nil when disabled, and a summary carrying warnings on failure
func (s *Summarizer) Explain(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:       s.provider.Name(),
		Model:          s.config.Model,
		StrictEvidence: s.config.StrictEvidence,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %q is not available (check API key, base URL or network)", s.provider.Name()))
		return summary, nil
	}

	summary.Enabled = true

	allowed := EvidenceURLs(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		EvidenceURLs: allowed,
		Model:        s.config.Model,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM explanation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.StrictEvidence {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d citations against %d allowed URLs", len(resp.CitedURLs), len(allowed)))
	}

	return summary, nil
}

// EvidenceURLs is the citation allowlist for a report: its source and evidence links
func EvidenceURLs(report model.Report) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		if parsed, err := url.Parse(u); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	add(report.Source)
	for _, ev := range report.Evidence {
		add(ev.URL)
	}
	return urls
}

// RenderSeparateMarkdown renders the explanation as its own clearly labeled document
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> ⚠️ **GENERATED CONTENT**: This explanation was written by a language model. ")
	b.WriteString("Scores and factors in the main report were determined independently by deterministic rules ")
	b.WriteString("and are not influenced by this text.\n\n")

	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Provider | %s |\n", summary.Provider)
	fmt.Fprintf(&b, "| Model | %s |\n", summary.Model)
	fmt.Fprintf(&b, "| Strict Evidence Mode | %t |\n\n", summary.StrictEvidence)

	b.WriteString("## Explanation\n\n")
	if strings.TrimSpace(summary.SummaryMD) == "" {
		b.WriteString("_No summary generated._\n\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
