package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/veracity/internal/llm"
	"github.com/ppiankov/veracity/internal/model"
)

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON encodes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderJSON writes the report to a JSON file
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	var b strings.Builder
	if err := r.WriteJSON(&b, report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return writeFile(path, b.String())
}

// RenderMarkdown writes the report to a Markdown file
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, r.Markdown(report))
}

// RenderLLMMarkdown writes the separate LLM explanation file
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	return writeFile(path, markdown)
}

// Write renders JSON and Markdown outputs, plus the LLM file next to the
// Markdown report, and prints progress lines to progress
func (r *Renderer) Write(report *model.Report, jsonPath, mdPath string, progress io.Writer) error {
	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		fmt.Fprintf(progress, "✓ Wrote JSON: %s\n", jsonPath)
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		fmt.Fprintf(progress, "✓ Wrote Markdown: %s\n", mdPath)

		if report.LLM != nil && report.LLM.Enabled {
			llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
			if err := r.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmPath); err != nil {
				fmt.Fprintf(progress, "✗ Failed to write LLM summary: %v\n", err)
			} else {
				fmt.Fprintf(progress, "✓ Wrote LLM Summary: %s\n", llmPath)
			}
		}
	}
	return nil
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the full report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Veracity Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Kind:** %s\n", report.Kind)
	if report.Source != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", report.Source)
	}
	fmt.Fprintf(&b, "- **Analyzed:** %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	if report.ID != "" {
		fmt.Fprintf(&b, "- **History ID:** `%s`\n", report.ID)
	}
	b.WriteString("\n")

	if c := report.Credibility; c != nil {
		fmt.Fprintf(&b, "## Credibility: %d/100 (%s)\n\n", c.Score, c.Level.Label())
		if c.Host != "" {
			fmt.Fprintf(&b, "Host `%s` is classified as **%s**.\n\n", c.Host, c.Authority)
		}
		writeFactorTable(&b, c.Factors)
	}

	if cmp := report.Comparison; cmp != nil {
		b.WriteString("## Comparison\n\n")
		b.WriteString("| | Score | Verdict | Words | Sentences |\n|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| %s | %d | %s | %d | %d |\n", cmp.LabelA, cmp.A.Score, cmp.A.Verdict.Label(), cmp.A.WordCount, cmp.A.SentenceCount)
		fmt.Fprintf(&b, "| %s | %d | %s | %d | %d |\n\n", cmp.LabelB, cmp.B.Score, cmp.B.Verdict.Label(), cmp.B.WordCount, cmp.B.SentenceCount)
		fmt.Fprintf(&b, "**Delta (A - B):** %+d. %s\n\n", cmp.Delta, comparisonSentence(cmp))

		fmt.Fprintf(&b, "### %s\n\n", cmp.LabelA)
		writeFactorTable(&b, cmp.A.Factors)
		fmt.Fprintf(&b, "### %s\n\n", cmp.LabelB)
		writeFactorTable(&b, cmp.B.Factors)
	}

	if t := report.Text; t != nil {
		title := "AI-Likeness"
		if report.Kind == model.KindNews {
			title = "Article Text AI-Likeness (informational)"
		}
		fmt.Fprintf(&b, "## %s: %d/100 (%s)\n\n", title, t.Score, t.Verdict.Label())
		writeFactorTable(&b, t.Factors)

		m := t.Metrics
		b.WriteString("### Metrics\n\n")
		fmt.Fprintf(&b, "- Words: %d\n", t.WordCount)
		fmt.Fprintf(&b, "- Sentences: %d\n", t.SentenceCount)
		fmt.Fprintf(&b, "- Average sentence length: %.1f words\n", m.AvgSentenceLength)
		fmt.Fprintf(&b, "- Sentence length variance: %.2f\n", m.SentenceLengthVariance)
		fmt.Fprintf(&b, "- Lexical diversity: %.2f\n", m.LexicalDiversity)
		fmt.Fprintf(&b, "- Transition words: %d\n", m.TransitionCount)
		if len(m.AIPhrases) > 0 {
			fmt.Fprintf(&b, "- AI-typical phrases: %s\n", strings.Join(m.AIPhrases, ", "))
		}
		b.WriteString("\n")
	}

	if len(report.Evidence) > 0 {
		fmt.Fprintf(&b, "## Cited Sources (%d)\n\n", len(report.Evidence))
		for _, ev := range report.Evidence {
			label := ev.Text
			if label == "" {
				label = ev.URL
			}
			fmt.Fprintf(&b, "- [%s](%s) · %s · %s\n", escapeMarkdown(label), ev.URL, ev.Kind, ev.Authority)
		}
		b.WriteString("\n")
	}

	if len(report.Attributions) > 0 {
		fmt.Fprintf(&b, "## Attributed Statements (%d)\n\n", len(report.Attributions))
		for _, a := range report.Attributions {
			fmt.Fprintf(&b, "- _%s_: %s\n", a.Keyword, a.Text)
		}
		b.WriteString("\n")
	}

	if len(report.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, n := range report.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("An LLM explanation was generated separately and does not affect any score.\n\n")
	}

	fmt.Fprintf(&b, "> %s\n", report.Disclaimer)

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString("_Generated by veracity. Scores are deterministic heuristics: non-normative, transparent, reproducible._\n")
	}

	return b.String()
}

func writeFactorTable(b *strings.Builder, factors []model.Factor) {
	if len(factors) == 0 {
		b.WriteString("_No factors triggered._\n\n")
		return
	}
	b.WriteString("| Factor | Impact |\n|---|---|\n")
	for _, f := range factors {
		fmt.Fprintf(b, "| %s | %s |\n", escapeMarkdown(f.Label), f.Impact)
	}
	b.WriteString("\n")
}

func comparisonSentence(cmp *model.Comparison) string {
	switch cmp.MoreAILike {
	case "a":
		return fmt.Sprintf("%s shows more AI-typical patterns.", cmp.LabelA)
	case "b":
		return fmt.Sprintf("%s shows more AI-typical patterns.", cmp.LabelB)
	default:
		return "Both samples score the same."
	}
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "[", `\[`, "]", `\]`).Replace(s)
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	score, label := report.Headline()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", report.Subject)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")

	switch {
	case report.Comparison != nil:
		cmp := report.Comparison
		fmt.Fprintf(w, "  %-20s %3d/100  %s\n", truncate(cmp.LabelA, 20), cmp.A.Score, cmp.A.Verdict.Label())
		fmt.Fprintf(w, "  %-20s %3d/100  %s\n", truncate(cmp.LabelB, 20), cmp.B.Score, cmp.B.Verdict.Label())
		fmt.Fprintf(w, "  Delta (A - B):       %+d\n", cmp.Delta)
		fmt.Fprintf(w, "  %s\n", comparisonSentence(cmp))
	default:
		fmt.Fprintf(w, "  Score:   %d/100 (%s)\n", score, label)
		var factors []model.Factor
		if report.Credibility != nil {
			factors = report.Credibility.Factors
		} else if report.Text != nil {
			factors = report.Text.Factors
		}
		for _, f := range factors {
			mark := "+"
			if f.Negative {
				mark = "!"
			}
			fmt.Fprintf(w, "  %s %-40s %s\n", mark, f.Label, f.Impact)
		}
		if report.Credibility != nil && report.Text != nil {
			fmt.Fprintf(w, "\n  Article text: %d/100 (%s), informational\n", report.Text.Score, report.Text.Verdict.Label())
		}
	}

	for _, n := range report.Notes {
		fmt.Fprintf(w, "  ⚠️  %s\n", n)
	}
	fmt.Fprintf(w, "\n  %s\n\n", report.Disclaimer)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
