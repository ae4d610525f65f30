package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/ingest"
	"github.com/ppiankov/veracity/internal/metrics"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/score"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const sampleText = "The river rose quickly after the storm. Neighbors stacked sandbags along the bank. " +
	"By morning the water had reached the old mill, and the road was closed until noon."

type recordingStore struct {
	saved []*model.Report
	err   error
}

func (s *recordingStore) Save(ctx context.Context, report *model.Report) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, report)
	return fmt.Sprintf("id-%d", len(s.saved)), nil
}

func offlineConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Enabled = false
	cfg.Cache.Enabled = false
	return cfg
}

func TestAnalyzeText(t *testing.T) {
	store := &recordingStore{}
	p := NewPipeline(offlineConfig(), nil, WithHistory(store))

	report, err := p.AnalyzeText(context.Background(), "Flood notes", sampleText)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}

	want := score.Score(sampleText)
	if report.Text == nil || report.Text.Score != want.Score {
		t.Fatalf("Text score = %v, want %d", report.Text, want.Score)
	}
	if report.Kind != model.KindText || report.Subject != "Flood notes" {
		t.Errorf("Kind/Subject = %s/%q", report.Kind, report.Subject)
	}
	if report.Disclaimer == "" || !report.Principles.Deterministic {
		t.Error("Report is missing disclaimer or principles")
	}
	if report.ID != "id-1" || len(store.saved) != 1 {
		t.Errorf("Expected report saved to history, ID=%q saved=%d", report.ID, len(store.saved))
	}
}

func TestAnalyzeText_DefaultSubject(t *testing.T) {
	p := NewPipeline(offlineConfig(), nil)
	report, err := p.AnalyzeText(context.Background(), "", sampleText)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if report.Subject != "Text sample" {
		t.Errorf("Subject = %q, want default", report.Subject)
	}
}

func TestAnalyzeText_HistoryFailureIsNotFatal(t *testing.T) {
	p := NewPipeline(offlineConfig(), nil, WithHistory(&recordingStore{err: errors.New("disk full")}))
	report, err := p.AnalyzeText(context.Background(), "x", sampleText)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if report.ID != "" {
		t.Errorf("ID = %q, want empty after failed save", report.ID)
	}
}

func TestAnalyzeText_Validation(t *testing.T) {
	cfg := offlineConfig()
	cfg.Analysis.MaxChars = 100
	p := NewPipeline(cfg, nil)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrEmptyText},
		{"whitespace", "   \n\t ", ErrEmptyText},
		{"short", "Too short to judge.", ErrTextTooShort},
		{"long", strings.Repeat("word ", 40), ErrTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues("text", metrics.OutcomeInvalid))

			_, err := p.AnalyzeText(context.Background(), "", tt.text)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AnalyzeText() error = %v, want %v", err, tt.want)
			}
			if !IsValidationError(err) {
				t.Error("Expected a validation error")
			}

			after := testutil.ToFloat64(metrics.AnalysesTotal.WithLabelValues("text", metrics.OutcomeInvalid))
			if after != before+1 {
				t.Errorf("invalid outcome counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flood-notes.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(offlineConfig(), nil)
	report, err := p.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if report.Subject != "flood-notes" || report.Source != path {
		t.Errorf("Subject/Source = %q/%q", report.Subject, report.Source)
	}
	if report.Text.Score != score.Score(sampleText).Score {
		t.Errorf("Score = %d, want %d", report.Text.Score, score.Score(sampleText).Score)
	}
}

func TestAnalyzeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	binary := filepath.Join(dir, "tool.exe")
	if err := os.WriteFile(binary, []byte{0x4d, 0x5a}, 0o644); err != nil {
		t.Fatal(err)
	}
	short := filepath.Join(dir, "short.txt")
	if err := os.WriteFile(short, []byte("Hi."), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(offlineConfig(), nil)

	if _, err := p.AnalyzeFile(context.Background(), binary); !errors.Is(err, ingest.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := p.AnalyzeFile(context.Background(), short); !errors.Is(err, ErrTextTooShort) {
		t.Errorf("Expected ErrTextTooShort, got %v", err)
	}
	if _, err := p.AnalyzeFile(context.Background(), filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCompare(t *testing.T) {
	aiLike := "Furthermore, it is important to note that the results are significant. " +
		"Moreover, the data clearly shows the trend is robust. " +
		"Additionally, the findings are consistent across all of the groups."

	p := NewPipeline(offlineConfig(), nil)
	report, err := p.Compare(context.Background(),
		Sample{Label: "Draft", Text: aiLike},
		Sample{Text: sampleText},
	)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	cmp := report.Comparison
	if cmp == nil {
		t.Fatal("Expected comparison result")
	}
	if cmp.LabelA != "Draft" || cmp.LabelB != "Sample B" {
		t.Errorf("Labels = %q/%q", cmp.LabelA, cmp.LabelB)
	}
	if cmp.Delta != cmp.A.Score-cmp.B.Score {
		t.Errorf("Delta = %d, want %d", cmp.Delta, cmp.A.Score-cmp.B.Score)
	}
	if report.Subject != "Draft vs Sample B" {
		t.Errorf("Subject = %q", report.Subject)
	}

	_, err = p.Compare(context.Background(), Sample{Text: sampleText}, Sample{Text: ""})
	if !errors.Is(err, ErrEmptyText) || !strings.Contains(err.Error(), "sample B") {
		t.Errorf("Expected sample B empty error, got %v", err)
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.txt")
	_ = os.WriteFile(a, []byte(sampleText), 0o644)
	_ = os.WriteFile(b, []byte(sampleText), 0o644)

	p := NewPipeline(offlineConfig(), nil)
	report, err := p.CompareFiles(context.Background(), a, b)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if report.Comparison.MoreAILike != "tie" || report.Comparison.Delta != 0 {
		t.Errorf("Identical files should tie, got %+v", report.Comparison)
	}
}

func TestCheckNews_Headline(t *testing.T) {
	p := NewPipeline(offlineConfig(), nil)

	report, err := p.CheckNews(context.Background(), "SHOCKING secret they don't want you to know")
	if err != nil {
		t.Fatalf("CheckNews() error = %v", err)
	}
	if report.Credibility.Score != 30 || report.Credibility.Level != model.CredibilityLow {
		t.Errorf("Credibility = %d/%s, want 30/low", report.Credibility.Score, report.Credibility.Level)
	}
	if report.Source != "" || len(report.Notes) != 0 {
		t.Errorf("Headline should have no source or notes, got %q %v", report.Source, report.Notes)
	}
}

func TestCheckNews_Empty(t *testing.T) {
	p := NewPipeline(offlineConfig(), nil)
	if _, err := p.CheckNews(context.Background(), "  "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
}

func TestCheckNews_FetchDisabled(t *testing.T) {
	p := NewPipeline(offlineConfig(), nil)

	report, err := p.CheckNews(context.Background(), "https://breaking-news.xyz/story")
	if err != nil {
		t.Fatalf("CheckNews() error = %v", err)
	}
	if report.Credibility.Score != 35 {
		t.Errorf("Score = %d, want 35", report.Credibility.Score)
	}
	if report.Credibility.Host != "breaking-news.xyz" {
		t.Errorf("Host = %q", report.Credibility.Host)
	}
	if len(report.Notes) != 1 || !strings.Contains(report.Notes[0], "disabled") {
		t.Errorf("Notes = %v", report.Notes)
	}
}

const newsPage = `<!DOCTYPE html>
<html>
<head>
  <title>City council approves budget</title>
  <meta name="author" content="Dana Reyes">
</head>
<body>
  <nav><a href="/contact">Contact us</a></nav>
  <article>
    <h1>City council approves budget</h1>
    <p>The city council approved the annual budget on Tuesday evening after a long debate.</p>
    <p>The mayor said the plan would fund new parks and repair several bridges.</p>
    <p>According to the city clerk, the vote was eight to one in favor of the measure.</p>
    <p>Figures were first published by <a href="https://www.reuters.com/world/budget">Reuters</a>.</p>
  </article>
</body>
</html>`

func newsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/story":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = fmt.Fprint(w, newsPage)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestCheckNews_FetchedPage(t *testing.T) {
	server := newsServer(t)
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	p := NewPipeline(offlineConfig(), nil, WithFetcher(fetcher))

	report, err := p.CheckNews(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("CheckNews() error = %v", err)
	}

	// 50 + author 10 + contact 5 + authoritative citation 10 + attributions 5
	if report.Credibility.Score != 80 {
		for _, f := range report.Credibility.Factors {
			t.Logf("factor: %s (%+d)", f.Label, f.Points)
		}
		t.Fatalf("Score = %d, want 80", report.Credibility.Score)
	}
	if report.Credibility.Level != model.CredibilityHigh {
		t.Errorf("Level = %s, want high", report.Credibility.Level)
	}
	if report.Subject != "City council approves budget" {
		t.Errorf("Subject = %q", report.Subject)
	}
	if report.FetchMeta == nil || report.FetchMeta.StatusCode != http.StatusOK {
		t.Errorf("FetchMeta = %+v", report.FetchMeta)
	}
	if report.Text == nil {
		t.Error("Expected informational text score for the article body")
	}

	foundReuters := false
	for _, ev := range report.Evidence {
		if strings.Contains(ev.URL, "reuters.com") {
			foundReuters = true
			if ev.Authority != model.TierSecondary {
				t.Errorf("Reuters authority = %s, want secondary", ev.Authority)
			}
		}
	}
	if !foundReuters {
		t.Errorf("Evidence = %+v, want the Reuters citation", report.Evidence)
	}
}

func TestCheckNews_FetchFailureDegrades(t *testing.T) {
	server := newsServer(t)
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	p := NewPipeline(offlineConfig(), nil, WithFetcher(fetcher))

	report, err := p.CheckNews(context.Background(), server.URL+"/gone")
	if err != nil {
		t.Fatalf("CheckNews() error = %v", err)
	}
	if report.Credibility.Score != 50 {
		t.Errorf("Score = %d, want neutral 50", report.Credibility.Score)
	}
	if len(report.Notes) != 1 || !strings.Contains(report.Notes[0], "404") {
		t.Errorf("Notes = %v, want the fetch failure", report.Notes)
	}
	if report.FetchMeta != nil {
		t.Error("FetchMeta should be empty when the page was not fetched")
	}
}

func TestAnalyzeInput(t *testing.T) {
	p := NewPipeline(offlineConfig(), nil)

	report, err := p.AnalyzeInput(true)(context.Background(), "Plain headline about the weather")
	if err != nil || report.Kind != model.KindNews {
		t.Errorf("news dispatch = %v, %v", report, err)
	}

	if _, err := p.AnalyzeInput(false)(context.Background(), "/does/not/exist.txt"); err == nil {
		t.Error("file dispatch should fail for a missing file")
	}
}

func TestParseHTTPURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"ftp://example.com/file", false},
		{"example.com/story", false},
		{"Breaking: https://example.com is down", false},
	}
	for _, tt := range tests {
		if _, got := parseHTTPURL(tt.in); got != tt.want {
			t.Errorf("parseHTTPURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
