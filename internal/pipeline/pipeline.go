package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/ingest"
	"github.com/ppiankov/veracity/internal/llm"
	"github.com/ppiankov/veracity/internal/metrics"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/score"
	"github.com/ppiankov/veracity/internal/util"
	"github.com/ppiankov/veracity/internal/validate"
	"github.com/ppiankov/veracity/internal/worker"
)

// Input validation errors
var (
	ErrEmptyText    = errors.New("text is empty")
	ErrTextTooShort = errors.New("text is too short")
	ErrTextTooLong  = errors.New("text is too long")
)

// HistoryStore persists finished reports
type HistoryStore interface {
	Save(ctx context.Context, report *model.Report) (string, error)
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithHistory saves every successful report to h
func WithHistory(h HistoryStore) Option {
	return func(p *Pipeline) { p.history = h }
}

// WithFetcher replaces the fetcher built from config
func WithFetcher(f *Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithSummarizer replaces the LLM summarizer built from config
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) { p.summarizer = s }
}

// Pipeline orchestrates text, comparison and news analyses
type Pipeline struct {
	config       *model.Config
	logger       *slog.Logger
	scorer       *score.Scorer
	credibility  *score.CredibilityScorer
	fetcher      *Fetcher
	articles     *extract.ArticleExtractor
	attributions *extract.AttributionExtractor
	authority    *validate.AuthorityClassifier
	summarizer   *llm.Summarizer // nil if disabled
	history      HistoryStore    // nil if disabled
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		config:       cfg,
		logger:       logger,
		scorer:       score.NewScorer(),
		credibility:  score.NewCredibilityScorer(cfg.News),
		articles:     extract.NewArticleExtractor(),
		attributions: extract.NewAttributionExtractor(),
		authority:    validate.NewAuthorityClassifier(&cfg.Authority),
	}

	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			logger.Warn("LLM provider disabled", "provider", cfg.LLM.Provider, "error", err)
		} else {
			p.summarizer = s
		}
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.fetcher == nil && cfg.HTTP.Enabled {
		p.fetcher = newFetcherFromConfig(cfg, logger)
	}

	return p
}

func newFetcherFromConfig(cfg *model.Config, logger *slog.Logger) *Fetcher {
	f := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy).
		WithLogger(logger).
		WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))

	var store cache.Cache = cache.Noop{}
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		f.WithCache(store, cfg.Cache.DiskTTL)
	}

	if cfg.HTTP.RespectRobots {
		f.WithRobots(util.NewRobotsChecker(f.Client(), cfg.HTTP.UserAgent, store, cfg.Cache.DiskTTL))
	}
	return f
}

// ValidateText checks text against the configured length bounds
func (p *Pipeline) ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyText
	}

	n := utf8.RuneCountInString(trimmed)
	if minChars := p.config.Analysis.MinChars; minChars > 0 && n < minChars {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrTextTooShort, n, minChars)
	}
	if maxChars := p.config.Analysis.MaxChars; maxChars > 0 && n > maxChars {
		return fmt.Errorf("%w: %d characters, limit is %d", ErrTextTooLong, n, maxChars)
	}
	return nil
}

// IsValidationError reports whether err is an input validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrTextTooShort) ||
		errors.Is(err, ErrTextTooLong) ||
		errors.Is(err, ingest.ErrUnsupportedFormat) ||
		errors.Is(err, ingest.ErrFileTooLarge)
}

// AnalyzeText scores one text sample
func (p *Pipeline) AnalyzeText(ctx context.Context, subject, text string) (*model.Report, error) {
	start := time.Now()
	report, err := p.analyzeText(subject, "", text)
	return p.finish(ctx, model.KindText, report, err, start)
}

func (p *Pipeline) analyzeText(subject, source, text string) (*model.Report, error) {
	if err := p.ValidateText(text); err != nil {
		return nil, err
	}
	if subject == "" {
		subject = "Text sample"
	}

	result := p.scorer.Score(text)
	report := model.NewReport(model.KindText, subject, source)
	report.Text = &result
	return report, nil
}

// AnalyzeFile loads a document and scores its text
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	start := time.Now()

	doc, err := ingest.LoadFile(path, p.config.Analysis.MaxFileBytes)
	if err != nil {
		return p.finish(ctx, model.KindText, nil, fmt.Errorf("load %s: %w", path, err), start)
	}

	report, err := p.analyzeText(documentSubject(doc), path, doc.Text)
	if err != nil {
		err = fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p.finish(ctx, model.KindText, report, err, start)
}

func documentSubject(doc *ingest.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return filepath.Base(doc.Path)
}

// Sample is one labeled side of a comparison
type Sample struct {
	Label string
	Text  string
}

// Compare scores two samples side by side
func (p *Pipeline) Compare(ctx context.Context, a, b Sample) (*model.Report, error) {
	start := time.Now()
	report, err := p.compare(a, b, "")
	return p.finish(ctx, model.KindComparison, report, err, start)
}

// CompareFiles loads two documents and compares them
func (p *Pipeline) CompareFiles(ctx context.Context, pathA, pathB string) (*model.Report, error) {
	start := time.Now()

	var samples [2]Sample
	for i, path := range []string{pathA, pathB} {
		doc, err := ingest.LoadFile(path, p.config.Analysis.MaxFileBytes)
		if err != nil {
			return p.finish(ctx, model.KindComparison, nil, fmt.Errorf("load %s: %w", path, err), start)
		}
		samples[i] = Sample{Label: documentSubject(doc), Text: doc.Text}
	}

	report, err := p.compare(samples[0], samples[1], pathA+" | "+pathB)
	return p.finish(ctx, model.KindComparison, report, err, start)
}

func (p *Pipeline) compare(a, b Sample, source string) (*model.Report, error) {
	if err := p.ValidateText(a.Text); err != nil {
		return nil, fmt.Errorf("sample A: %w", err)
	}
	if err := p.ValidateText(b.Text); err != nil {
		return nil, fmt.Errorf("sample B: %w", err)
	}
	if a.Label == "" {
		a.Label = "Sample A"
	}
	if b.Label == "" {
		b.Label = "Sample B"
	}

	cmp := p.scorer.Compare(a.Text, b.Text)
	cmp.LabelA = a.Label
	cmp.LabelB = b.Label

	report := model.NewReport(model.KindComparison, a.Label+" vs "+b.Label, source)
	report.Comparison = &cmp
	return report, nil
}

// CheckNews scores the credibility of a URL or headline.
// URLs are fetched when HTTP is enabled; fetch failures degrade to headline-only
// scoring and are recorded in the report notes.
func (p *Pipeline) CheckNews(ctx context.Context, query string) (*model.Report, error) {
	start := time.Now()
	report, err := p.checkNews(ctx, query)
	return p.finish(ctx, model.KindNews, report, err, start)
}

func (p *Pipeline) checkNews(ctx context.Context, query string) (*model.Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyText
	}

	in := model.CredibilityInput{Query: query}
	report := model.NewReport(model.KindNews, query, "")

	pageURL, isURL := parseHTTPURL(query)
	if isURL {
		in.Host = pageURL.Hostname()
		in.HostAuthority = p.authority.Classify(query)
		report.Source = query
	}

	if isURL && p.fetcher != nil {
		if err := p.readPage(ctx, query, &in, report); err != nil {
			p.logger.Warn("page not analyzed, scoring URL only", "url", query, "error", err)
			report.Notes = append(report.Notes, fmt.Sprintf("Page not analyzed: %v", err))
		}
	} else if isURL {
		report.Notes = append(report.Notes, "Page fetching is disabled; only the URL was scored")
	}

	cred := p.credibility.Score(in)
	report.Credibility = &cred
	report.Evidence = in.Citations
	report.Attributions = in.Attributions
	return report, nil
}

// readPage fetches and extracts a news page into the credibility input
func (p *Pipeline) readPage(ctx context.Context, pageURL string, in *model.CredibilityInput, report *model.Report) error {
	fetched, err := p.fetcher.FetchWithRetry(ctx, pageURL)
	if err != nil {
		return err
	}

	article, err := p.articles.Extract(fetched.HTML, fetched.FinalURL)
	if err != nil {
		return fmt.Errorf("extract article: %w", err)
	}
	p.authority.Annotate(article.Citations)

	in.PageFetched = true
	in.Title = article.Title
	in.Author = article.Author
	in.HasContact = article.HasContact
	in.Body = article.Body
	in.Citations = article.Citations
	in.Attributions = p.attributions.Extract(article.Body)

	report.Source = fetched.FinalURL
	report.FetchMeta = &fetched.Meta
	report.Subject = article.Title
	if report.Subject == "" {
		report.Subject = fetched.Subject
	}

	// The body's AI-likeness is informational and never feeds credibility
	if p.ValidateText(article.Body) == nil {
		result := p.scorer.Score(article.Body)
		report.Text = &result
	}

	p.logger.Debug("article extracted", "url", fetched.FinalURL,
		"citations", len(article.Citations), "attributions", len(in.Attributions),
		"from_cache", fetched.Meta.FromCache)
	return nil
}

func parseHTTPURL(s string) (*url.URL, bool) {
	if strings.ContainsAny(s, " \t\n") {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}

// finish attaches the optional explanation, saves history and records metrics
func (p *Pipeline) finish(ctx context.Context, kind model.ReportKind, report *model.Report, err error, start time.Time) (*model.Report, error) {
	elapsed := time.Since(start).Seconds()

	if err != nil {
		outcome := metrics.OutcomeError
		if IsValidationError(err) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.RecordAnalysis(string(kind), outcome, elapsed)
		return nil, err
	}

	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.Explain(ctx, *report)
		if err != nil {
			p.logger.Warn("LLM explanation failed", "error", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	if p.history != nil {
		id, err := p.history.Save(ctx, report)
		if err != nil {
			p.logger.Warn("history save failed", "error", err)
		} else {
			report.ID = id
		}
	}

	headline, _ := report.Headline()
	metrics.RecordAnalysis(string(kind), metrics.OutcomeOK, elapsed)
	if kind != model.KindComparison {
		metrics.RecordScore(string(kind), headline)
	}

	p.logger.Debug("analysis complete", "kind", kind, "subject", report.Subject, "score", headline)
	return report, nil
}

// AnalyzeInput dispatches one batch input: news checks for URLs and headlines,
// file analysis otherwise
func (p *Pipeline) AnalyzeInput(news bool) worker.AnalyzeFunc {
	if news {
		return p.CheckNews
	}
	return p.AnalyzeFile
}
