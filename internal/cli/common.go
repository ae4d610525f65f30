package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/llm"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/store"
	"github.com/spf13/cobra"
)

// Flags shared by the analysis commands
var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	noCache     bool
	noFooter    bool
	insecureTLS bool
	noFetch     bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (\"-\" for stdout)")
	cmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	addFooterFlag(cmd)
}

func addFooterFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func addHTTPFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout per request")
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "never fetch pages; score the URL or headline only")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "attach an LLM explanation (never changes scores)")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// commandConfig loads the effective config and applies flags the user set
func commandConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-fetch") {
		cfg.HTTP.Enabled = !noFetch
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}

	if llmEnabled {
		if err := applyLLMFlags(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func applyLLMFlags(cfg *model.Config) error {
	cfg.LLM.Provider = strings.ToLower(llmProvider)
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	cfg.LLM.StrictEvidence = true

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = llm.OllamaBaseURL
		}
	}
	return nil
}

// newPipeline builds the pipeline and, when enabled, its history store.
// The returned cleanup closes the store.
func newPipeline(cfg *model.Config) (*pipeline.Pipeline, *store.Store, func(), error) {
	logger := slog.Default()
	cleanup := func() {}

	var opts []pipeline.Option
	var st *store.Store
	if cfg.History.Enabled {
		var err error
		st, err = store.Open(cfg.History.Path, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open history: %w", err)
		}
		opts = append(opts, pipeline.WithHistory(st))
		cleanup = func() { _ = st.Close() }
	}

	return pipeline.NewPipeline(cfg, logger, opts...), st, cleanup, nil
}

// emitReport prints the terminal summary and writes the requested files
func emitReport(cmd *cobra.Command, cfg *model.Config, report *model.Report) error {
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON == "-" {
		return renderer.WriteJSON(cmd.OutOrStdout(), report)
	}

	renderer.RenderSummary(cmd.OutOrStdout(), report)

	if outMD == "" && report.LLM != nil && report.LLM.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), llm.RenderSeparateMarkdown(report.LLM))
	}
	if report.ID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Saved to history: %s\n", report.ID)
	}

	return renderer.Write(report, outJSON, outMD, cmd.ErrOrStderr())
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = filepath.Base(s)
	s = filepath.Clean(s)

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." {
		s = "report"
	}
	return s
}
