package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/util"
	"github.com/sashabaranov/go-openai"
)

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// OpenAIProvider talks to OpenAI or any OpenAI-compatible endpoint
type OpenAIProvider struct {
	name   string
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a provider for the OpenAI API; an API key is required
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	return newOpenAICompatible(config, "openai", true)
}

func newOpenAICompatible(config Config, name string, requireKey bool) (*OpenAIProvider, error) {
	if requireKey && config.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable lists models as a lightweight reachability check
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		slog.Debug("llm provider check failed", "provider", p.name, "error", err)
		return false
	}
	return true
}

// Summarize generates an explanation with the Chat Completions API
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.EvidenceURLs)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 600
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You explain Veracity heuristic reports. You describe signals and never claim authorship or truth.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	cited := extractURLs(summary)

	if p.config.StrictEvidence {
		if leaked := disallowedURLs(cited, req.EvidenceURLs); len(leaked) > 0 {
			return nil, fmt.Errorf("citation leak: model cited disallowed URL %s", leaked[0])
		}
	}

	return &SummarizeResponse{
		Summary:    summary,
		CitedURLs:  cited,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func (p *OpenAIProvider) timeout() time.Duration {
	if p.config.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.config.Timeout) * time.Second
}

// extractURLs returns the distinct http(s) URLs in text, without trailing punctuation
func extractURLs(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?'")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

func disallowedURLs(cited, allowed []string) []string {
	ok := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		ok[u] = true
	}

	var out []string
	for _, u := range cited {
		if !ok[u] {
			out = append(out, u)
		}
	}
	return out
}
