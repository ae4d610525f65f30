package model

import "time"

// Config is the complete veracity configuration.
// Field tags serve both viper (mapstructure) and `config show` (yaml).
type Config struct {
	Analysis     AnalysisConfig     `mapstructure:"analysis" yaml:"analysis"`
	HTTP         HTTPConfig         `mapstructure:"http" yaml:"http"`
	Cache        CacheConfig        `mapstructure:"cache" yaml:"cache"`
	Concurrency  ConcurrencyConfig  `mapstructure:"concurrency" yaml:"concurrency"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Authority    AuthorityConfig    `mapstructure:"authority" yaml:"authority"`
	News         NewsConfig         `mapstructure:"news" yaml:"news"`
	Output       OutputConfig       `mapstructure:"output" yaml:"output"`
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	History      HistoryConfig      `mapstructure:"history" yaml:"history"`
}

// AnalysisConfig bounds the text accepted for scoring
type AnalysisConfig struct {
	MinChars     int   `mapstructure:"min_chars" yaml:"min_chars"`
	MaxChars     int   `mapstructure:"max_chars" yaml:"max_chars"`
	MaxFileBytes int64 `mapstructure:"max_file_bytes" yaml:"max_file_bytes"`
}

// HTTPConfig controls page fetching for news checks
type HTTPConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	InsecureTLS   bool          `mapstructure:"insecure_tls" yaml:"insecure_tls"`
	RespectRobots bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
	HTTPProxy     string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy       string        `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// CacheConfig controls the fetched-page cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// RateLimitingConfig controls per-host fetch pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size" yaml:"burst_size"`
}

// AuthorityConfig drives source authority classification
type AuthorityConfig struct {
	PrimaryDomains   []string          `mapstructure:"primary_domains" yaml:"primary_domains"`
	SecondaryDomains []string          `mapstructure:"secondary_domains" yaml:"secondary_domains"`
	PathPatterns     []PathPattern     `mapstructure:"path_patterns" yaml:"path_patterns,omitempty"`
	DomainMap        map[string]string `mapstructure:"domain_map" yaml:"domain_map,omitempty"`
}

// PathPattern maps a URL path regex to a tier name
type PathPattern struct {
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Tier    string `mapstructure:"tier" yaml:"tier"`
}

// NewsConfig holds the word lists used by the credibility scorer
type NewsConfig struct {
	ClickbaitPhrases []string `mapstructure:"clickbait_phrases" yaml:"clickbait_phrases"`
	SuspiciousTLDs   []string `mapstructure:"suspicious_tlds" yaml:"suspicious_tlds"`
	EmotiveWords     []string `mapstructure:"emotive_words" yaml:"emotive_words"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `mapstructure:"verbose" yaml:"verbose"`
	IncludeFooter bool `mapstructure:"include_footer" yaml:"include_footer"`
}

// LLMConfig configures the optional explanation provider
type LLMConfig struct {
	Provider       string `mapstructure:"provider" yaml:"provider"`
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"-"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout        int    `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens      int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	StrictEvidence bool   `mapstructure:"strict_evidence" yaml:"strict_evidence"`
}

// ServerConfig configures `veracity serve`
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	BodyLimit    string        `mapstructure:"body_limit" yaml:"body_limit"`
}

// HistoryConfig configures the sqlite history store
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MinChars:     50,
			MaxChars:     200_000,
			MaxFileBytes: 10 << 20,
		},
		HTTP: HTTPConfig{
			Enabled:       true,
			Timeout:       30 * time.Second,
			UserAgent:     "Veracity/0.3 (+https://github.com/ppiankov/veracity)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".veracity-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"gov", "gov.uk", "europa.eu", "who.int", "un.org",
				"nih.gov", "doi.org", "arxiv.org", "nature.com", "science.org",
			},
			SecondaryDomains: []string{
				"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "npr.org",
				"pbs.org", "theguardian.com", "nytimes.com", "washingtonpost.com",
				"wikipedia.org", "britannica.com",
			},
			PathPatterns: []PathPattern{
				{Pattern: `^/(law|legislation|statutes?)/`, Tier: "primary"},
			},
		},
		News: NewsConfig{
			ClickbaitPhrases: []string{
				"shocking", "unbelievable", "you won't believe", "secret",
				"they don't want you to know",
			},
			SuspiciousTLDs: []string{".xyz", ".click", ".info", ".blog"},
			EmotiveWords: []string{
				"outrage", "outrageous", "horrifying", "terrifying", "disgusting",
				"furious", "shameful", "evil", "destroyed", "slams", "panic",
				"disaster", "catastrophic", "insane", "heartbreaking", "betrayal",
			},
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Timeout:        30,
			MaxTokens:      600,
			StrictEvidence: true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			BodyLimit:    "2M",
		},
		History: HistoryConfig{
			Path: "veracity-history.db",
		},
	}
}
