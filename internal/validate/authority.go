package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// AuthorityClassifier sorts sources into authority tiers by domain.
// Matching is on whole domain labels, so "ap.example.com" is not "apnews.com"
// and "notbbc.com" is not "bbc.com".
type AuthorityClassifier struct {
	domainMap    map[string]model.AuthorityTier
	primary      []string
	secondary    []string
	pathPatterns []compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	tier    model.AuthorityTier
}

// NewAuthorityClassifier creates a classifier; nil config uses the defaults
func NewAuthorityClassifier(config *model.AuthorityConfig) *AuthorityClassifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	c := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(config.DomainMap)),
		primary:   normalizeDomains(config.PrimaryDomains),
		secondary: normalizeDomains(config.SecondaryDomains),
	}

	for host, tier := range config.DomainMap {
		c.domainMap[normalizeHost(host)] = parseTierString(tier)
	}

	// Invalid patterns are skipped
	for _, pp := range config.PathPatterns {
		if re, err := regexp.Compile(pp.Pattern); err == nil {
			c.pathPatterns = append(c.pathPatterns, compiledPattern{
				pattern: re,
				tier:    parseTierString(pp.Tier),
			})
		}
	}

	return c
}

// Classify classifies a URL into an authority tier
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.TierTertiary
	}

	if tier, ok := a.classifyHost(parsed.Hostname()); ok {
		return tier
	}

	for _, cp := range a.pathPatterns {
		if cp.pattern.MatchString(parsed.Path) {
			return cp.tier
		}
	}

	return model.TierTertiary
}

// ClassifyHost classifies a bare host name
func (a *AuthorityClassifier) ClassifyHost(host string) model.AuthorityTier {
	if tier, ok := a.classifyHost(host); ok {
		return tier
	}
	return model.TierTertiary
}

// Annotate fills in the Authority tier of every evidence link
func (a *AuthorityClassifier) Annotate(evidence []model.Evidence) {
	for i := range evidence {
		evidence[i].Authority = a.Classify(evidence[i].URL)
	}
}

func (a *AuthorityClassifier) classifyHost(host string) (model.AuthorityTier, bool) {
	host = normalizeHost(host)
	if host == "" {
		return model.TierUnknown, false
	}

	if tier, ok := a.domainMap[host]; ok {
		return tier, true
	}

	if matchesAny(host, a.primary) {
		return model.TierPrimary, true
	}
	if matchesAny(host, a.secondary) {
		return model.TierSecondary, true
	}

	// Government and academic suffixes
	for _, suffix := range []string{".gov", ".mil", ".edu", ".ac.uk", ".gov.uk", ".gc.ca"} {
		if strings.HasSuffix(host, suffix) {
			return model.TierPrimary, true
		}
	}

	return model.TierUnknown, false
}

// matchesAny reports whether host equals a domain or is a subdomain of it
func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = normalizeHost(strings.TrimPrefix(d, ".")); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

// parseTierString converts a tier string to AuthorityTier
func parseTierString(tier string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
