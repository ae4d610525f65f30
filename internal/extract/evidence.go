package extract

import (
	"net/url"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
	"golang.org/x/net/html"
)

// EvidenceExtractor extracts the outbound links a page cites
type EvidenceExtractor struct{}

// NewEvidenceExtractor creates a new evidence extractor
func NewEvidenceExtractor() *EvidenceExtractor {
	return &EvidenceExtractor{}
}

// Extract returns the http(s) links in htmlContent resolved against pageURL,
// deduplicated by URL without fragment.
func (e *EvidenceExtractor) Extract(htmlContent string, pageURL string) ([]model.Evidence, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	return e.FromNode(doc, base), nil
}

// FromNode walks an already parsed document
func (e *EvidenceExtractor) FromNode(doc *html.Node, base *url.URL) []model.Evidence {
	var evidence []model.Evidence
	seen := make(map[string]bool)
	pageHost := normalizeHost(base.Hostname())

	var walk func(n *html.Node, inSources bool)
	walk = func(n *html.Node, inSources bool) {
		if n.Type == html.ElementNode {
			if isSourcesSection(n) {
				inSources = true
			}

			if n.Data == "a" {
				if ev, ok := linkEvidence(n, base, pageHost, inSources); ok {
					key := stripFragment(ev.URL)
					if !seen[key] {
						seen[key] = true
						evidence = append(evidence, ev)
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inSources)
		}
	}

	walk(doc, false)
	return evidence
}

func linkEvidence(n *html.Node, base *url.URL, pageHost string, inSources bool) (model.Evidence, bool) {
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		return model.Evidence{}, false
	}

	resolved := resolveURL(base, href)
	if resolved == nil {
		return model.Evidence{}, false
	}

	host := resolved.Hostname()
	return model.Evidence{
		URL:        resolved.String(),
		Kind:       classifyEvidenceKind(href, n, inSources),
		Host:       host,
		IsSameHost: normalizeHost(host) == pageHost,
		Text:       collapseSpace(nodeText(n)),
	}, true
}

// resolveURL resolves href against base and keeps only http(s) targets
func resolveURL(base *url.URL, href string) *url.URL {
	if strings.HasPrefix(href, "#") {
		return nil
	}

	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return nil
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	return resolved
}

// classifyEvidenceKind determines the kind of evidence link
func classifyEvidenceKind(href string, n *html.Node, inSources bool) model.EvidenceKind {
	lower := strings.ToLower(href)

	if strings.Contains(lower, "cite") || strings.Contains(lower, "#ref") || strings.Contains(lower, "doi.org/") {
		return model.EvidenceKindCitation
	}
	if cls := strings.ToLower(attr(n, "class")); strings.Contains(cls, "reference") || strings.Contains(cls, "citation") {
		return model.EvidenceKindCitation
	}

	if inSources || strings.Contains(lower, "reference") || strings.Contains(lower, "footnote") {
		return model.EvidenceKindReference
	}

	return model.EvidenceKindExternalLink
}

// isSourcesSection matches reference lists and "sources" blocks
func isSourcesSection(n *html.Node) bool {
	id := strings.ToLower(attr(n, "id"))
	cls := strings.ToLower(attr(n, "class"))
	for _, marker := range []string{"references", "sources", "footnotes", "bibliography"} {
		if strings.Contains(id, marker) || strings.Contains(cls, marker) {
			return true
		}
	}
	return false
}

func stripFragment(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
