package extract

import (
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/veracity/internal/model"
)

// minReadableChars is the shortest readability output trusted as the body
const minReadableChars = 200

// Article is the structured content of a fetched news page
type Article struct {
	Title      string
	Author     string
	HasContact bool
	Body       string
	Citations  []model.Evidence
}

// ArticleExtractor pulls title, byline, body and citations out of a page
type ArticleExtractor struct {
	evidence *EvidenceExtractor
}

// NewArticleExtractor creates a new article extractor
func NewArticleExtractor() *ArticleExtractor {
	return &ArticleExtractor{evidence: NewEvidenceExtractor()}
}

// Extract parses htmlContent fetched from pageURL
func (e *ArticleExtractor) Extract(htmlContent, pageURL string) (*Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	art := &Article{
		Title:      findTitle(doc),
		Author:     findAuthor(doc),
		HasContact: hasContactLink(doc),
	}

	// Citations come from the full page before any cleanup
	for _, n := range doc.Nodes {
		art.Citations = append(art.Citations, e.evidence.FromNode(n, base)...)
	}

	art.Body = extractBody(doc, base)
	return art, nil
}

func findTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return collapseSpace(v)
	}
	if t := collapseSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapseSpace(doc.Find("h1").First().Text())
}

func findAuthor(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="author"]`, `meta[property="article:author"]`, `meta[name="byl"]`} {
		if v, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(v) != "" {
			return collapseSpace(v)
		}
	}

	for _, sel := range []string{`[rel="author"]`, `[itemprop="author"]`, ".byline", ".author"} {
		if t := collapseSpace(doc.Find(sel).First().Text()); t != "" {
			return strings.TrimPrefix(t, "By ")
		}
	}
	return ""
}

func hasContactLink(doc *goquery.Document) bool {
	found := false
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		probe := strings.ToLower(href + " " + s.Text())
		if strings.Contains(probe, "contact") || strings.Contains(probe, "about") {
			found = true
			return false
		}
		return true
	})
	return found
}

// extractBody strips page chrome with goquery, then asks readability for
// the main content. Short readability output falls back to paragraph text.
func extractBody(doc *goquery.Document, base *url.URL) string {
	clean := doc.Clone()
	clean.Find("script, style, noscript, iframe, nav, header, footer, aside, form").Remove()
	clean.Find("[class*='share'], [class*='social'], [class*='comment'], [id*='comment']").Remove()

	cleaned, err := clean.Html()
	if err == nil && cleaned != "" {
		if article, err := readability.FromReader(strings.NewReader(cleaned), base); err == nil {
			var buf strings.Builder
			if err := article.RenderText(&buf); err == nil {
				if text := tidyLines(buf.String()); len(text) >= minReadableChars {
					return text
				}
			}
		}
	}

	var paras []string
	clean.Find("p, h2, h3, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		if t := collapseSpace(s.Text()); t != "" {
			paras = append(paras, t)
		}
	})
	if len(paras) > 0 {
		return strings.Join(paras, "\n")
	}

	return collapseSpace(clean.Find("body").Text())
}
