package score

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ppiankov/veracity/internal/model"
)

const (
	credibilityBase = 50

	credibilityHigh   = 70
	credibilityMedium = 40

	minEmotiveHits    = 2
	minEmotiveDensity = 0.01
	minAttributions   = 2
)

// CredibilityScorer rates how trustworthy a news item looks from surface signals.
// It never claims an item is true or false.
type CredibilityScorer struct {
	clickbait []string
	tlds      []string
	emotive   map[string]struct{}
}

// NewCredibilityScorer creates a scorer from the news word lists
func NewCredibilityScorer(cfg model.NewsConfig) *CredibilityScorer {
	s := &CredibilityScorer{
		emotive: make(map[string]struct{}, len(cfg.EmotiveWords)),
	}
	for _, p := range cfg.ClickbaitPhrases {
		s.clickbait = append(s.clickbait, strings.ToLower(p))
	}
	for _, t := range cfg.SuspiciousTLDs {
		t = strings.ToLower(t)
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		s.tlds = append(s.tlds, t)
	}
	for _, w := range cfg.EmotiveWords {
		s.emotive[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Score applies the credibility rules in order starting from a neutral base
func (s *CredibilityScorer) Score(in model.CredibilityInput) model.Credibility {
	total := credibilityBase
	var factors []model.Factor

	add := func(points int, label, impact string) {
		total += points
		factors = append(factors, model.Factor{
			Label:    label,
			Impact:   impact,
			Negative: points < 0,
			Points:   points,
		})
	}

	// 1. Clickbait
	if phrase := s.clickbaitPhrase(in.Query, in.Title); phrase != "" {
		add(-20, fmt.Sprintf("Clickbait language detected (%q)", phrase), "High concern")
	}

	// 2. Suspicious TLD
	if tld := s.suspiciousTLD(in.Host, in.Query); tld != "" {
		add(-15, fmt.Sprintf("Suspicious domain extension (%s)", tld), "Medium concern")
	}

	// 3. Source authority
	if in.HostAuthority.IsAuthoritative() {
		add(20, "Reputable news source", "Positive")
	}

	if in.PageFetched {
		// 4. Author attribution
		if strings.TrimSpace(in.Author) != "" {
			add(10, "Clear author attribution", "Positive")
		} else {
			add(-10, "No clear author attribution", "Medium concern")
		}

		// 5. Contact information
		if in.HasContact {
			add(5, "Source has contact information", "Positive")
		}
	}

	// 6. Emotive language
	sample := in.Query
	if in.PageFetched {
		sample = in.Title + " " + in.Body
	}
	if hits, density := s.emotiveDensity(sample); hits >= minEmotiveHits && density >= minEmotiveDensity {
		add(-15, "Emotional manipulation detected", "High concern")
	}

	// 7. Citations
	if in.PageFetched {
		outbound, authoritative := countCitations(in.Citations)
		switch {
		case authoritative > 0:
			add(10, fmt.Sprintf("Cites authoritative sources (%d)", authoritative), "Positive")
		case outbound == 0:
			add(-5, "No outbound citations", "Low concern")
		}
	}

	// 8. Attributed statements
	if n := len(in.Attributions); n >= minAttributions {
		add(5, fmt.Sprintf("Statements attributed to sources (%d)", n), "Positive")
	}

	final := clamp(total, 0, 100)

	return model.Credibility{
		Score:     final,
		Level:     LevelFor(final),
		Factors:   factors,
		Query:     in.Query,
		Host:      in.Host,
		Authority: in.HostAuthority,
	}
}

// LevelFor maps a clamped credibility score onto a level
func LevelFor(score int) model.CredibilityLevel {
	switch {
	case score >= credibilityHigh:
		return model.CredibilityHigh
	case score >= credibilityMedium:
		return model.CredibilityMedium
	default:
		return model.CredibilityLow
	}
}

func (s *CredibilityScorer) clickbaitPhrase(texts ...string) string {
	for _, t := range texts {
		lower := strings.ToLower(t)
		for _, p := range s.clickbait {
			if p != "" && strings.Contains(lower, p) {
				return p
			}
		}
	}
	return ""
}

// suspiciousTLD checks the host, or the bare query when there is no host
func (s *CredibilityScorer) suspiciousTLD(host, query string) string {
	subject := strings.ToLower(strings.TrimSpace(host))
	if subject == "" {
		subject = strings.ToLower(strings.TrimSpace(query))
	}
	subject = strings.TrimSuffix(subject, "/")

	for _, tld := range s.tlds {
		if strings.HasSuffix(subject, tld) {
			return tld
		}
	}
	return ""
}

func (s *CredibilityScorer) emotiveDensity(text string) (int, float64) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0, 0
	}

	hits := 0
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if _, ok := s.emotive[w]; ok {
			hits++
		}
	}
	return hits, float64(hits) / float64(len(words))
}

func countCitations(citations []model.Evidence) (outbound, authoritative int) {
	for _, c := range citations {
		if c.IsSameHost {
			continue
		}
		outbound++
		if c.Authority.IsAuthoritative() {
			authoritative++
		}
	}
	return outbound, authoritative
}
