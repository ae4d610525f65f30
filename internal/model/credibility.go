package model

// CredibilityLevel is the coarse classification of a credibility score
type CredibilityLevel string

const (
	CredibilityHigh   CredibilityLevel = "high"
	CredibilityMedium CredibilityLevel = "medium"
	CredibilityLow    CredibilityLevel = "low"
)

// Label returns the display name of the level
func (l CredibilityLevel) Label() string {
	switch l {
	case CredibilityHigh:
		return "High Credibility"
	case CredibilityMedium:
		return "Medium Credibility"
	case CredibilityLow:
		return "Low Credibility"
	default:
		return "Unknown"
	}
}

// CredibilityInput is everything the credibility scorer looks at.
// PageFetched is false for bare headlines or when fetching is disabled;
// page-only rules are skipped in that case.
type CredibilityInput struct {
	Query         string
	Host          string
	HostAuthority AuthorityTier
	PageFetched   bool
	Title         string
	Author        string
	HasContact    bool
	Body          string
	Citations     []Evidence
	Attributions  []Attribution
}

// Credibility is the outcome of a news credibility check
type Credibility struct {
	Score     int              `json:"score"`
	Level     CredibilityLevel `json:"level"`
	Factors   []Factor         `json:"factors"`
	Query     string           `json:"query"`
	Host      string           `json:"host,omitempty"`
	Authority AuthorityTier    `json:"authority,omitempty"`
}
