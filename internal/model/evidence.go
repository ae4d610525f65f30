package model

// Evidence is an outbound link cited by an analyzed page
type Evidence struct {
	URL        string        `json:"url"`
	Kind       EvidenceKind  `json:"kind"`
	Host       string        `json:"host,omitempty"`
	IsSameHost bool          `json:"is_same_host"`
	Authority  AuthorityTier `json:"authority,omitempty"`
	Text       string        `json:"text,omitempty"` // anchor text
}

// EvidenceKind classifies the type of link
type EvidenceKind string

const (
	EvidenceKindCitation     EvidenceKind = "citation"      // footnote-style citation
	EvidenceKindExternalLink EvidenceKind = "external_link" // plain outbound link
	EvidenceKindReference    EvidenceKind = "reference"     // named reference / sources section
)

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0
	TierPrimary   AuthorityTier = 1 // government, academic, official records
	TierSecondary AuthorityTier = 2 // wire services, public broadcasters, major outlets
	TierTertiary  AuthorityTier = 3 // everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// IsAuthoritative reports whether the tier is primary or secondary
func (t AuthorityTier) IsAuthoritative() bool {
	return t == TierPrimary || t == TierSecondary
}

// Attribution is a sentence that attributes a statement to a source
type Attribution struct {
	Text     string `json:"text"`
	Keyword  string `json:"keyword"`            // matched attribution keyword
	Sentence int    `json:"sentence,omitempty"` // 0-based sentence index
}
