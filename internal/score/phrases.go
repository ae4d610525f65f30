package score

import "strings"

// AIPhrases are stock phrases over-represented in machine-generated prose.
// Matching is case-insensitive substring containment.
var AIPhrases = []string{
	"it's worth noting",
	"it's important to",
	"in conclusion",
	"to summarize",
	"essentially",
	"fundamentally",
	"paradigm",
	"leverage",
	"synergy",
	"delve into",
	"tapestry",
	"realm",
	"multifaceted",
	"comprehensive",
	"holistic",
	"robust",
	"cutting-edge",
	"state-of-the-art",
	"innovative",
	"revolutionize",
	"transformative",
	"game-changing",
	"pivotal",
	"crucial",
	"furthermore",
	"moreover",
	"additionally",
	"consequently",
}

// TransitionWords are formal connectives counted by the transition rule
var TransitionWords = []string{
	"however",
	"moreover",
	"furthermore",
	"additionally",
	"consequently",
	"therefore",
}

// FindPhrases returns the distinct entries of phrases contained in text, in list order
func FindPhrases(text string, phrases []string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			found = append(found, p)
		}
	}
	return found
}

// CountTransitions returns how many distinct transition words appear in text
func CountTransitions(text string) int {
	return len(FindPhrases(text, TransitionWords))
}
