package jobs

import "strings"

// MatchesKeywords reports whether text contains any keyword, ignoring case.
// An empty keyword list matches everything.
func MatchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lowerText := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lowerText, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
