package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonLDEntries reads schema.org JobPosting objects from the document's
// ld+json script blocks. Blocks that fail to decode are skipped.
func jsonLDEntries(doc *goquery.Document) []entry {
	var out []entry
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}
		findJobPostings(payload, &out)
	})
	return out
}

func findJobPostings(payload any, out *[]entry) {
	switch t := payload.(type) {
	case map[string]any:
		if e, ok := entryFromPosting(t); ok {
			*out = append(*out, e)
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				findJobPostings(item, out)
			}
		}
	case []any:
		for _, item := range t {
			findJobPostings(item, out)
		}
	}
}

func entryFromPosting(payload map[string]any) (entry, bool) {
	if !isJobPostingType(payload["@type"]) {
		return entry{}, false
	}
	e := entry{
		title:    CleanText(stringField(payload["title"])),
		company:  CleanText(orgName(payload["hiringOrganization"])),
		location: CleanText(parseLocation(payload["jobLocation"])),
		posted:   stringField(payload["datePosted"]),
		href:     stringField(payload["url"]),
	}
	return e, e.title != ""
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if val, ok := t["@value"]; ok {
			if str, ok2 := val.(string); ok2 {
				return strings.TrimSpace(str)
			}
		}
	}
	return ""
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func orgName(v any) string {
	if name := stringField(v); name != "" {
		return name
	}
	if org, ok := v.(map[string]any); ok {
		return stringField(org["name"])
	}
	return ""
}

func parseLocation(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if loc := parseLocation(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		if addr, ok := t["address"].(map[string]any); ok {
			return joinParts(
				stringField(addr["addressLocality"]),
				stringField(addr["addressRegion"]),
				stringField(addr["addressCountry"]),
			)
		}
		if name := stringField(t["name"]); name != "" {
			return name
		}
	}
	return ""
}

func joinParts(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(p))
	}
	return strings.Join(out, ", ")
}
