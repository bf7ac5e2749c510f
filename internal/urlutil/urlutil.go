// Package urlutil normalizes the URLs the fetcher requests and the job links
// extracted from listing pages.
package urlutil

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

var blockedSchemes = []string{"mailto:", "tel:", "javascript:", "data:"}

// WithScheme parses raw and defaults its scheme to https.
func WithScheme(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

// HostKey identifies the host of raw for per-host limits: lower case,
// without a leading "www.". Unparseable input maps to "default".
func HostKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "default"
	}
	return normalizeHost(u.Hostname())
}

// Resolve turns an href found on a page into an absolute link. It returns ""
// for empty, unparseable or non-navigable hrefs (mailto, tel, javascript,
// data). Tracking parameters are dropped.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lower := strings.ToLower(href)
	for _, p := range blockedSchemes {
		if strings.HasPrefix(lower, p) {
			return ""
		}
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.RawQuery = stripTracking(u.RawQuery)
	return u.String()
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func isTracking(key string) bool {
	lk := strings.ToLower(key)
	return strings.HasPrefix(lk, "utm_") || lk == "gclid" || lk == "fbclid"
}

// stripTracking leaves the query untouched unless it carries tracking
// parameters.
func stripTracking(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return raw
	}
	found := false
	for key := range values {
		if isTracking(key) {
			delete(values, key)
			found = true
		}
	}
	if !found {
		return raw
	}
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
