package platform

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query parameters stripped during URL normalization.
// They never change which listing a URL points at.
var trackingParams = map[string]struct{}{
	"fbclid":       {},
	"gclid":        {},
	"igshid":       {},
	"mc_cid":       {},
	"mc_eid":       {},
	"ref":          {},
	"referrer":     {},
	"share":        {},
	"si":           {},
	"utm_campaign": {},
	"utm_content":  {},
	"utm_medium":   {},
	"utm_source":   {},
	"utm_term":     {},
}

// NormalizeURL produces the canonical form of a listing URL used as cache
// key material: https scheme, lowercased host without www, tracking
// parameters stripped, remaining parameters sorted, no trailing slash.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.ToLower(trimmed)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	q := u.Query()
	for param := range q {
		if _, tracked := trackingParams[strings.ToLower(param)]; tracked {
			q.Del(param)
		}
	}

	path := strings.TrimRight(u.Path, "/")

	normalized := "https://" + host + path
	if len(q) > 0 {
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			for _, v := range q[k] {
				parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
			}
		}
		normalized += "?" + strings.Join(parts, "&")
	}
	return normalized
}
