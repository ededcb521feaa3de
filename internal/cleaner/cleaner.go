// Package cleaner sanitizes scraped text before it reaches the normalizer.
package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner strips markup from scraped field values using Bluemonday.
// Marketplace pages routinely leak span/b tags and entities into what
// should be plain condition or location text.
type Cleaner struct {
	policy *bluemonday.Policy
}

// New creates a cleaner that removes ALL HTML from field values.
func New() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// CleanText removes markup, decodes entities, and collapses whitespace.
func (c *Cleaner) CleanText(s string) string {
	text := c.policy.Sanitize(s)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// CleanMap sanitizes every string value in an extracted raw-data map,
// recursing into nested maps. Non-string values pass through untouched.
func (c *Cleaner) CleanMap(data map[string]any) map[string]any {
	result := make(map[string]any, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			result[k] = c.CleanText(val)
		case map[string]any:
			result[k] = c.CleanMap(val)
		default:
			result[k] = v
		}
	}
	return result
}
