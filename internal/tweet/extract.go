// Package tweet normalizes free-form tweet references (URLs in the shapes
// the major clients produce, or bare numeric ids) into canonical numeric
// tweet ids at input time, so previews always show what will be persisted.
package tweet

import "regexp"

var numericID = regexp.MustCompile(`^\d+$`)

// URL shapes tried in order. Hosts cover twitter.com and x.com plus their
// mobile/www subdomains.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[./])(?:twitter\.com|x\.com)/[^/]+/status/(\d+)`),
	regexp.MustCompile(`(?:^|[./])(?:twitter\.com|x\.com)/[^/]+/statuses/(\d+)`),
	regexp.MustCompile(`(?:^|[./])(?:twitter\.com|x\.com)/[^/]+/tweets/(\d+)`),
}

// Extract returns the canonical numeric tweet id for the input. A bare
// numeric id passes through unchanged. Anything that matches none of the
// known URL shapes is returned as-is: a best-effort fallback, not an error.
// Callers must tolerate a non-numeric "id" downstream and degrade
// gracefully.
func Extract(input string) string {
	if numericID.MatchString(input) {
		return input
	}
	for _, re := range urlPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	return input
}

// Valid reports whether id has the canonical numeric shape. The renderer
// uses it to decide between embedding and an error placeholder.
func Valid(id string) bool {
	return numericID.MatchString(id)
}
