// Package urlutil provides URL extraction and normalization helpers
// shared by entity extraction and threat-intelligence checks.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var urlPattern = regexp.MustCompile(
	`(?i)https?://[^\s<>"')\]]+|(?:www\.)[^\s<>"')\]]+|(?:bit\.ly|t\.co|goo\.gl|tinyurl\.com|is\.gd)/[a-zA-Z0-9]+`,
)

// ExtractURLs extracts URLs from text, normalized with a scheme and
// deduplicated preserving first occurrence.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !strings.HasPrefix(m, "http://") && !strings.HasPrefix(m, "https://") {
			m = "http://" + m
		}
		m = strings.TrimRight(m, ".,;:!?)")
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// RegistrableDomain returns the eTLD+1 for a URL's host, or the bare
// hostname when the public suffix list has no answer (IPs, localhost).
func RegistrableDomain(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

var shorteners = map[string]struct{}{
	"bit.ly":      {},
	"t.co":        {},
	"goo.gl":      {},
	"tinyurl.com": {},
	"is.gd":       {},
	"ow.ly":       {},
	"buff.ly":     {},
	"tiny.cc":     {},
	"rb.gy":       {},
	"cutt.ly":     {},
	"shorturl.at": {},
}

// IsShortened reports whether the URL uses a known URL shortener
func IsShortened(rawURL string) bool {
	_, ok := shorteners[RegistrableDomain(rawURL)]
	return ok
}
