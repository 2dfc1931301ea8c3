package parsing

import (
	"net/url"
	"regexp"
	"strings"
)

var doiRegex = regexp.MustCompile(`\b(10\.[0-9]{4,}(?:\.[0-9]+)*/\S+)\b`)

// GetDOIFromString Get DOI from string
func GetDOIFromString(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	// doi.org links carry the DOI percent-encoded in the path
	if unescaped, err := url.PathUnescape(content); err == nil {
		content = unescaped
	}

	matches := doiRegex.FindStringSubmatch(content)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// DOIURL turns a reference's DOI column into a link. The column holds either a
// bare DOI or a full URL; anything else yields "".
func DOIURL(value string) string {
	value = strings.TrimSpace(value)
	if doi := GetDOIFromString(value); doi != "" {
		return "https://doi.org/" + doi
	}
	if u, err := url.Parse(value); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return value
	}
	return ""
}
