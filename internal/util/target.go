package util

import (
	"net/url"
	"strings"
)

// NormalizeTarget returns the canonical form of a target identifier used for
// comparisons. Scheme and host are lower-cased and a trailing "/" is dropped.
// Identifiers that do not parse as URLs are only trimmed.
func NormalizeTarget(target string) string {
	target = strings.TrimSpace(target)

	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return strings.TrimSuffix(target, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// SameTarget reports whether two identifiers address the same target
func SameTarget(a, b string) bool {
	return NormalizeTarget(a) == NormalizeTarget(b)
}

// TargetScheme returns the lower-cased scheme of a target ("" if none)
func TargetScheme(target string) string {
	idx := strings.Index(target, "://")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(target[:idx])
}

// ShortTarget strips the scheme and trailing slash for compact display.
// "https://www.github.com/" becomes "www.github.com".
func ShortTarget(target string) string {
	if idx := strings.Index(target, "://"); idx != -1 {
		target = target[idx+len("://"):]
	}
	return strings.TrimSuffix(target, "/")
}
