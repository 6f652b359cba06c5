package redact

import (
	"regexp"
	"strings"
)

var (
	// Matches "Bearer <token>" (JWTs and opaque tokens).
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// Common key=value formats that sometimes leak in error strings, including the
	// auth-client-secret header when it is echoed back by a proxy.
	secretKVRe = regexp.MustCompile(`(?i)\b(api[_-]?key|auth[_-]client[_-]secret|client[_-]?secret)\b("?\s*[:=]\s*"?)[^\s"',}]+`)
)

// Secrets removes obvious secret-bearing substrings from error/log strings.
func Secrets(s string) string {
	if s == "" {
		return ""
	}
	out := s
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = secretKVRe.ReplaceAllString(out, "$1$2<redacted>")
	return strings.TrimSpace(out)
}
