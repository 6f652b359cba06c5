package syndigo

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/redact"
)

// HTTPError is a sanitized summary of a non-200 response.
type HTTPError struct {
	StatusCode int
	Status     string

	// Snippet is a redacted, truncated copy of the response body.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "syndigo http error"
	}
	msg := fmt.Sprintf("syndigo api error: status=%s", strings.TrimSpace(e.Status))
	if e.Snippet != "" {
		msg += " body=" + e.Snippet
	}
	return msg
}

// CountText is the per-item report form: "Error <status>: <body>".
func (e *HTTPError) CountText() string {
	if e.Snippet == "" {
		return fmt.Sprintf("Error %d", e.StatusCode)
	}
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Snippet)
}

func newHTTPError(resp *http.Response, body []byte) error {
	h := &HTTPError{}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}
	h.Snippet = redactAndTruncate(body)
	return h
}

func redactAndTruncate(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	// Keep this small: error bodies land in report cells.
	const max = 512
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := redact.Secrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
