package httpclient

import (
	"net/url"
	"strings"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, DELETE, ...).
	Method string
	// Path is the full target URL, usually built with ResolveURL.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Body accepts io.Reader, []byte, string, or any value that will be
	// JSON-encoded. Nil sends no body.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ResolveURL returns base with its path replaced by the given segments.
// Each segment is path-escaped; query and fragment of base are dropped.
//
//	ResolveURL("http://h:8080/ignored", "v1", "service") // http://h:8080/v1/service
func ResolveURL(base string, segments ...string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", NewValidationError("invalid base URL " + base + ": " + err.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return "", NewValidationError("base URL must be absolute: " + base)
	}

	raw := make([]string, len(segments))
	for i, s := range segments {
		raw[i] = url.PathEscape(s)
	}
	u.Path = "/" + strings.Join(segments, "/")
	u.RawPath = "/" + strings.Join(raw, "/")
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
