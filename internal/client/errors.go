package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// maxSnippet is the number of characters of a failed response body kept in
// a StatusError.
const maxSnippet = 200

// ErrEmptyResponse is returned when a read answers 2xx without a body.
var ErrEmptyResponse = errors.New("empty response body")

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if xansi.StringWidth(s) > maxSnippet {
		s = xansi.Truncate(s, maxSnippet, "") + "..."
	}
	return s
}
