package xclient

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrFetch marks every failure to retrieve a timeline or media from the network.
var ErrFetch = errors.New("xclient: fetch failed")

// APIError captures non-2xx responses from the X API or a media host.
type APIError struct {
	StatusCode int
	// Code is the first X error code when the body carries one (e.g. "34").
	Code    string
	Message string
	RawBody []byte
}

func (e *APIError) Error() string {
	b := strings.Builder{}
	b.WriteString("xclient: API error (status=")
	b.WriteString(strconv.Itoa(e.StatusCode))
	if e.Code != "" {
		b.WriteString(", code=")
		b.WriteString(e.Code)
	}
	b.WriteString(")")
	if m := strings.TrimSpace(e.Message); m != "" {
		b.WriteString(": ")
		b.WriteString(m)
	}
	return b.String()
}

// Unwrap lets callers match API failures with errors.Is(err, ErrFetch).
func (e *APIError) Unwrap() error { return ErrFetch }

// IsAuthError reports whether err is an APIError with status 401 or 403.
func IsAuthError(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == 401 || ae.StatusCode == 403
	}
	return false
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == 404
}

// buildAPIError understands the v1.1 `{"errors":[{"code","message"}]}` and
// v2 `{"title","detail"}` shapes and falls back to the trimmed body.
func buildAPIError(status int, body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	ae := &APIError{StatusCode: status, RawBody: body, Message: trimmed}
	if !strings.HasPrefix(trimmed, "{") {
		return ae
	}
	var raw struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ae
	}
	switch {
	case len(raw.Errors) > 0:
		ae.Code = strconv.Itoa(raw.Errors[0].Code)
		ae.Message = raw.Errors[0].Message
	case raw.Detail != "":
		ae.Message = raw.Detail
	case raw.Title != "":
		ae.Message = raw.Title
	}
	return ae
}
