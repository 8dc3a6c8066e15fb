package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response body is retained.
const maxErrorBody = 64 * 1024

// Error is an application-level error response (4xx/5xx other than the
// authentication categories below). Code and Message are extracted from the
// backend's JSON error envelope when present; Body keeps the raw payload for
// caller-specific handling.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	if e == nil {
		return "api error"
	}
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api error: %d %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api error: %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api error: %d", e.StatusCode)
	}
}

// apiError aliases Error so it can be embedded without the field name
// colliding with the promoted Error() method.
type apiError = Error

// AuthenticationError reports a 401 that could not be recovered by the token
// refresh protocol (the retried request was rejected again, or no retry was
// possible).
type AuthenticationError struct {
	*apiError
}

// AuthorizationError reports a 403. It never triggers a token refresh; callers
// typically surface it as permission denied.
type AuthorizationError struct {
	*apiError
}

// ConnectivityError reports that a request never produced a response.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("connectivity error: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("connectivity error: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// RefreshError reports that the refresh exchange itself failed. It is always
// terminal: local credentials have been cleared and the application must
// re-authenticate.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// ErrorFromResponse converts a non-2xx response into the matching error
// category, consuming up to maxErrorBody of the body.
func ErrorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	code, message := parseErrorEnvelope(body)
	base := &Error{StatusCode: resp.StatusCode, Code: code, Message: message, Body: body}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{apiError: base}
	case http.StatusForbidden:
		return &AuthorizationError{apiError: base}
	default:
		return base
	}
}

// parseErrorEnvelope extracts code/message from the common envelope layouts:
// {"code":..,"message":..} and {"error":{"code":..,"message":..}}.
func parseErrorEnvelope(body []byte) (string, string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return "", truncate(trimmed, 256)
	}
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return "", truncate(trimmed, 256)
	}
	code := envelope.Code
	if code == "" {
		code = envelope.Error.Code
	}
	message := envelope.Message
	if message == "" {
		message = envelope.Error.Message
	}
	if message == "" {
		message = envelope.Detail
	}
	return code, truncate(message, 512)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
