package gemini

import (
	"encoding/json"
	"errors"
	"fmt"

	pkghttp "github.com/edurag/knowledge-backend/pkg/http"
)

// APIError is a typed Gemini API failure carrying the HTTP status and the
// API's own error code when the response body included one.
type APIError struct {
	Message string
	Status  int
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("gemini: %s (status %d)", e.Message, e.Status)
}

// errorBody is the error envelope Google APIs return on failure.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// wrapAPIError converts connector-level HTTP errors into *APIError,
// extracting the Google error envelope from the body when present.
// Network errors pass through untouched.
func wrapAPIError(err error) error {
	var httpErr *pkghttp.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	apiErr := &APIError{
		Message: httpErr.Message,
		Status:  httpErr.StatusCode,
	}

	var body errorBody
	if jsonErr := json.Unmarshal([]byte(httpErr.Message), &body); jsonErr == nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
		apiErr.Code = body.Error.Status
	}

	return apiErr
}
