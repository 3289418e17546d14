package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned for any 401 on an authenticated call. The token
// has already been cleared when the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

const fallbackMessage = "Request failed"

// Error is a non-2xx API response normalised from its body.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

func IsConflict(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusConflict
}

// parseError builds an *Error from message, then detail, then code.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{Status: status, Message: fallbackMessage}

	var payload struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Code    string          `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	apiErr.Code = payload.Code
	switch {
	case payload.Message != "":
		apiErr.Message = payload.Message
	case len(payload.Detail) > 0:
		if msg := detailMessage(payload.Detail); msg != "" {
			apiErr.Message = msg
		}
	}

	return apiErr
}

// detailMessage accepts a plain string or a validation array of {msg}.
func detailMessage(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}

	return ""
}
