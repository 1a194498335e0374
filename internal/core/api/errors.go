package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any *Error with a 404 status via errors.Is.
var ErrNotFound = errors.New("not found")

// Kind names the API family an error came from.
type Kind string

const (
	KindPlugin Kind = "plugin"
	KindSkill  Kind = "skill"
)

// Error is returned for every non-2xx API response.
type Error struct {
	Kind       Kind
	StatusCode int
	Code       string // server-supplied machine code, may be empty
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s api: %s (%s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s api: %s", e.Kind, e.Message)
}

// Is reports 404 responses as ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// HTTPCode returns the response status code.
func (e *Error) HTTPCode() int { return e.StatusCode }

// StatusCode extracts the status code of an *Error in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// newError builds an *Error from a failed response, preferring the server's
// JSON {error, code} body and falling back to the status text.
func newError(kind Kind, status int, body []byte) *Error {
	e := &Error{Kind: kind, StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Code = eb.Code
		e.Message = eb.Error
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
	return e
}
