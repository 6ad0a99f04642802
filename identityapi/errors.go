package identityapi

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	FallbackRegister = "Something went wrong"
	FallbackLogin    = "Login failed"
)

// APIError is a failed call to a remote service. Error returns Message
// unchanged so it can be shown to the user as is.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Rich converts the failure into a categorised go-errors value for logging.
func (e *APIError) Rich() *goerrors.Error {
	category := goerrors.CategoryOperation
	switch e.StatusCode {
	case http.StatusUnauthorized:
		category = goerrors.CategoryAuth
	case http.StatusForbidden:
		category = goerrors.CategoryAuthz
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		category = goerrors.CategoryBadInput
	case http.StatusNotFound:
		category = goerrors.CategoryNotFound
	case http.StatusConflict:
		category = goerrors.CategoryConflict
	case http.StatusTooManyRequests:
		category = goerrors.CategoryRateLimit
	}

	rich := goerrors.New(e.Message, category).
		WithTextCode("REMOTE_" + textOp(e.Op)).
		WithMetadata(map[string]any{
			"op":          e.Op,
			"status_code": e.StatusCode,
		})
	if e.StatusCode > 0 {
		rich = rich.WithCode(e.StatusCode)
	}
	return rich
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if goerrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func textOp(op string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToUpper(op))
}
