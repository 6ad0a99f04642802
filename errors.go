package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeTokenDecode      = "SESSION_TOKEN_DECODE"
	TextCodeNotAuthenticated = "SESSION_NOT_AUTHENTICATED"
	TextCodeValidation       = "SESSION_VALIDATION"
	TextCodeStore            = "SESSION_STORE"
	TextCodeMissingToken     = "SESSION_MISSING_TOKEN"
)

// ErrNotAuthenticated is returned when an operation needs a signed in identity.
var ErrNotAuthenticated = goerrors.New("not authenticated", goerrors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmptyToken is returned when the identity service answers without a token.
var ErrEmptyToken = goerrors.New("identity service returned an empty token", goerrors.CategoryBadInput).
	WithTextCode(TextCodeMissingToken)

func decodeError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to decode session token").
		WithTextCode(TextCodeTokenDecode)
}

func validationError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid payload").
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

func storeError(err error, op string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "session store "+op+" failed").
		WithTextCode(TextCodeStore)
}

// IsDecodeError reports whether err came from decoding a malformed token.
func IsDecodeError(err error) bool {
	return hasTextCode(err, TextCodeTokenDecode)
}

// IsValidationError reports whether err is a payload validation failure.
func IsValidationError(err error) bool {
	return hasTextCode(err, TextCodeValidation)
}

// IsNotAuthenticated reports whether err signals a missing identity.
func IsNotAuthenticated(err error) bool {
	return hasTextCode(err, TextCodeNotAuthenticated)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
