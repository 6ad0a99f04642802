package dashboard

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation    = "DASHBOARD_VALIDATION"
	TextCodeSheetURL      = "DASHBOARD_SHEET_URL"
	TextCodeLoginRequired = "DASHBOARD_LOGIN_REQUIRED"
)

const (
	FallbackSetup         = "Setup failed"
	FallbackTrainSubmit   = "Failed to submit training data"
	FallbackTrainStart    = "Failed to start training process"
	FallbackCreateOrder   = "Failed to create order."
	FallbackVerifyPayment = "Payment failed to verify."
	FallbackFeedback      = "Failed to submit feedback. Please try again."
)

// ErrInvalidSheetURL is returned when a training document URL is not http(s).
var ErrInvalidSheetURL = goerrors.New("Please enter a valid Google Sheets URL", goerrors.CategoryValidation).
	WithTextCode(TextCodeSheetURL).
	WithCode(goerrors.CodeBadRequest)

// ErrLoginRequired is returned by SubmitFeedback without a signed in identity.
var ErrLoginRequired = goerrors.New("You must be logged in to submit feedback", goerrors.CategoryAuth).
	WithTextCode(TextCodeLoginRequired).
	WithCode(goerrors.CodeUnauthorized)

func validationError(err error, what string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid "+what).
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

// IsValidationError reports whether err is a dashboard payload validation
// failure.
func IsValidationError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == TextCodeValidation || richErr.TextCode == TextCodeSheetURL
}
