package dashboard

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

const FeedbackPath = "/api/feedback/submit"

var FeedbackCategories = []any{"general", "bug", "feature", "improvement"}

// Feedback is a user rating with an optional comment.
type Feedback struct {
	Category string
	Rating   int
	Text     string
}

// Validate will validate the payload
func (f Feedback) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Category, validation.Required, validation.In(FeedbackCategories...)),
		validation.Field(&f.Rating, validation.Min(0), validation.Max(5)),
	)
}

type feedbackPayload struct {
	ID           string `json:"Id"`
	UserID       string `json:"UserId"`
	Category     string `json:"Category"`
	Rating       int    `json:"Rating"`
	FeedbackText string `json:"FeedbackText"`
}

// SubmitFeedback sends feedback as the current user with a fresh id. It
// returns the id on success.
func (c *Client) SubmitFeedback(ctx context.Context, f Feedback) (string, error) {
	identity, ok := c.currentIdentity()
	if !ok {
		return "", ErrLoginRequired
	}

	if f.Category == "" {
		f.Category = "general"
	}
	if err := f.Validate(); err != nil {
		return "", validationError(err, "feedback")
	}

	payload := feedbackPayload{
		ID:           uuid.NewString(),
		UserID:       identity.GetUserID(),
		Category:     f.Category,
		Rating:       f.Rating,
		FeedbackText: f.Text,
	}

	_, err := c.post(ctx, c.api, call{
		op:       "feedback",
		path:     FeedbackPath,
		body:     payload,
		bearer:   identity.BearerToken(),
		fallback: FallbackFeedback,
		useBody:  true,
		statusFallback: func(status int) string {
			return fmt.Sprintf("HTTP error! Status: %d", status)
		},
	})
	if err != nil {
		return "", err
	}
	return payload.ID, nil
}
