package dashboard

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bizzai/go-session"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

const (
	TrainSubmitPath = "/api/BusinessTraining/submit"
	TrainStartPath  = "/api/BusinessTraining/train"
)

var sheetURLPattern = regexp.MustCompile(`^https?://`)

// BusinessCategories are the categories the trainer has templates for.
var BusinessCategories = []any{"cafe", "clinic", "retail", "education"}

const starterSheetURL = "https://docs.google.com/spreadsheets/d/1yA9C31QT1dd0LU_3IX_R9TQdy5UJ1LIoIAM1XQ3GBjU/edit?usp=sharing"

// TemplateSheets are the published starter sheets per category.
var TemplateSheets = map[string]string{
	"cafe":   starterSheetURL,
	"retail": starterSheetURL,
}

// TrainingRequest points the assistant at a business knowledge sheet.
type TrainingRequest struct {
	BusinessCategory string
	DocURL           string
}

// Validate will validate the payload
func (r TrainingRequest) Validate() error {
	if !sheetURLPattern.MatchString(strings.TrimSpace(r.DocURL)) {
		return ErrInvalidSheetURL
	}
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.BusinessCategory, validation.Required, validation.In(BusinessCategories...)),
	); err != nil {
		return validationError(err, "training request")
	}
	return nil
}

// TrainingRecord is a submitted training run.
type TrainingRecord struct {
	ID               string    `json:"id"`
	BusinessID       string    `json:"businessId"`
	BusinessCategory string    `json:"businessCategory"`
	GoogleDocURLs    []string  `json:"googleDocUrls"`
	CreatedAt        time.Time `json:"createdAt"`
}

type trainingPayload struct {
	BusinessID       string   `json:"BusinessId"`
	BusinessCategory string   `json:"BusinessCategory"`
	GoogleDocURLs    []string `json:"GoogleDocUrls"`
}

// SubmitTraining stores the training data, then asks the trainer to start.
// Both steps must succeed.
func (c *Client) SubmitTraining(ctx context.Context, req TrainingRequest) (*TrainingRecord, error) {
	req.DocURL = strings.TrimSpace(req.DocURL)
	if req.DocURL == "" {
		req.DocURL = TemplateSheets[req.BusinessCategory]
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity, ok := c.currentIdentity()
	if !ok {
		return nil, session.ErrNotAuthenticated
	}

	payload := trainingPayload{
		BusinessID:       identity.BusinessID(),
		BusinessCategory: req.BusinessCategory,
		GoogleDocURLs:    []string{req.DocURL},
	}

	if _, err := c.post(ctx, c.api, call{
		op:       "training.submit",
		path:     TrainSubmitPath,
		body:     payload,
		fallback: FallbackTrainSubmit,
	}); err != nil {
		return nil, err
	}

	if _, err := c.post(ctx, c.trainer, call{
		op:       "training.start",
		path:     TrainStartPath,
		body:     payload,
		fallback: FallbackTrainStart,
	}); err != nil {
		return nil, err
	}

	record := &TrainingRecord{
		ID:               uuid.NewString(),
		BusinessID:       payload.BusinessID,
		BusinessCategory: payload.BusinessCategory,
		GoogleDocURLs:    payload.GoogleDocURLs,
		CreatedAt:        c.now().UTC(),
	}
	c.logger.Info("training started", "business", record.BusinessID, "category", record.BusinessCategory)
	return record, nil
}
