package dashboard

import (
	"context"

	"github.com/bizzai/go-session"
	"github.com/bizzai/go-session/identityapi"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const SetupPath = "/api/whatsapp/setup"

const (
	DefaultWelcomeMessage  = "Hi there! 👋 How can I help you today?"
	DefaultFallbackMessage = "I'm sorry, I didn't understand. Could you please rephrase?"
	DefaultTone            = "friendly"
	DefaultLanguage        = "en"
)

var (
	Tones     = []any{"friendly", "professional"}
	Languages = []any{"en", "hi", "pa"}
)

// BusinessSetup configures the WhatsApp assistant of a business.
type BusinessSetup struct {
	BusinessName    string `json:"businessName"`
	PhoneNumber     string `json:"phoneNumber"`
	APIKey          string `json:"apiKey"`
	Email           string `json:"email"`
	WebsiteURL      string `json:"websiteUrl"`
	Timezone        string `json:"timezone"`
	ChatbotName     string `json:"chatbotName"`
	WelcomeMessage  string `json:"welcomeMessage"`
	FallbackMessage string `json:"fallbackMessage"`
	ChatbotTone     string `json:"chatbotTone"`
	Language        string `json:"language"`
}

// WithDefaults fills the preset messages, tone and language.
func (b BusinessSetup) WithDefaults() BusinessSetup {
	if b.WelcomeMessage == "" {
		b.WelcomeMessage = DefaultWelcomeMessage
	}
	if b.FallbackMessage == "" {
		b.FallbackMessage = DefaultFallbackMessage
	}
	if b.ChatbotTone == "" {
		b.ChatbotTone = DefaultTone
	}
	if b.Language == "" {
		b.Language = DefaultLanguage
	}
	return b
}

// Validate will validate the payload
func (b BusinessSetup) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.BusinessName, validation.Required),
		validation.Field(&b.PhoneNumber, validation.Required, validation.By(session.ValidatePhone(session.DefaultPhoneRegion))),
		validation.Field(&b.APIKey, validation.Required),
		validation.Field(&b.Email, validation.Required, is.Email),
		validation.Field(&b.WebsiteURL, is.URL),
		validation.Field(&b.Timezone, validation.Required),
		validation.Field(&b.ChatbotName, validation.Required),
		validation.Field(&b.ChatbotTone, validation.In(Tones...)),
		validation.Field(&b.Language, validation.In(Languages...)),
	)
}

// SetupResult is the service acknowledgement.
type SetupResult struct {
	Message string
	Raw     []byte
}

// SetupBusiness submits the assistant configuration. The service message or
// "Setup failed" is returned on rejection.
func (c *Client) SetupBusiness(ctx context.Context, payload BusinessSetup) (*SetupResult, error) {
	payload = payload.WithDefaults()
	if err := payload.Validate(); err != nil {
		return nil, validationError(err, "business setup")
	}

	var bearer string
	if identity, ok := c.currentIdentity(); ok {
		bearer = identity.BearerToken()
	}

	resp, err := c.post(ctx, c.api, call{
		op:       "setup",
		path:     SetupPath,
		body:     payload,
		bearer:   bearer,
		fallback: FallbackSetup,
		useBody:  true,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("business configured", "business", payload.BusinessName)
	return &SetupResult{
		Message: identityapi.MessageOr(resp.Body(), "Business successfully configured!"),
		Raw:     resp.Body(),
	}, nil
}
