package dashboard

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	settingsEmailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	settingsWebsitePattern = regexp.MustCompile(`^https?://.+`)
	instagramPattern       = regexp.MustCompile(`^@`)
)

// GeneralSettings is the profile section of the settings view.
type GeneralSettings struct {
	BotName         string `json:"botName"`
	BusinessName    string `json:"businessName"`
	Email           string `json:"email"`
	Timezone        string `json:"timezone"`
	Language        string `json:"language"`
	InstagramHandle string `json:"instagramHandle"`
	WebsiteURL      string `json:"websiteUrl"`
}

// DefaultGeneralSettings mirrors the values a new business starts with.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		BotName:         "InstaSupportAI",
		BusinessName:    "My Business",
		Email:           "contact@business.com",
		Timezone:        "UTC-5",
		Language:        "en",
		InstagramHandle: "@mybusiness",
		WebsiteURL:      "https://example.com",
	}
}

// Validate returns validation.Errors keyed by JSON field name.
func (s GeneralSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BotName, validation.Required.Error("Bot name is required")),
		validation.Field(&s.BusinessName, validation.Required.Error("Business name is required")),
		validation.Field(&s.Email,
			validation.Required.Error("Email is required"),
			validation.Match(settingsEmailPattern).Error("Invalid email format"),
		),
		validation.Field(&s.InstagramHandle,
			validation.Required.Error("Instagram handle is required"),
			validation.Match(instagramPattern).Error("Instagram handle must start with @"),
		),
		validation.Field(&s.WebsiteURL,
			validation.Match(settingsWebsitePattern).Error("Website URL must start with http:// or https://"),
		),
	)
}

// ChatSettings is the conversation section of the settings view. Delays are
// in seconds.
type ChatSettings struct {
	WelcomeMessage         string  `json:"welcomeMessage"`
	ResponseDelay          float64 `json:"responseDelay"`
	MaxResponseTime        float64 `json:"maxResponseTime"`
	ActiveHours            string  `json:"activeHours"`
	Theme                  string  `json:"theme"`
	AIPersonality          string  `json:"aiPersonality"`
	DefaultLanguage        string  `json:"defaultLanguage"`
	FallbackMessage        string  `json:"fallbackMessage"`
	EndConversationMessage string  `json:"endConversationMessage"`
}

// DefaultChatSettings mirrors the values a new business starts with.
func DefaultChatSettings() ChatSettings {
	return ChatSettings{
		WelcomeMessage:         "Hi there! 👋 I am your AI assistant. How can I help you today?",
		ResponseDelay:          1,
		MaxResponseTime:        5,
		ActiveHours:            "24/7",
		Theme:                  "light",
		AIPersonality:          "friendly",
		DefaultLanguage:        "en",
		FallbackMessage:        "I'm not quite sure about that. Could you please rephrase or contact our human support team?",
		EndConversationMessage: "Thanks for chatting! Don't forget to follow us for updates! 🌟",
	}
}

// Validate returns validation.Errors keyed by JSON field name.
func (s ChatSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.WelcomeMessage, validation.Required.Error("Welcome message is required")),
		validation.Field(&s.FallbackMessage, validation.Required.Error("Fallback message is required")),
		validation.Field(&s.ResponseDelay, validation.By(func(any) error {
			if s.ResponseDelay < 0.5 {
				return errors.New("Minimum response delay is 0.5 seconds")
			}
			return nil
		})),
		validation.Field(&s.MaxResponseTime, validation.By(func(any) error {
			if s.MaxResponseTime < s.ResponseDelay {
				return errors.New("Max response time must be greater than response delay")
			}
			return nil
		})),
	)
}

// FieldErrors flattens a settings validation error into field -> message.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		if err != nil {
			out[""] = err.Error()
		}
		return out
	}
	for field, ferr := range verrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}
	return out
}
