package session

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse phone numbers written without a
// country prefix. The dashboard serves Indian businesses.
var DefaultPhoneRegion = "IN"

// Credentials is the sign in payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	)
}

// Registration is the sign up payload.
type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
	Website      string `json:"website,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Industry     string `json:"industry"`
}

// WithDefaults fills the business type and industry the sign up form
// preselects.
func (r Registration) WithDefaults() Registration {
	if r.BusinessType == "" {
		r.BusinessType = "small"
	}
	if r.Industry == "" {
		r.Industry = "retail"
	}
	return r
}

// Validate will validate the payload
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.BusinessName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Phone, validation.By(ValidatePhone(DefaultPhoneRegion))),
	)
}

// ValidatePhone accepts empty values and otherwise requires a number
// phonenumbers considers valid for region.
func ValidatePhone(region string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		num, err := phonenumbers.Parse(s, region)
		if err != nil {
			return errors.New("must be a valid phone number")
		}
		if !phonenumbers.IsValidNumber(num) {
			return errors.New("must be a valid phone number")
		}
		return nil
	}
}
