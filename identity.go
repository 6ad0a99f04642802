package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Identity is the client side view of the signed in user. It exists only
// while a decodable token is held by the Controller.
type Identity struct {
	UserID          string `json:"user_id,omitempty"`
	Token           string `json:"-"`
	IdentifierClaim string `json:"identifier_claim,omitempty"`
	Claims          Claims `json:"claims,omitempty"`
}

// NewIdentity derives an Identity from a token and its decoded claims. A
// record without identifier is still returned, see HasIdentifier.
func NewIdentity(token string, claims Claims) *Identity {
	lookup := ResolveIdentifier(claims)
	return &Identity{
		UserID:          lookup.Value,
		IdentifierClaim: lookup.Claim,
		Token:           token,
		Claims:          claims,
	}
}

// HasIdentifier is false when none of the identifier claims was present.
// Features keyed on the user id will not work for such a record.
func (i *Identity) HasIdentifier() bool {
	return i != nil && i.UserID != ""
}

func (i *Identity) GetUserID() string {
	if i == nil {
		return ""
	}
	return i.UserID
}

func (i *Identity) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(i.GetUserID())
}

// Subject returns the sub claim.
func (i *Identity) Subject() string {
	if i == nil {
		return ""
	}
	return i.Claims.Subject()
}

// BusinessID is the key business records are stored under: sub, or the user
// id when the token has no subject.
func (i *Identity) BusinessID() string {
	if sub := i.Subject(); sub != "" {
		return sub
	}
	return i.GetUserID()
}

// Claim returns a claim as a string.
func (i *Identity) Claim(name string) (string, bool) {
	if i == nil {
		return "", false
	}
	return i.Claims.String(name)
}

// ExpiresAt returns the exp claim. Nothing in this package enforces it.
func (i *Identity) ExpiresAt() *time.Time {
	if i == nil {
		return nil
	}
	return i.Claims.ExpiresAt()
}

// BearerToken is the Authorization header value for authenticated calls.
func (i *Identity) BearerToken() string {
	if i == nil || i.Token == "" {
		return ""
	}
	return "Bearer " + i.Token
}

func (i Identity) String() string {
	exp := "<nil>"
	if t := i.Claims.ExpiresAt(); t != nil {
		exp = t.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s claim=%s exp=%s claims=%d",
		i.UserID,
		i.IdentifierClaim,
		exp,
		len(i.Claims),
	)
}
