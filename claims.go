package session

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Claims holds the decoded token payload.
type Claims map[string]any

const (
	ClaimUserID         = "userId"
	ClaimSubject        = "sub"
	ClaimNameIdentifier = "nameid"
	ClaimExpiresAt      = "exp"
	ClaimIssuedAt       = "iat"
)

// IdentifierClaims lists the claims probed for the user identifier, highest
// priority first.
var IdentifierClaims = []string{ClaimUserID, ClaimSubject, ClaimNameIdentifier}

// IdentifierLookup is the outcome of probing IdentifierClaims. Found is false
// when none of them carried a usable value.
type IdentifierLookup struct {
	Value string
	Claim string
	Found bool
}

// ResolveIdentifier returns the first identifier claim with a usable value.
func ResolveIdentifier(c Claims) IdentifierLookup {
	for _, name := range IdentifierClaims {
		if v, ok := c.String(name); ok {
			return IdentifierLookup{Value: v, Claim: name, Found: true}
		}
	}
	return IdentifierLookup{}
}

// String returns the claim as a non empty string. Numbers are formatted
// without exponent, anything else is treated as absent.
func (c Claims) String(name string) (string, bool) {
	raw, ok := c[name]
	if !ok || raw == nil {
		return "", false
	}

	switch v := raw.(type) {
	case string:
		return v, v != ""
	case float64:
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), v.String() != "" && v.String() != "0"
	case int:
		return strconv.Itoa(v), v != 0
	case int64:
		return strconv.FormatInt(v, 10), v != 0
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	default:
		return "", false
	}
}

// Subject returns the standard subject claim.
func (c Claims) Subject() string {
	v, _ := c.String(ClaimSubject)
	return v
}

// ExpiresAt returns the exp claim, nil when absent. It is informational only.
func (c Claims) ExpiresAt() *time.Time {
	return c.numericDate(ClaimExpiresAt)
}

// IssuedAt returns the iat claim, nil when absent.
func (c Claims) IssuedAt() *time.Time {
	return c.numericDate(ClaimIssuedAt)
}

func (c Claims) numericDate(name string) *time.Time {
	var secs float64
	switch v := c[name].(type) {
	case float64:
		secs = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		secs = f
	case int64:
		secs = float64(v)
	case int:
		secs = float64(v)
	default:
		return nil
	}
	whole, frac := math.Modf(secs)
	t := time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return &t
}

// Clone returns a shallow copy.
func (c Claims) Clone() Claims {
	out := make(Claims, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
