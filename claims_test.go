package session_test

import (
	"testing"
	"time"

	"github.com/bizzai/go-session"
	"github.com/stretchr/testify/assert"
)

func TestResolveIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		claims    session.Claims
		wantValue string
		wantClaim string
		wantFound bool
	}{
		{
			name:      "userId wins over sub and nameid",
			claims:    session.Claims{"userId": "u-1", "sub": "s-1", "nameid": "n-1"},
			wantValue: "u-1",
			wantClaim: session.ClaimUserID,
			wantFound: true,
		},
		{
			name:      "sub when userId missing",
			claims:    session.Claims{"sub": "s-1", "nameid": "n-1"},
			wantValue: "s-1",
			wantClaim: session.ClaimSubject,
			wantFound: true,
		},
		{
			name:      "nameid only",
			claims:    session.Claims{"nameid": "n-1"},
			wantValue: "n-1",
			wantClaim: session.ClaimNameIdentifier,
			wantFound: true,
		},
		{
			name:      "empty userId falls through",
			claims:    session.Claims{"userId": "", "sub": "s-1"},
			wantValue: "s-1",
			wantClaim: session.ClaimSubject,
			wantFound: true,
		},
		{
			name:      "numeric identifier formatted without exponent",
			claims:    session.Claims{"userId": float64(12345678901)},
			wantValue: "12345678901",
			wantClaim: session.ClaimUserID,
			wantFound: true,
		},
		{
			name:      "zero and false are absent",
			claims:    session.Claims{"userId": float64(0), "sub": false, "nameid": nil},
			wantFound: false,
		},
		{
			name:      "objects are absent",
			claims:    session.Claims{"userId": map[string]any{"id": "x"}},
			wantFound: false,
		},
		{
			name:      "nothing",
			claims:    session.Claims{"email": "a@b.com"},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := session.ResolveIdentifier(tt.claims)
			assert.Equal(t, tt.wantFound, got.Found)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantClaim, got.Claim)
		})
	}
}

func TestClaimsDates(t *testing.T) {
	claims := session.Claims{"exp": float64(1700000000), "iat": float64(1699990000.5)}

	exp := claims.ExpiresAt()
	if assert.NotNil(t, exp) {
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), *exp)
	}

	iat := claims.IssuedAt()
	if assert.NotNil(t, iat) {
		assert.Equal(t, int64(1699990000), iat.Unix())
		assert.Equal(t, 500*time.Millisecond, time.Duration(iat.Nanosecond()))
	}

	assert.Nil(t, session.Claims{}.ExpiresAt())
	assert.Nil(t, session.Claims{"exp": "tomorrow"}.ExpiresAt())
}

func TestClaimsClone(t *testing.T) {
	orig := session.Claims{"sub": "s"}
	cp := orig.Clone()
	cp["sub"] = "changed"
	assert.Equal(t, "s", orig.Subject())
	assert.Equal(t, "changed", cp.Subject())
}
