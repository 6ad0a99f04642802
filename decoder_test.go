package session_test

import (
	"encoding/base64"
	"testing"

	"github.com/bizzai/go-session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenDecoderDecode(t *testing.T) {
	decoder := session.NewTokenDecoder()

	token := mintToken(t, jwt.MapClaims{
		"userId": "u-42",
		"sub":    "biz-7",
		"email":  "a@b.com",
		"exp":    1700000000,
	})

	claims, err := decoder.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims["userId"])
	assert.Equal(t, "biz-7", claims.Subject())
	assert.Equal(t, float64(1700000000), claims["exp"])
}

func TestTokenDecoderIgnoresSignatureAndExpiry(t *testing.T) {
	decoder := session.NewTokenDecoder()

	token := mintToken(t, jwt.MapClaims{"sub": "s", "exp": 1})
	tampered := token[:len(token)-4] + "AAAA"

	claims, err := decoder.Decode(tampered)
	require.NoError(t, err)
	assert.Equal(t, "s", claims.Subject())
}

func TestTokenDecoderAcceptsUnsignedShape(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"nameid":"n-1"}`))
	claims, err := session.NewTokenDecoder().Decode("x." + payload + ".")
	require.NoError(t, err)
	assert.Equal(t, "n-1", session.ResolveIdentifier(claims).Value)
}

func TestTokenDecoderFailures(t *testing.T) {
	enc := base64.RawURLEncoding.EncodeToString

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "whitespace", token: "   "},
		{name: "not a token", token: "not-a-token"},
		{name: "two segments", token: "a.b"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "empty payload", token: "a..c"},
		{name: "payload not base64", token: "a.!!!.c"},
		{name: "payload not json", token: "a." + enc([]byte("hello")) + ".c"},
		{name: "payload is array", token: "a." + enc([]byte(`["x"]`)) + ".c"},
		{name: "payload truncated", token: "a." + enc([]byte(`{"sub":`)) + ".c"},
		{name: "claims without signature segment", token: "a." + enc([]byte(`{"sub":"u-1"}`))},
		{name: "claims with extra segment", token: "a." + enc([]byte(`{"sub":"u-1"}`)) + ".c.d"},
		{name: "payload is string", token: "a." + enc([]byte(`"u-1"`)) + ".c"},
	}

	decoder := session.NewTokenDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := decoder.Decode(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, session.IsDecodeError(err))
		})
	}
}
