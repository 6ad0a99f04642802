package session

import (
	"bytes"
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errEmptyToken      = errors.New("token is empty")
	errTokenSegments   = errors.New("token is malformed: token contains an invalid number of segments")
	errPayloadNotClaim = errors.New("token is malformed: payload is not a JSON object")
)

var _ Decoder = (*TokenDecoder)(nil)

// TokenDecoder reads the payload segment of a JWT shaped token. It does not
// verify the signature and it does not look at exp: tokens are trusted as
// received from the identity service.
type TokenDecoder struct {
	parser *jwt.Parser
}

// NewTokenDecoder returns a decoder that accepts padded and unpadded
// base64url payloads.
func NewTokenDecoder() *TokenDecoder {
	return &TokenDecoder{
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
	}
}

// Decode returns the claims embedded in token. Any structural problem yields
// a decode error and nil claims.
func (d *TokenDecoder) Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, decodeError(errEmptyToken)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, decodeError(errTokenSegments)
	}

	payload, err := d.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, decodeError(err)
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return nil, decodeError(errPayloadNotClaim)
	}

	claims := Claims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, decodeError(err)
	}

	return claims, nil
}
