package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snailsoup/auth-service/internal/core/domain"
)

// claims is the JSON body of a session token.
type claims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (c claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c claims) GetIssuer() (string, error)              { return "", nil }
func (c claims) GetSubject() (string, error)             { return c.Subject, nil }
func (c claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// JWTCodec signs tokens with HS256 under a single process-wide secret.
//
// Decode verifies structure and signature only. Expiry is left to the
// caller, which owns the notion of "now".
type JWTCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTCodec copies secret; later changes to the caller's slice have no effect.
func NewJWTCodec(secret []byte) *JWTCodec {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &JWTCodec{
		secret: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (c *JWTCodec) Encode(tc domain.TokenClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Subject:   tc.SubjectID,
		IssuedAt:  tc.IssuedAt,
		ExpiresAt: tc.ExpiresAt,
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode returns domain.ErrInvalidSignature when the signature does not match
// and domain.ErrMalformedToken for anything structurally wrong.
func (c *JWTCodec) Decode(token string) (domain.TokenClaims, error) {
	var parsed claims
	_, err := c.parser.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
		}
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	return domain.TokenClaims{
		SubjectID: parsed.Subject,
		IssuedAt:  parsed.IssuedAt,
		ExpiresAt: parsed.ExpiresAt,
	}, nil
}
