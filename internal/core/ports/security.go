package ports

import "github.com/snailsoup/auth-service/internal/core/domain"

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	// Hash returns a self-describing hash string for plaintext.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches encoded. A mismatch is
	// (false, nil); an unparsable hash is domain.ErrCorruptHash.
	Verify(plaintext, encoded string) (bool, error)
}

// TokenCodec signs and verifies session tokens. Decode does not check expiry.
type TokenCodec interface {
	Encode(claims domain.TokenClaims) (string, error)
	Decode(token string) (domain.TokenClaims, error)
}
