package domain

// TokenClaims is the signed payload of a session token. Times are Unix seconds.
type TokenClaims struct {
	SubjectID string
	IssuedAt  int64
	ExpiresAt int64
}

// ExpiredAt reports whether the claims are past expiry at the given Unix second.
func (c TokenClaims) ExpiredAt(now int64) bool {
	return c.ExpiresAt < now
}
