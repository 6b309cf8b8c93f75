package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session represents the authenticated identity and bearer credential for
// the current user. Invariant: Authenticated is true iff Token is non-empty.
type Session struct {
	Token         string `json:"token"`
	User          *User  `json:"user,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// IsAuthenticated reports whether the session holds a usable credential.
// The bearer token is inspected but not verified, since the signing key
// belongs to the server; an expired token gates access the same way a
// missing one does.
func (s *Session) IsAuthenticated(reference time.Time) bool {
	if s == nil || !s.Authenticated || s.Token == "" {
		return false
	}
	if reference.IsZero() {
		reference = time.Now()
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		// Opaque non-JWT tokens stay usable; the server is the judge.
		return true
	}
	// A token without an exp claim also passes.
	return claims.VerifyExpiresAt(reference.Unix(), false)
}
