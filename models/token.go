package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role values carried in the "role" claim of configd access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenClaims is the claim set of a configd access token.
//
// It embeds [jwt.RegisteredClaims] for the standard set (sub, exp, iat, iss)
// and adds the application role used by the admin route guard. The "sub"
// claim carries the user identifier that scopes per-user override reads.
type TokenClaims struct {
	jwt.RegisteredClaims

	// Role is the application role of the token holder. Admin write
	// endpoints require RoleAdmin; everything else accepts RoleUser.
	Role string `json:"role"`
}

// Token wraps a parsed or freshly signed JWT together with the fields the
// handlers actually consume, so downstream code never re-parses claims.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization; only the compact string form is
	// meaningful outside the server process.
	*jwt.Token `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the subject extracted from the "sub" claim.
	UserID string `json:"-"`

	// Role is the application role extracted from the "role" claim.
	Role string `json:"-"`
}

// IsAdmin reports whether the token grants admin privileges.
func (t *Token) IsAdmin() bool {
	return t.Role == RoleAdmin
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
