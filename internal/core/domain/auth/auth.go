package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot identify a member.
var ErrInvalidToken = errors.New("invalid member token")

// RoleOperator marks tokens allowed to invalidate or force-refresh the catalog cache.
const RoleOperator = "operator"

// MemberClaims identifies a storefront member. The subject is the member id.
type MemberClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// MemberID returns the subject claim.
func (c *MemberClaims) MemberID() string { return c.Subject }

// IsOperator reports whether the token carries the operator role.
func (c *MemberClaims) IsOperator() bool { return c.Role == RoleOperator }
