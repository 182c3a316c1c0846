package adminauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAdmin marks tokens minted for admin sessions. Verify rejects any
// other value to defend against confusion with tokens issued elsewhere in
// the surrounding system.
const TokenTypeAdmin = "admin"

// AdminClaims is the decoded payload of an admin session token
type AdminClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	AdminRole string `json:"role,omitempty"`
	TokenType string `json:"type,omitempty"`
}

// AdminID returns the admin account id the token was issued for
func (c *AdminClaims) AdminID() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role claim
func (c *AdminClaims) Role() string {
	return c.AdminRole
}

// IsAdminToken reports whether the type marker identifies an admin session
func (c *AdminClaims) IsAdminToken() bool {
	return c.TokenType == TokenTypeAdmin
}

// IsSuperAdmin reports whether the role claim is superadmin
func (c *AdminClaims) IsSuperAdmin() bool {
	return c.AdminRole == RoleSuperAdmin
}

// Expires returns the expiration time
func (c *AdminClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *AdminClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
