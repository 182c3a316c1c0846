package adminauth

import "time"

const (
	// DefaultTokenExpiration is the token TTL in hours (7 days).
	DefaultTokenExpiration = 168
	// DefaultMaxLoginAttempts is the failure count that triggers a lock.
	DefaultMaxLoginAttempts = 5
	// DefaultLockDuration is how long an account stays locked.
	DefaultLockDuration = 2 * time.Hour
)

// SimpleConfig is a literal Config implementation. Zero values fall back to
// the package defaults, the signing key excepted: an empty key is a
// deployment error the token service reports on first use.
type SimpleConfig struct {
	SigningKey       string
	TokenExpiration  int
	Issuer           string
	Audience         []string
	MaxLoginAttempts int
	LockDuration     time.Duration
	BcryptCost       int
}

var _ Config = SimpleConfig{}

func (c SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c SimpleConfig) GetAudience() []string {
	return c.Audience
}

func (c SimpleConfig) GetMaxLoginAttempts() int {
	if c.MaxLoginAttempts <= 0 {
		return DefaultMaxLoginAttempts
	}
	return c.MaxLoginAttempts
}

func (c SimpleConfig) GetLockDuration() time.Duration {
	if c.LockDuration <= 0 {
		return DefaultLockDuration
	}
	return c.LockDuration
}

func (c SimpleConfig) GetBcryptCost() int {
	return c.BcryptCost
}
