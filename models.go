package adminauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AdminRole is the admin's role
type AdminRole = string

const (
	// RoleAdmin is the regular admin role (content CRUD)
	RoleAdmin AdminRole = "admin"
	// RoleSuperAdmin can additionally manage other admin accounts
	RoleSuperAdmin AdminRole = "superadmin"
)

// KeyStatus is the lifecycle state of a secure key
type KeyStatus = string

const (
	// KeyStatusUnused means the key can still authorize a registration
	KeyStatusUnused KeyStatus = "unused"
	// KeyStatusUsed means the key was consumed; the transition is irreversible
	KeyStatusUsed KeyStatus = "used"
)

// DefaultKeyDescription matches the description new keys are minted with.
const DefaultKeyDescription = "Admin registration key"

// Admin is the admin account model
type Admin struct {
	bun.BaseModel       `bun:"table:admins,alias:adm"`
	ID                  uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username            string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email               string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash        string     `bun:"password_hash,notnull" json:"-"`
	Role                AdminRole  `bun:"admin_role,notnull" json:"admin_role,omitempty"`
	IsActive            bool       `bun:"is_active,notnull" json:"is_active"`
	FailedLoginAttempts int        `bun:"failed_login_attempts,notnull" json:"failed_login_attempts"`
	LockedUntil         *time.Time `bun:"locked_until,nullzero" json:"locked_until,omitempty"`
	LastLoginAt         *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	UsedSecureKeyCode   string     `bun:"used_secure_key_code" json:"used_secure_key_code,omitempty"`
	CreatedAt           *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt           *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// SecureKey is a one-time registration code. consumed_by and consumed_at are
// set if and only if status is used.
type SecureKey struct {
	bun.BaseModel `bun:"table:secure_keys,alias:sk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Code          string     `bun:"code,notnull,unique" json:"code,omitempty"`
	Status        KeyStatus  `bun:"status,notnull" json:"status,omitempty"`
	ConsumedBy    *uuid.UUID `bun:"consumed_by,nullzero,type:uuid" json:"consumed_by,omitempty"`
	Consumer      *Admin     `bun:"rel:belongs-to,join:consumed_by=id" json:"consumer,omitempty"`
	ConsumedAt    *time.Time `bun:"consumed_at,nullzero" json:"consumed_at,omitempty"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Consumed reports whether the key has been spent.
func (k *SecureKey) Consumed() bool {
	return k != nil && k.Status == KeyStatusUsed
}

// Expired reports whether the key has an expiry in the past relative to now.
func (k *SecureKey) Expired(now time.Time) bool {
	return k != nil && k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}
