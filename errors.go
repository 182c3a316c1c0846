package adminauth

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidSecureKey     = "INVALID_SECURE_KEY"
	TextCodeExpiredSecureKey     = "EXPIRED_SECURE_KEY"
	TextCodeKeyAlreadyConsumed   = "KEY_ALREADY_CONSUMED"
	TextCodeUsernameTaken        = "USERNAME_TAKEN"
	TextCodeEmailTaken           = "EMAIL_TAKEN"
	TextCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	TextCodeAccountLocked        = "ACCOUNT_LOCKED"
	TextCodeAccountDeactivated   = "ACCOUNT_DEACTIVATED"
	TextCodeInvalidToken         = "INVALID_TOKEN"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeAuthRequired         = "AUTH_REQUIRED"
	TextCodeNotAdmin             = "NOT_ADMIN"
	TextCodeInsufficientRole     = "INSUFFICIENT_ROLE"
	TextCodeSelfDeletionForbidden = "SELF_DELETION_FORBIDDEN"
)

// ErrInvalidSecureKey is returned when no unused key matches the given code.
// The message deliberately does not distinguish unknown from spent codes.
var ErrInvalidSecureKey = errors.New("Invalid or already used secure key", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidSecureKey).
	WithCode(errors.CodeBadRequest)

// ErrExpiredSecureKey is returned when a key is found but past its expiry.
var ErrExpiredSecureKey = errors.New("Secure key has expired", errors.CategoryValidation).
	WithTextCode(TextCodeExpiredSecureKey).
	WithCode(errors.CodeBadRequest)

// ErrKeyAlreadyConsumed is returned when the conditional consume loses the
// race: another registration spent the key between reserve and consume.
var ErrKeyAlreadyConsumed = errors.New("Secure key has already been used", errors.CategoryConflict).
	WithTextCode(TextCodeKeyAlreadyConsumed).
	WithCode(errors.CodeConflict)

// ErrUsernameTaken is returned when the requested username already exists.
var ErrUsernameTaken = errors.New("Username already taken", errors.CategoryValidation).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrEmailTaken is returned when the requested email already exists.
var ErrEmailTaken = errors.New("Email already registered", errors.CategoryValidation).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials masks both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("Invalid username or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountLocked is the base error for lockout rejections; use
// accountLockedError to attach the remaining minutes.
var ErrAccountLocked = errors.New("Account locked due to too many failed attempts.", errors.CategoryAuth).
	WithTextCode(TextCodeAccountLocked).
	WithCode(errors.CodeForbidden)

// ErrAccountDeactivated is returned for accounts with is_active false,
// regardless of lock state or credential correctness.
var ErrAccountDeactivated = errors.New("Account has been deactivated. Contact super admin.", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDeactivated).
	WithCode(errors.CodeForbidden)

// ErrInvalidToken covers bad signatures, malformed tokens, and tokens whose
// type claim is not an admin token.
var ErrInvalidToken = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for structurally valid tokens past their expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrAuthRequired is raised when a privileged call carries no claims at all.
var ErrAuthRequired = errors.New("authentication required, please login as admin", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrNotAdmin is raised when claims are present but not an admin token.
var ErrNotAdmin = errors.New("admin privileges required", errors.CategoryAuth).
	WithTextCode(TextCodeNotAdmin).
	WithCode(errors.CodeForbidden)

// ErrInsufficientRole is raised when an operation needs the superadmin role.
var ErrInsufficientRole = errors.New("super admin privileges required", errors.CategoryAuth).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(errors.CodeForbidden)

// ErrSelfDeletionForbidden is raised when an admin tries to delete itself.
var ErrSelfDeletionForbidden = errors.New("cannot delete your own account", errors.CategoryValidation).
	WithTextCode(TextCodeSelfDeletionForbidden).
	WithCode(errors.CodeBadRequest)

// ErrEmptyPassword is returned when hashing is attempted on an empty string.
var ErrEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// accountLockedError clones ErrAccountLocked with the remaining lock time,
// mirroring the user-facing message of the login flow.
func accountLockedError(minutes int) error {
	clone := ErrAccountLocked.Clone()
	if clone == nil {
		return ErrAccountLocked
	}
	clone.Message = fmt.Sprintf(
		"Account locked due to too many failed attempts. Try again in %d minutes.",
		minutes,
	)
	clone.Source = ErrAccountLocked
	return clone.WithMetadata(map[string]any{"minutes": minutes})
}

// businessTextCodes are the expected outcomes that surface as structured
// payloads rather than propagating as errors.
var businessTextCodes = map[string]struct{}{
	TextCodeInvalidSecureKey:   {},
	TextCodeExpiredSecureKey:   {},
	TextCodeKeyAlreadyConsumed: {},
	TextCodeUsernameTaken:      {},
	TextCodeEmailTaken:         {},
	TextCodeInvalidCredentials: {},
	TextCodeAccountLocked:      {},
	TextCodeAccountDeactivated: {},
}

// IsBusinessOutcome reports whether err represents an expected business
// outcome (bad key, taken username, wrong password) rather than an
// infrastructure or authorization failure.
func IsBusinessOutcome(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	_, ok := businessTextCodes[richErr.TextCode]
	return ok
}
