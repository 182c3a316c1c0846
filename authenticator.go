package adminauth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// AuthPayload is the result envelope for register and login. Expected
// business outcomes (bad key, wrong password, taken username) come back
// with Success false and a user-facing message; only infrastructure
// failures surface as errors.
type AuthPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Token   string `json:"token,omitempty"`
	Admin   *Admin `json:"admin,omitempty"`
}

// ActionResult is the envelope for operations without a token.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AdminAuth orchestrates registration, login, token verification, and the
// admin management surface over the injected repositories.
type AdminAuth struct {
	repo      RepositoryManager
	tokens    TokenService
	hasher    PasswordHasher
	lockout   LockoutPolicy
	registrar *RegisterAdminHandler
	logger    Logger
	now       func() time.Time
}

// NewAdminAuth returns a new AdminAuth wired from config.
func NewAdminAuth(repo RepositoryManager, opts Config) *AdminAuth {
	hasher := NewPasswordHasher(opts.GetBcryptCost())

	return &AdminAuth{
		repo: repo,
		tokens: NewTokenService(
			[]byte(opts.GetSigningKey()),
			opts.GetTokenExpiration(),
			opts.GetIssuer(),
			opts.GetAudience(),
			defLogger{},
		),
		hasher:    hasher,
		lockout:   NewLockoutPolicy(opts.GetMaxLoginAttempts(), opts.GetLockDuration()),
		registrar: NewRegisterAdminHandler(repo, hasher),
		logger:    defLogger{},
		now:       time.Now,
	}
}

func (a *AdminAuth) WithLogger(logger Logger) *AdminAuth {
	if logger != nil {
		a.logger = logger
		a.registrar = a.registrar.WithLogger(logger)
	}
	return a
}

// WithTokenService overrides the token service, e.g. to inject a clock.
func (a *AdminAuth) WithTokenService(tokens TokenService) *AdminAuth {
	if tokens != nil {
		a.tokens = tokens
	}
	return a
}

// WithClock injects a custom clock into the orchestrator and the lockout
// policy (useful for tests).
func (a *AdminAuth) WithClock(clock func() time.Time) *AdminAuth {
	if clock != nil {
		a.now = clock
		a.lockout.now = clock
	}
	return a
}

// TokenService returns the TokenService instance used by this AdminAuth
func (a *AdminAuth) TokenService() TokenService {
	return a.tokens
}

// Register runs the secure-key gated registration flow and issues a token
// for the new account.
func (a *AdminAuth) Register(ctx context.Context, msg RegisterAdminMessage) (*AuthPayload, error) {
	if err := msg.Validate(); err != nil {
		return &AuthPayload{
			Success: false,
			Message: err.Error(),
		}, nil
	}

	admin, err := a.registrar.Execute(ctx, msg)
	if err != nil {
		if payload, ok := a.payloadFromError(err); ok {
			return payload, nil
		}
		return nil, err
	}

	token, err := a.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}

	return &AuthPayload{
		Success: true,
		Message: "Admin account created successfully",
		Token:   token,
		Admin:   admin,
	}, nil
}

// Login authenticates a username/password pair. The failure message never
// reveals whether the username exists; deactivation is a hard stop checked
// before anything else; a locked account is rejected without touching the
// password at all.
func (a *AdminAuth) Login(ctx context.Context, username, password string) (*AuthPayload, error) {
	admin, err := a.repo.Admins().GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			payload, _ := a.payloadFromError(ErrInvalidCredentials)
			return payload, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve admin during login")
	}

	if !admin.IsActive {
		payload, _ := a.payloadFromError(ErrAccountDeactivated)
		return payload, nil
	}

	if a.lockout.IsLocked(admin) {
		minutes := a.lockout.RemainingLockMinutes(admin)
		payload, _ := a.payloadFromError(accountLockedError(minutes))
		return payload, nil
	}

	if err := a.hasher.Compare(password, admin.PasswordHash); err != nil {
		terr := a.repo.Admins().TrackFailedLogin(
			ctx,
			admin.ID,
			a.lockout.MaxAttempts,
			a.lockout.CandidateLock(),
		)
		if terr != nil {
			return nil, errors.Wrap(terr, errors.CategoryInternal, "failed to track login attempt")
		}

		payload, _ := a.payloadFromError(ErrInvalidCredentials)
		return payload, nil
	}

	if err := a.repo.Admins().TrackSuccessfulLogin(ctx, admin.ID, a.now()); err != nil {
		a.logger.Error("failed to track successful login", "error", err)
	}

	token, err := a.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}

	return &AuthPayload{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Admin:   admin,
	}, nil
}

// Verify validates a bearer token, enforces the admin guard, and loads the
// account it identifies.
func (a *AdminAuth) Verify(ctx context.Context, token string) (*Admin, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}

	admin, err := a.repo.Admins().GetByID(ctx, claims.AdminID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load admin for verified token")
	}

	return admin, nil
}

// RemainingSecureKeys counts unused keys. Requires admin claims.
func (a *AdminAuth) RemainingSecureKeys(ctx context.Context, claims *AdminClaims) (int, error) {
	if err := RequireAdmin(claims); err != nil {
		return 0, err
	}
	return a.repo.SecureKeys().CountAvailable(ctx)
}

// ListSecureKeys lists every key with its consuming admin resolved.
// Requires admin claims.
func (a *AdminAuth) ListSecureKeys(ctx context.Context, claims *AdminClaims) ([]*SecureKey, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}
	return a.repo.SecureKeys().List(ctx)
}

// ListAdmins lists all admin accounts, newest first. Requires admin claims.
func (a *AdminAuth) ListAdmins(ctx context.Context, claims *AdminClaims) ([]*Admin, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}
	return a.repo.Admins().ListAll(ctx)
}

// ProfileUpdate carries the mutable identity fields of an admin account.
type ProfileUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfile changes username and/or email on the claims' own account,
// probing uniqueness against every other account first.
func (a *AdminAuth) UpdateProfile(ctx context.Context, claims *AdminClaims, change ProfileUpdate) (*Admin, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.AdminID())
	if err != nil {
		return nil, ErrInvalidToken
	}

	admin, err := a.repo.Admins().GetByID(ctx, claims.AdminID())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load admin for profile update")
	}

	if change.Username != "" && change.Username != admin.Username {
		taken, err := a.repo.Admins().UsernameTaken(ctx, change.Username, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check username uniqueness")
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		admin.Username = change.Username
	}

	if change.Email != "" && change.Email != admin.Email {
		taken, err := a.repo.Admins().EmailTaken(ctx, change.Email, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
		}
		if taken {
			return nil, ErrEmailTaken
		}
		admin.Email = change.Email
	}

	updated, err := a.repo.Admins().Update(ctx, admin, repository.UpdateByID(admin.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist profile update")
	}

	return updated, nil
}

// ChangePassword verifies the current password before storing a hash of
// the new one. A wrong current password is an expected outcome, not an
// error.
func (a *AdminAuth) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) (*ActionResult, error) {
	if err := validation.Validate(newPassword, validation.Required, validation.Length(8, 128)); err != nil {
		return &ActionResult{
			Success: false,
			Message: "New password " + err.Error(),
		}, nil
	}

	id, err := uuid.Parse(adminID)
	if err != nil {
		return nil, errors.New("invalid admin id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	admin, err := a.repo.Admins().GetByID(ctx, adminID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New("admin not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load admin for password change")
	}

	if err := a.hasher.Compare(currentPassword, admin.PasswordHash); err != nil {
		return &ActionResult{
			Success: false,
			Message: "Current password is incorrect",
		}, nil
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash new password")
	}

	if err := a.repo.Admins().UpdatePassword(ctx, id, hash); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to store new password")
	}

	return &ActionResult{
		Success: true,
		Message: "Password changed successfully",
	}, nil
}

// DeleteAdmin removes the target account. Self-deletion is forbidden
// regardless of role; an account leaves the system only by another admin's
// hand.
func (a *AdminAuth) DeleteAdmin(ctx context.Context, requesterID, targetID string) (*ActionResult, error) {
	if requesterID == targetID {
		return nil, ErrSelfDeletionForbidden
	}

	id, err := uuid.Parse(targetID)
	if err != nil {
		return nil, errors.New("invalid admin id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	if err := a.repo.Admins().RemoveByID(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New("admin not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to delete admin")
	}

	return &ActionResult{
		Success: true,
		Message: "Admin account deleted successfully",
	}, nil
}

// payloadFromError converts an expected business outcome into its payload
// form. Infrastructure and guard errors are not convertible.
func (a *AdminAuth) payloadFromError(err error) (*AuthPayload, bool) {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return nil, false
	}

	if _, ok := businessTextCodes[richErr.TextCode]; !ok {
		return nil, false
	}

	if len(richErr.Metadata) > 0 {
		a.logger.Debug("rejected auth operation", "code", richErr.TextCode, "details", print.MaybePrettyJSON(richErr.Metadata))
	}

	return &AuthPayload{
		Success: false,
		Message: richErr.Message,
		Code:    richErr.TextCode,
	}, true
}
