package adminauth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RegisterAdminMessage struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	SecureKey string `json:"secure_key"`
	Role      string `json:"role"`
	UseHashid bool
}

func (e RegisterAdminMessage) Type() string { return "admin.register" }

// Validate enforces payload shape before any store access.
func (e RegisterAdminMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&e.SecureKey, validation.Required),
		validation.Field(&e.Role, validation.In(RoleAdmin, RoleSuperAdmin)),
	)
}

// RegisterAdminHandler runs the secure-key gated registration use-case.
//
// The whole sequence executes inside one transaction: reserve the key,
// probe username and email uniqueness, create the account, then consume the
// key with a conditional update. Losing the consume race rolls the freshly
// created account back, so a spent key can never leave an orphan admin
// behind.
type RegisterAdminHandler struct {
	repo   RepositoryManager
	hasher PasswordHasher
	logger Logger
}

func NewRegisterAdminHandler(repo RepositoryManager, hasher PasswordHasher) *RegisterAdminHandler {
	return &RegisterAdminHandler{
		repo:   repo,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (h *RegisterAdminHandler) WithLogger(logger Logger) *RegisterAdminHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterAdminHandler) Execute(ctx context.Context, event RegisterAdminMessage) (*Admin, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during admin registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAdminHandler) execute(ctx context.Context, event RegisterAdminMessage) (*Admin, error) {
	admin := &Admin{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		key, err := h.repo.SecureKeys().ReserveTx(ctx, tx, event.SecureKey)
		if err != nil {
			return err
		}

		taken, err := h.repo.Admins().UsernameTakenTx(ctx, tx, event.Username, uuid.Nil)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username uniqueness")
		}
		if taken {
			return ErrUsernameTaken
		}

		taken, err = h.repo.Admins().EmailTakenTx(ctx, tx, event.Email, uuid.Nil)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}
		if taken {
			return ErrEmailTaken
		}

		hash, err := h.hasher.Hash(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		admin.PasswordHash = hash
		admin.Username = event.Username
		admin.Email = event.Email
		admin.Role = event.Role
		admin.UsedSecureKeyCode = key.Code
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				admin.ID = id
			}
		}

		if admin, err = h.repo.Admins().RegisterTx(ctx, tx, admin); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin")
		}

		return h.repo.SecureKeys().ConsumeTx(ctx, tx, key.ID, admin.ID)
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "admin registration transaction failed")
	}

	return admin, nil
}
