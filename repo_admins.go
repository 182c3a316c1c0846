package adminauth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var updateAdminPasswordSQL = `UPDATE "admins" AS "adm"
SET
	"password_hash" = ?
WHERE
	"adm"."deleted_at" IS NULL
AND (
	"adm"."id" = ?
) RETURNING *;`

// Admins is the admin account store. Counter updates are single-statement
// and atomic: concurrent login attempts against the same account can race
// on the threshold crossing but can never drop an increment.
type Admins interface {
	repository.Repository[*Admin]

	GetByUsername(ctx context.Context, username string) (*Admin, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Admin, error)

	UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	UsernameTakenTx(ctx context.Context, tx bun.IDB, username string, excludeID uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	EmailTakenTx(ctx context.Context, tx bun.IDB, email string, excludeID uuid.UUID) (bool, error)

	Register(ctx context.Context, admin *Admin) (*Admin, error)
	RegisterTx(ctx context.Context, tx bun.IDB, admin *Admin) (*Admin, error)

	TrackFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil time.Time) error
	TrackFailedLoginTx(ctx context.Context, tx bun.IDB, id uuid.UUID, threshold int, lockUntil time.Time) error
	TrackSuccessfulLogin(ctx context.Context, id uuid.UUID, loggedInAt time.Time) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, id uuid.UUID, loggedInAt time.Time) error

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	ListAll(ctx context.Context) ([]*Admin, error)

	RemoveByID(ctx context.Context, id uuid.UUID) error
	RemoveByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type admins struct {
	repository.Repository[*Admin]
	db *bun.DB
}

var (
	_ Admins                        = (*admins)(nil)
	_ repository.Repository[*Admin] = (*admins)(nil)
)

func NewAdminsRepository(db *bun.DB) Admins {
	repo := repository.NewRepository[*Admin](db, repository.ModelHandlers[*Admin]{
		NewRecord: func() *Admin { return &Admin{} },
		GetID: func(a *Admin) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Admin, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &admins{
		Repository: repo,
		db:         db,
	}
}

func (a *admins) Register(ctx context.Context, admin *Admin) (*Admin, error) {
	return a.RegisterTx(ctx, a.db, admin)
}

func (a *admins) RegisterTx(ctx context.Context, tx bun.IDB, admin *Admin) (*Admin, error) {
	prepareAdminDefaults(admin)
	return a.Repository.CreateTx(ctx, tx, admin)
}

func (a *admins) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *admins) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*Admin, error) {
	return a.getByColumnTx(ctx, tx, "username", username)
}

func (a *admins) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *admins) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Admin, error) {
	return a.getByColumnTx(ctx, tx, "email", email)
}

func (a *admins) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*Admin, error) {
	record := &Admin{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *admins) UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	return a.UsernameTakenTx(ctx, a.db, username, excludeID)
}

func (a *admins) UsernameTakenTx(ctx context.Context, tx bun.IDB, username string, excludeID uuid.UUID) (bool, error) {
	return a.takenTx(ctx, tx, "username", username, excludeID)
}

func (a *admins) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return a.EmailTakenTx(ctx, a.db, email, excludeID)
}

func (a *admins) EmailTakenTx(ctx context.Context, tx bun.IDB, email string, excludeID uuid.UUID) (bool, error) {
	return a.takenTx(ctx, tx, "email", email, excludeID)
}

func (a *admins) takenTx(ctx context.Context, tx bun.IDB, column, value string, excludeID uuid.UUID) (bool, error) {
	q := tx.NewSelect().
		Model((*Admin)(nil)).
		Where("?TableAlias."+column+" = ?", value)

	if excludeID != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (a *admins) TrackFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil time.Time) error {
	return a.TrackFailedLoginTx(ctx, a.db, id, threshold, lockUntil)
}

// TrackFailedLoginTx bumps the failure counter and, when the bump reaches
// the threshold, sets the lock in the same statement. One UPDATE, no
// read-modify-write, so concurrent failures cannot drop an increment.
func (a *admins) TrackFailedLoginTx(ctx context.Context, tx bun.IDB, id uuid.UUID, threshold int, lockUntil time.Time) error {
	_, err := tx.NewRaw(`
		UPDATE "admins" AS "adm"
		SET
			"failed_login_attempts" = "failed_login_attempts" + 1,
			"locked_until" = CASE
				WHEN "failed_login_attempts" + 1 >= ? THEN ?
				ELSE "locked_until"
			END
		WHERE
			("adm".id = ?)
			AND "adm"."deleted_at" IS NULL;
	`, threshold, lockUntil, id).Exec(ctx)

	return err
}

func (a *admins) TrackSuccessfulLogin(ctx context.Context, id uuid.UUID, loggedInAt time.Time) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, id, loggedInAt)
}

func (a *admins) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, id uuid.UUID, loggedInAt time.Time) error {
	_, err := tx.NewRaw(`
		UPDATE "admins" AS "adm"
		SET
			"last_login_at" = ?,
			"locked_until" = NULL,
			"failed_login_attempts" = 0
		WHERE
			("adm".id = ?)
			AND "adm"."deleted_at" IS NULL;
	`, loggedInAt, id).Exec(ctx)

	return err
}

func (a *admins) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.UpdatePasswordTx(ctx, a.db, id, passwordHash)
}

func (a *admins) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, updateAdminPasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *admins) ListAll(ctx context.Context) ([]*Admin, error) {
	var records []*Admin
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *admins) RemoveByID(ctx context.Context, id uuid.UUID) error {
	return a.RemoveByIDTx(ctx, a.db, id)
}

func (a *admins) RemoveByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Admin)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func prepareAdminDefaults(record *Admin) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleAdmin
	}

	record.IsActive = true

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
