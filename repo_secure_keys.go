package adminauth

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SecureKeys is the one-time registration code store.
//
// Reserve is a cheap viability check; the actual Unused -> Used transition
// happens in Consume as a single conditional update guarded on the current
// status. Two registrations racing on the same code therefore get exactly
// one winner no matter how their reads interleave.
type SecureKeys interface {
	Reserve(ctx context.Context, code string) (*SecureKey, error)
	ReserveTx(ctx context.Context, tx bun.IDB, code string) (*SecureKey, error)

	Consume(ctx context.Context, keyID, adminID uuid.UUID) error
	ConsumeTx(ctx context.Context, tx bun.IDB, keyID, adminID uuid.UUID) error

	CountAvailable(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*SecureKey, error)
	CreateBatch(ctx context.Context, keys []*SecureKey) error
}

type secureKeys struct {
	db  *bun.DB
	now func() time.Time
}

var _ SecureKeys = (*secureKeys)(nil)

// SecureKeysOption customizes the repository.
type SecureKeysOption func(*secureKeys)

// WithSecureKeysClock injects a custom clock (useful for tests).
func WithSecureKeysClock(clock func() time.Time) SecureKeysOption {
	return func(s *secureKeys) {
		if clock != nil {
			s.now = clock
		}
	}
}

func NewSecureKeysRepository(db *bun.DB, opts ...SecureKeysOption) SecureKeys {
	repo := &secureKeys{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

func (s *secureKeys) Reserve(ctx context.Context, code string) (*SecureKey, error) {
	return s.ReserveTx(ctx, s.db, code)
}

// ReserveTx locates an unused key with the given code. A missing or spent
// code reports the same error so callers cannot probe which codes exist.
// An expired key is left unused: it was never viable.
func (s *secureKeys) ReserveTx(ctx context.Context, tx bun.IDB, code string) (*SecureKey, error) {
	record := &SecureKey{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.code = ?", code).
		Where("?TableAlias.status = ?", KeyStatusUnused).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidSecureKey
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up secure key")
	}

	if record.Expired(s.now()) {
		return nil, ErrExpiredSecureKey
	}

	return record, nil
}

func (s *secureKeys) Consume(ctx context.Context, keyID, adminID uuid.UUID) error {
	return s.ConsumeTx(ctx, s.db, keyID, adminID)
}

// ConsumeTx flips the key to used and records who spent it and when. The
// status guard in the WHERE clause makes the transition happen at most
// once: a caller that lost the race sees zero affected rows.
func (s *secureKeys) ConsumeTx(ctx context.Context, tx bun.IDB, keyID, adminID uuid.UUID) error {
	res, err := tx.NewUpdate().
		Model((*SecureKey)(nil)).
		Set("status = ?", KeyStatusUsed).
		Set("consumed_by = ?", adminID).
		Set("consumed_at = ?", s.now()).
		Where("?TableAlias.id = ?", keyID).
		Where("?TableAlias.status = ?", KeyStatusUnused).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to consume secure key")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read consume result")
	}

	if rows == 0 {
		return ErrKeyAlreadyConsumed
	}

	return nil
}

// CountAvailable is a read-only count of unused keys; it never mutates key
// state.
func (s *secureKeys) CountAvailable(ctx context.Context) (int, error) {
	return s.db.NewSelect().
		Model((*SecureKey)(nil)).
		Where("?TableAlias.status = ?", KeyStatusUnused).
		Count(ctx)
}

// List returns every key, newest first, with the consuming admin resolved.
func (s *secureKeys) List(ctx context.Context) ([]*SecureKey, error) {
	var records []*SecureKey
	err := s.db.NewSelect().
		Model(&records).
		Relation("Consumer").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CreateBatch inserts minted keys. Codes are unique at insertion; the
// external generator retries collisions before handing codes over.
func (s *secureKeys) CreateBatch(ctx context.Context, keys []*SecureKey) error {
	if len(keys) == 0 {
		return nil
	}

	for _, key := range keys {
		prepareKeyDefaults(key)
	}

	_, err := s.db.NewInsert().
		Model(&keys).
		Exec(ctx)
	return err
}

func prepareKeyDefaults(record *SecureKey) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Status == "" {
		record.Status = KeyStatusUnused
	}

	if record.Description == "" {
		record.Description = DefaultKeyDescription
	}
}
