package adminauth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Admins() Admins
	SecureKeys() SecureKeys
}

type mngr struct {
	db         *bun.DB
	admins     Admins
	secureKeys SecureKeys
}

// ManagerOption customizes repository construction.
type ManagerOption func(*mngr)

// WithManagerSecureKeys overrides the secure keys repository, e.g. to inject
// a clock in tests.
func WithManagerSecureKeys(keys SecureKeys) ManagerOption {
	return func(m *mngr) {
		if keys != nil {
			m.secureKeys = keys
		}
	}
}

func NewRepositoryManager(db *bun.DB, opts ...ManagerOption) RepositoryManager {
	m := &mngr{
		db:         db,
		admins:     NewAdminsRepository(db),
		secureKeys: NewSecureKeysRepository(db),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m mngr) Validate() error {
	if m.admins == nil {
		return errors.New("repository admins should be initialized")
	}

	if m.secureKeys == nil {
		return errors.New("repository secureKeys should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Admins() Admins {
	return m.admins
}

func (m mngr) SecureKeys() SecureKeys {
	return m.secureKeys
}
