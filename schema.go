package adminauth

import (
	"context"

	"github.com/uptrace/bun"
)

// DDL kept sqlite-compatible so the repository tests and small deployments
// can run against modernc sqlite; production schemas usually live in the
// embedding application's migrations.
const (
	CreateAdminsTableSQL = `CREATE TABLE IF NOT EXISTS admins (
    id TEXT NOT NULL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    admin_role TEXT NOT NULL DEFAULT 'admin',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    failed_login_attempts INTEGER NOT NULL DEFAULT 0,
    locked_until TIMESTAMP NULL,
    last_login_at TIMESTAMP NULL,
    used_secure_key_code TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP,
    deleted_at TIMESTAMP NULL
);`

	CreateSecureKeysTableSQL = `CREATE TABLE IF NOT EXISTS secure_keys (
    id TEXT NOT NULL PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'unused',
    consumed_by TEXT NULL,
    consumed_at TIMESTAMP NULL,
    expires_at TIMESTAMP NULL,
    description TEXT NOT NULL DEFAULT 'Admin registration key',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP,
    FOREIGN KEY (consumed_by) REFERENCES admins (id)
);`
)

// CreateSchema creates the admins and secure_keys tables if they do not
// exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, CreateAdminsTableSQL); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, CreateSecureKeysTableSQL); err != nil {
		return err
	}
	return nil
}
