package postgres

import (
	"context"
	"database/sql"

	authDomain "fx-alert-hub/internal/domain/auth"
	authinfra "fx-alert-hub/internal/infrastructure/auth"
)

// UserRepo 提供儀表板帳號的存取。
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo 建立 UserRepo。
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, password_hash, role, status`

// FindByEmail 依 email 查詢使用者。
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (authDomain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByID 依 ID 查詢使用者。
func (r *UserRepo) FindByID(ctx context.Context, id string) (authDomain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, id))
}

// SeedAdmin 在 users 表為空時建立預設管理者帳號，已有帳號則不動作。
func (r *UserRepo) SeedAdmin(ctx context.Context, email, password string) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users;`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := authinfra.HashPassword(password)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, role, status)
VALUES ($1, $2, 'admin', 'active');
`
	_, err = r.db.ExecContext(ctx, q, email, hash)
	return err
}

func (r *UserRepo) scanUser(row *sql.Row) (authDomain.User, error) {
	var u authDomain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Status); err != nil {
		return authDomain.User{}, err
	}
	return u, nil
}
