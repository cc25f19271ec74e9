package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/matheusvidal/stockman/internal/model"
)

const userColumns = "id,name,email,role,password,refresh_token,refresh_token_expiry,last_access,status,created_at,last_updated_at"

// UserRepo owns the 'users' and 'salts' tables. It backs both the
// login flow (lookups, salt fetch, refresh token write) and the
// account management endpoints.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u      model.User
		token  sql.NullString
		expiry sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Password,
		&token, &expiry, &u.LastAccess, &u.Status, &u.CreatedAt, &u.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // absence is not an error
		}
		return nil, err
	}
	if token.Valid {
		u.RefreshToken = &token.String
	}
	if expiry.Valid {
		t := expiry.Time
		u.RefreshTokenExpiry = &t
	}
	return &u, nil
}

// FindByEmail fetches a user by normalized email. Returns (nil, nil)
// when no row matches.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindByName fetches a user by display name. Returns (nil, nil) when
// no row matches.
func (r *UserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE name=? LIMIT 1", strings.TrimSpace(name)))
}

// FindByID fetches a user by id. Returns (nil, nil) when no row matches.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// FindSalt returns the salt value for a user. Unlike the user
// lookups, a missing row here is an error: every provisioned account
// has exactly one salt, so absence means the store is inconsistent.
func (r *UserRepo) FindSalt(ctx context.Context, userID int64) (string, error) {
	var salt string
	err := r.DB.QueryRowContext(ctx,
		"SELECT salt_hash FROM salts WHERE user_id=? LIMIT 1", userID).Scan(&salt)
	if err != nil {
		return "", err
	}
	return salt, nil
}

// UpdateRefreshToken overwrites the refresh token and its expiry in a
// single statement so the two columns can never diverge.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=?, refresh_token_expiry=? WHERE id=?",
		token, expiresAt, userID)
	return err
}

// TouchLastAccess records a successful login timestamp.
func (r *UserRepo) TouchLastAccess(ctx context.Context, userID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_access=? WHERE id=?", time.Now().UTC(), userID)
	return err
}

// Create inserts a user and its salt row in one transaction and
// returns the new id. The password must already be hashed.
func (r *UserRepo) Create(ctx context.Context, u *model.User, salt string) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name,email,role,password,last_access,status,created_at,last_updated_at) VALUES (?,?,?,?,?,?,?,?)",
		u.Name, u.Email, u.Role, u.Password, u.LastAccess, u.Status, u.CreatedAt, u.LastUpdatedAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO salts (user_id, salt_hash) VALUES (?,?)", id, salt); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetAll lists every user, most recent first.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,role,last_access,status,created_at,last_updated_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Search lists users whose name or email contains the given fragment.
func (r *UserRepo) Search(ctx context.Context, param string) ([]model.User, error) {
	like := "%" + strings.TrimSpace(param) + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,role,last_access,status,created_at,last_updated_at FROM users WHERE name LIKE ? OR email LIKE ? ORDER BY name",
		like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role,
			&u.LastAccess, &u.Status, &u.CreatedAt, &u.LastUpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update applies a partial edit of name, email and role.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, role=?, last_updated_at=? WHERE id=?",
		u.Name, u.Email, u.Role, time.Now().UTC(), u.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicate
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Disable soft-deletes a user by clearing the status flag. The row
// and its salt are kept.
func (r *UserRepo) Disable(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=0, last_updated_at=? WHERE id=?", time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
