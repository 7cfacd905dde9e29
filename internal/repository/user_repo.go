package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"go.uber.org/zap"
)

// UserRepository persists users
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (user_code, name, is_admin) VALUES (?, ?, ?)`

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query, user.UserCode, user.Name, user.IsAdmin)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("user_code", user.UserCode), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByCode retrieves a user by chat code. Returns nil when absent.
func (r *UserRepository) GetByCode(ctx context.Context, code string) (*entity.User, error) {
	query := `SELECT id, user_code, name, is_admin, created_at FROM users WHERE user_code = ?`
	return r.scanOne(executorFrom(ctx, r.db).QueryRowContext(ctx, query, code))
}

// GetByID retrieves a user by ID. Returns nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT id, user_code, name, is_admin, created_at FROM users WHERE id = ?`
	return r.scanOne(executorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetAdmin retrieves the admin account. Returns nil when absent.
func (r *UserRepository) GetAdmin(ctx context.Context) (*entity.User, error) {
	query := `SELECT id, user_code, name, is_admin, created_at FROM users WHERE is_admin = 1 LIMIT 1`
	return r.scanOne(executorFrom(ctx, r.db).QueryRowContext(ctx, query))
}

// EnsureAdmin creates the admin account if no admin exists yet. Safe to
// run on every boot.
func (r *UserRepository) EnsureAdmin(ctx context.Context, name string) (*entity.User, error) {
	admin, err := r.GetAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return admin, nil
	}

	admin = &entity.User{UserCode: entity.AdminUserCode, Name: name, IsAdmin: true}
	if err := r.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	r.logger.Info("Admin account created", zap.Int64("id", admin.ID))
	return admin, nil
}

// Update updates a user's code and name
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `UPDATE users SET user_code = ?, name = ? WHERE id = ?`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query, user.UserCode, user.Name, user.ID)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Int64("id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes a user. The orders foreign keys cascade their own
// orders away and null out payer references.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListMembers returns all non-admin users ordered by numeric code.
func (r *UserRepository) ListMembers(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT id, user_code, name, is_admin, created_at
		FROM users
		WHERE is_admin = 0
		ORDER BY CAST(user_code AS INTEGER)
	`
	return r.list(ctx, query)
}

// ListWithUnpaid returns non-admin users who have at least one unpaid
// order, ordered by numeric code.
func (r *UserRepository) ListWithUnpaid(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT DISTINCT u.id, u.user_code, u.name, u.is_admin, u.created_at
		FROM users u
		JOIN orders o ON o.user_id = u.id
		WHERE o.paid = 0 AND u.is_admin = 0
		ORDER BY CAST(u.user_code AS INTEGER)
	`
	return r.list(ctx, query)
}

// CountMembers counts non-admin users
func (r *UserRepository) CountMembers(ctx context.Context) (int, error) {
	var n int
	err := executorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_admin = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.User, error) {
	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.UserCode, &u.Name, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row *sql.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.UserCode, &u.Name, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
