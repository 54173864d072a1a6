package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/utils"
)

// UserRepo persists application users and their profile fields.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = `id,email,password_hash,role,full_name,phone,avatar_url,is_verified,is_active,created_at,updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FullName,
		&u.Phone, &u.AvatarURL, &u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role, fullName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, full_name) VALUES (?,?,?,?)",
		email, hash, role, fullName)
	if err != nil {
		// MySQL duplicate-key error for the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile updates the mutable profile fields of a user. Nil pointers
// leave the corresponding column untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName *string, phone, avatarURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET
		   full_name  = COALESCE(?, full_name),
		   phone      = COALESCE(?, phone),
		   avatar_url = COALESCE(?, avatar_url)
		 WHERE id=?`,
		fullName, phone, avatarURL, id)
	return err
}

// SetVerified flips the identity-verification flag after an admin approves
// the user's document.
func (r *UserRepo) SetVerified(ctx context.Context, id uint64, verified bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_verified=? WHERE id=?", verified, id)
	return err
}
