package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/deceasedone/Surveyappl/model"
)

// UserStore persists user records. Credentials are stored as bcrypt hashes
// and never leave this package in plaintext.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db}
}

func (s *UserStore) Create(ctx context.Context, email, password, name string, role model.Role) (model.User, error) {
	if role == "" {
		role = model.RoleNormal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user (id, email, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		string(u.PasswordHash),
		u.Name,
		string(u.Role),
		u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return model.User{}, model.ErrDuplicateEmail
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) findOne(ctx context.Context, where string, arg any) (model.User, error) {
	u := model.User{}
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM user
		WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Email, &hash, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = []byte(hash)
	return u, nil
}

// VerifyCredential compares a plaintext password against the stored hash.
func (s *UserStore) VerifyCredential(u model.User, password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
