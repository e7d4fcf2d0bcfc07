package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, referral_code, referred_by, referral_count, created_at`

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string, referredBy *int) (*User, error) {
	u := &User{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, referred_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		name, email, passwordHash, role, referredBy,
	).StructScan(u)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByReferralCode(ctx context.Context, code string) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u,
		`SELECT `+userColumns+` FROM users WHERE referral_code = $1`,
		strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}
