package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string, referredBy *int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	FindByReferralCode(ctx context.Context, code string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
