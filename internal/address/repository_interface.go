package address

import "context"

type Repository interface {
	List(ctx context.Context, userID int) ([]Address, error)
	Create(ctx context.Context, userID int, req SaveRequest) (*Address, error)
	Update(ctx context.Context, userID, addressID int, req SaveRequest) (*Address, error)
	Delete(ctx context.Context, userID, addressID int) error
}
