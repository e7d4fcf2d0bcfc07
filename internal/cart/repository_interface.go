package cart

import "context"

type Repository interface {
	GetItems(ctx context.Context, userID int) ([]ItemWithGame, error)
	AddItem(ctx context.Context, userID, gameID, quantity int) error
	UpdateQuantity(ctx context.Context, userID, gameID, quantity int) error
	RemoveItem(ctx context.Context, userID, gameID int) error
	Clear(ctx context.Context, userID int) error
}
