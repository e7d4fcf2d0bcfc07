package order

import "context"

type Repository interface {
	// Create persists the order, settles the points movements against the
	// wallet and clears the cart, all in a single transaction.
	Create(ctx context.Context, p CreateParams) (*Order, error)

	ListByUser(ctx context.Context, userID int) ([]Order, error)
	GetByID(ctx context.Context, userID, orderID int) (*Order, error)
}
