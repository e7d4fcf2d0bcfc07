package cart

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrItemNotFound = errors.New("cart item not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID int) ([]ItemWithGame, error) {
	var items []ItemWithGame
	err := r.db.SelectContext(ctx, &items, `
		SELECT ci.id, ci.user_id, ci.game_id, ci.quantity, ci.created_at,
		       g.title, g.price, g.image
		FROM cart_items ci
		JOIN games g ON g.id = ci.game_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`, userID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) AddItem(ctx context.Context, userID, gameID, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, game_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, game_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, userID, gameID, quantity)
	return err
}

func (r *repository) UpdateQuantity(ctx context.Context, userID, gameID, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE user_id = $2 AND game_id = $3
	`, quantity, userID, gameID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, gameID int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1 AND game_id = $2
	`, userID, gameID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Clear(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

// ClearTx empties the cart inside a caller-owned transaction. Checkout uses
// this so the cart is cleared atomically with the rest of the settlement.
func ClearTx(ctx context.Context, tx *sqlx.Tx, userID int) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
