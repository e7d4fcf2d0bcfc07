package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/cart"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/wallet"

	"github.com/jmoiron/sqlx"
)

var ErrOrderNotFound = errors.New("order not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, order_number, total_amount, discount, points_used, final_amount, points_earned, payment_method, payment_status, order_status, ship_name, ship_phone, ship_line1, ship_city, ship_state, ship_pincode, created_at, updated_at`

func (r *repository) Create(ctx context.Context, p CreateParams) (*Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	o := &Order{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO orders (user_id, order_number, total_amount, discount, points_used, final_amount, points_earned,
		                    payment_method, payment_status, order_status,
		                    ship_name, ship_phone, ship_line1, ship_city, ship_state, ship_pincode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+orderColumns,
		p.UserID, p.OrderNumber, p.TotalAmount, p.Discount, p.PointsUsed, p.FinalAmount, p.PointsEarned,
		p.PaymentMethod, PaymentCompleted, StatusProcessing,
		p.Shipping.Name, p.Shipping.Phone, p.Shipping.Line1, p.Shipping.City, p.Shipping.State, p.Shipping.Pincode,
	).StructScan(o)
	if err != nil {
		return nil, err
	}

	for _, it := range p.Items {
		item := it
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO order_items (order_id, game_id, title, price, image, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			o.ID, item.GameID, item.Title, item.Price, item.Image, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}

	// Settlement: redeem first, then award, each moving the locked wallet
	// row and appending its ledger entry.
	if p.Discount > 0 {
		discount := p.Discount
		desc := fmt.Sprintf("Redeemed %d points for ₹%d discount", p.PointsUsed, p.Discount)
		_, err = wallet.ApplyTx(ctx, tx, p.UserID, -p.PointsUsed, wallet.SourceDiscountRedemption, desc,
			&wallet.EntryMeta{OrderID: &o.ID, DiscountAmount: &discount})
		if err != nil {
			return nil, err
		}
	}

	desc := fmt.Sprintf("Earned %d points from order %s", p.PointsEarned, p.OrderNumber)
	_, err = wallet.ApplyTx(ctx, tx, p.UserID, p.PointsEarned, wallet.SourcePurchase, desc,
		&wallet.EntryMeta{OrderID: &o.ID})
	if err != nil {
		return nil, err
	}

	if err := cart.ClearTx(ctx, tx, p.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	var orders []Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *repository) GetByID(ctx context.Context, userID, orderID int) (*Order, error) {
	o := &Order{}
	err := r.db.GetContext(ctx, o, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *repository) loadItems(ctx context.Context, orderID int) ([]Item, error) {
	var items []Item
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, order_id, game_id, title, price, image, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	return items, nil
}
