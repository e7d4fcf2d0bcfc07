package address

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrAddressNotFound = errors.New("address not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const addressColumns = `id, user_id, name, phone, line1, line2, city, state, pincode, is_default, created_at, updated_at`

func (r *repository) List(ctx context.Context, userID int) ([]Address, error) {
	addresses := []Address{}
	err := r.db.SelectContext(ctx, &addresses, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return addresses, nil
}

func (r *repository) Create(ctx context.Context, userID int, req SaveRequest) (*Address, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if req.IsDefault {
		if err := clearDefault(ctx, tx, userID); err != nil {
			return nil, err
		}
	}

	a := &Address{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO addresses (user_id, name, phone, line1, line2, city, state, pincode, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+addressColumns,
		userID, req.Name, req.Phone, req.Line1, req.Line2, req.City, req.State, req.Pincode, req.IsDefault,
	).StructScan(a)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *repository) Update(ctx context.Context, userID, addressID int, req SaveRequest) (*Address, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if req.IsDefault {
		if err := clearDefault(ctx, tx, userID); err != nil {
			return nil, err
		}
	}

	a := &Address{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE addresses
		SET name = $1, phone = $2, line1 = $3, line2 = $4, city = $5, state = $6, pincode = $7, is_default = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING `+addressColumns,
		req.Name, req.Phone, req.Line1, req.Line2, req.City, req.State, req.Pincode, req.IsDefault,
		addressID, userID,
	).StructScan(a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *repository) Delete(ctx context.Context, userID, addressID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// clearDefault drops the default flag from every other address so at most one
// address per user carries it.
func clearDefault(ctx context.Context, tx *sqlx.Tx, userID int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID)
	return err
}
