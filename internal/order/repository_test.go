package order

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/wallet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupOrderMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var orderCols = []string{
	"id", "user_id", "order_number", "total_amount", "discount", "points_used",
	"final_amount", "points_earned", "payment_method", "payment_status", "order_status",
	"ship_name", "ship_phone", "ship_line1", "ship_city", "ship_state", "ship_pincode",
	"created_at", "updated_at",
}

func orderRow(id int, p CreateParams) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderCols).AddRow(
		id, p.UserID, p.OrderNumber, p.TotalAmount, p.Discount, p.PointsUsed,
		p.FinalAmount, p.PointsEarned, p.PaymentMethod, PaymentCompleted, StatusProcessing,
		p.Shipping.Name, p.Shipping.Phone, p.Shipping.Line1, p.Shipping.City, p.Shipping.State, p.Shipping.Pincode,
		now, now,
	)
}

const selectWalletForUpdate = `SELECT id, user_id, balance, total_earned, total_redeemed, last_daily_bonus_at, total_time_minutes, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE`

func walletRow(id, userID int, balance, earned, redeemed int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "balance", "total_earned", "total_redeemed",
		"last_daily_bonus_at", "total_time_minutes", "created_at", "updated_at",
	}).AddRow(id, userID, balance, earned, redeemed, nil, 0, time.Now(), time.Now())
}

func TestCreate_SettlesRedeemEarnAndCartInOneTransaction(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	ctx := context.Background()
	p := CreateParams{
		UserID:      20,
		OrderNumber: "JJ-test",
		Items: []Item{
			{GameID: 1, Title: "Chess Royale", Price: 400, Quantity: 1},
			{GameID: 2, Title: "Trivia Rush", Price: 300, Quantity: 2},
		},
		TotalAmount:   1000,
		Discount:      500,
		PointsUsed:    500,
		FinalAmount:   500,
		PointsEarned:  5,
		PaymentMethod: "upi",
		Shipping: ShippingAddress{
			Name: "Arjun", Phone: "9999999999", Line1: "12 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001",
		},
	}

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(20, "JJ-test", int64(1000), int64(500), int64(500), int64(500), int64(5),
			"upi", PaymentCompleted, StatusProcessing,
			"Arjun", "9999999999", "12 MG Road", "Bengaluru", "Karnataka", "560001").
		WillReturnRows(orderRow(9, p))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(9, 1, "Chess Royale", int64(400), "", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(9, 2, "Trivia Rush", int64(300), "", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(32))

	// Redeem leg.
	mock.ExpectQuery(regexp.QuoteMeta(selectWalletForUpdate)).
		WithArgs(20).
		WillReturnRows(walletRow(7, 20, 800, 800, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(300, 800, 500, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions")).
		WithArgs(7, -500, wallet.KindRedeemed, wallet.SourceDiscountRedemption, sqlmock.AnyArg(), nil, nil, 9, int64(500)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Earn leg.
	mock.ExpectQuery(regexp.QuoteMeta(selectWalletForUpdate)).
		WithArgs(20).
		WillReturnRows(walletRow(7, 20, 300, 800, 500))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(305, 805, 500, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions")).
		WithArgs(7, 5, wallet.KindEarned, wallet.SourcePurchase, sqlmock.AnyArg(), nil, nil, 9, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = $1")).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectCommit()

	o, err := repo.Create(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 9, o.ID)
	require.Len(t, o.Items, 2)
	require.Equal(t, 31, o.Items[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NoRedeemSkipsRedeemLeg(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	ctx := context.Background()
	p := CreateParams{
		UserID:        20,
		OrderNumber:   "JJ-test2",
		Items:         []Item{{GameID: 1, Title: "Chess Royale", Price: 250, Quantity: 1}},
		TotalAmount:   250,
		FinalAmount:   250,
		PointsEarned:  2,
		PaymentMethod: "cod",
		Shipping: ShippingAddress{
			Name: "Arjun", Phone: "9999999999", Line1: "12 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001",
		},
	}

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(orderRow(10, p))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletForUpdate)).
		WithArgs(20).
		WillReturnRows(walletRow(7, 20, 20, 20, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(22, 22, 0, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions")).
		WithArgs(7, 2, wallet.KindEarned, wallet.SourcePurchase, sqlmock.AnyArg(), nil, nil, 10, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = $1")).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	o, err := repo.Create(ctx, p)
	require.NoError(t, err)
	require.Equal(t, int64(0), o.Discount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsufficientBalanceRollsBackOrder(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	ctx := context.Background()
	p := CreateParams{
		UserID:        20,
		OrderNumber:   "JJ-test3",
		Items:         []Item{{GameID: 1, Title: "Chess Royale", Price: 1000, Quantity: 1}},
		TotalAmount:   1000,
		Discount:      500,
		PointsUsed:    500,
		FinalAmount:   500,
		PointsEarned:  5,
		PaymentMethod: "upi",
		Shipping: ShippingAddress{
			Name: "Arjun", Phone: "9999999999", Line1: "12 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001",
		},
	}

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(orderRow(11, p))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(34))

	// Wallet no longer covers the redeem; the whole order unwinds.
	mock.ExpectQuery(regexp.QuoteMeta(selectWalletForUpdate)).
		WithArgs(20).
		WillReturnRows(walletRow(7, 20, 100, 100, 0))

	mock.ExpectRollback()

	_, err := repo.Create(ctx, p)
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ScopedToOwner(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(9, 99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99, 9)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListByUser_LoadsItems(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	p := CreateParams{
		UserID: 20, OrderNumber: "JJ-a", TotalAmount: 400, FinalAmount: 400,
		PaymentMethod: "upi",
		Shipping: ShippingAddress{
			Name: "Arjun", Phone: "9999999999", Line1: "12 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001",
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(20).
		WillReturnRows(orderRow(9, p))

	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "game_id", "title", "price", "image", "quantity"}).
			AddRow(31, 9, 1, "Chess Royale", 400, "", 1))

	orders, err := repo.ListByUser(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	require.Equal(t, "Chess Royale", orders[0].Items[0].Title)
}
