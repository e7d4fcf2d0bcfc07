package wallet

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupWalletMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func walletRows(id, userID int, balance, earned, redeemed int64, lastBonus *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "balance", "total_earned", "total_redeemed",
		"last_daily_bonus_at", "total_time_minutes", "created_at", "updated_at",
	}).AddRow(id, userID, balance, earned, redeemed, lastBonus, 0, time.Now(), time.Now())
}

const selectWalletQuery = `SELECT id, user_id, balance, total_earned, total_redeemed, last_daily_bonus_at, total_time_minutes, created_at, updated_at FROM wallets WHERE user_id = $1`

func TestGetOrCreateWallet_WhenNotExists(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery)).
		WithArgs(10).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wallets (user_id)")).
		WithArgs(10).
		WillReturnRows(walletRows(5, 10, 0, 0, 0, nil))

	w, err := repo.GetOrCreateWallet(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 5, w.ID)
	require.Equal(t, int64(0), w.Balance)
}

func TestApply_EarnUpdatesBalanceAndLedger(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 100, 120, 20, nil))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(110, 130, 20, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions (wallet_id, amount, kind, source, description, game_id, game_minutes, order_id, discount_amount) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)")).
		WithArgs(7, 10, KindEarned, SourceGamePlay, "Daily game play bonus - Thank you for playing!", nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectCommit()

	w, err := repo.Apply(ctx, 20, 10, SourceGamePlay, "Daily game play bonus - Thank you for playing!", nil)
	require.NoError(t, err)
	require.Equal(t, int64(110), w.Balance)
	require.Equal(t, int64(130), w.TotalEarned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RedeemMovesRedeemedCounter(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()
	orderID := 42
	discount := int64(500)

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 800, 800, 0, nil))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(300, 800, 500, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions")).
		WithArgs(7, -500, KindRedeemed, SourceDiscountRedemption, "Redeemed 500 points", nil, nil, orderID, discount).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectCommit()

	w, err := repo.Apply(ctx, 20, -500, SourceDiscountRedemption, "Redeemed 500 points",
		&EntryMeta{OrderID: &orderID, DiscountAmount: &discount})
	require.NoError(t, err)
	require.Equal(t, int64(300), w.Balance)
	require.Equal(t, int64(500), w.TotalRedeemed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_InsufficientBalance(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 100, 100, 0, nil))

	mock.ExpectRollback()

	_, err := repo.Apply(ctx, 20, -500, SourceDiscountRedemption, "too much", nil)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimDailyBonus_FirstClaimOfTheDay(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	mock.ExpectBegin()

	// Date-check lock, then the settlement re-locks the same row.
	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 0, 0, 0, &yesterday))

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 0, 0, 0, &yesterday))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(10, 10, 0, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions")).
		WithArgs(7, DailyGameBonus, KindEarned, SourceGamePlay, "Daily game play bonus - Thank you for playing!", nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET last_daily_bonus_at = $1 WHERE id = $2")).
		WithArgs(now, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	w, err := repo.ClaimDailyBonus(ctx, 20, now)
	require.NoError(t, err)
	require.Equal(t, int64(10), w.Balance)
	require.Equal(t, int64(10), w.TotalEarned)
	require.NotNil(t, w.LastDailyBonusAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimDailyBonus_AlreadyClaimedToday(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()
	earlierToday := now.Add(-time.Minute)

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 10, 10, 0, &earlierToday))

	mock.ExpectRollback()

	_, err := repo.ClaimDailyBonus(ctx, 20, now)
	require.ErrorIs(t, err, ErrAlreadyClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_ReturnsNewestFirst(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM wallets WHERE user_id = $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	entryCols := []string{"id", "wallet_id", "amount", "kind", "source", "description", "game_id", "game_minutes", "order_id", "discount_amount", "created_at"}
	newer := time.Now()
	older := newer.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM point_transactions")).
		WithArgs(7, 100).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(2, 7, -500, KindRedeemed, SourceDiscountRedemption, "Redeemed 500 points", nil, nil, 42, 500, newer).
			AddRow(1, 7, 20, KindEarned, SourceBonus, "Signup bonus", nil, nil, nil, nil, older))

	entries, err := repo.History(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))

	// Amount sign always agrees with kind.
	for _, e := range entries {
		if e.Kind == KindRedeemed {
			require.Negative(t, e.Amount)
		} else {
			require.GreaterOrEqual(t, e.Amount, int64(0))
		}
	}
}

func TestHistory_NoWalletYet(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM wallets WHERE user_id = $1")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	entries, err := repo.History(context.Background(), 99, 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRecordGameActivity(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(20).
		WillReturnRows(walletRows(7, 20, 0, 0, 0, nil))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET total_time_minutes = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(45, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_sessions (user_id, game_id, minutes) VALUES ($1, $2, $3)")).
		WithArgs(20, 3, 45).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectCommit()

	total, err := repo.RecordGameActivity(ctx, 20, 3, 45)
	require.NoError(t, err)
	require.Equal(t, 45, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureReferralCode_AlreadyAssigned(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	existing := "JJARJAB12CD"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, referral_code FROM users WHERE id = $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"name", "referral_code"}).AddRow("Arjun", existing))

	code, err := repo.EnsureReferralCode(context.Background(), 20)
	require.NoError(t, err)
	require.Equal(t, existing, code)
}

func TestEnsureReferralCode_GeneratesAndStores(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, referral_code FROM users WHERE id = $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"name", "referral_code"}).AddRow("Arjun", nil))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET referral_code = $1 WHERE id = $2 AND referral_code IS NULL")).
		WithArgs(sqlmock.AnyArg(), 20).
		WillReturnResult(sqlmock.NewResult(0, 1))

	code, err := repo.EnsureReferralCode(context.Background(), 20)
	require.NoError(t, err)
	require.Equal(t, "JJARJ", code[:5])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardReferralBonus(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta(selectWalletQuery + " FOR UPDATE")).
		WithArgs(11).
		WillReturnRows(walletRows(4, 11, 20, 20, 0, nil))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs(220, 220, 0, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_transactions")).
		WithArgs(4, ReferralBonus, KindEarned, SourceBonus, sqlmock.AnyArg(), nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET referral_count = referral_count + 1 WHERE id = $1")).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	err := repo.AwardReferralBonus(context.Background(), 11, "friend@example.com")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
