package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyClaimed      = errors.New("daily bonus already claimed today")
	ErrNoReferralCode      = errors.New("could not generate a unique referral code")
)

const historyLimit = 100

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const walletColumns = `id, user_id, balance, total_earned, total_redeemed, last_daily_bonus_at, total_time_minutes, created_at, updated_at`

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING `+walletColumns,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) GetSummary(ctx context.Context, userID int) (*Summary, error) {
	w, err := r.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ref struct {
		ReferralCode  *string `db:"referral_code"`
		ReferralCount int     `db:"referral_count"`
	}
	err = r.db.GetContext(ctx, &ref,
		`SELECT referral_code, referral_count FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		CurrentPoints:  w.Balance,
		TotalEarned:    w.TotalEarned,
		TotalRedeemed:  w.TotalRedeemed,
		TotalTimeSpent: w.TotalTimeMinutes,
		ReferralCode:   ref.ReferralCode,
		ReferralCount:  ref.ReferralCount,
	}, nil
}

// lockWallet loads the wallet row FOR UPDATE, creating it first if the user
// has never touched their wallet.
func lockWallet(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`,
		userID,
	).StructScan(w)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING `+walletColumns,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// ApplyTx settles one balance change inside a caller-owned transaction: the
// wallet row is locked, the balance and earned/redeemed counters move
// together, and a matching ledger entry is inserted. Callers compose this
// with their own writes (order creation, cart clearing) to keep the whole
// settlement atomic.
func ApplyTx(ctx context.Context, tx *sqlx.Tx, userID int, amount int64, source, description string, meta *EntryMeta) (*Wallet, error) {
	w, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	newBalance := w.Balance + amount
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	kind := KindEarned
	if amount < 0 {
		kind = KindRedeemed
		w.TotalRedeemed += -amount
	} else {
		w.TotalEarned += amount
	}
	w.Balance = newBalance

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = $1, total_earned = $2, total_redeemed = $3, updated_at = NOW()
		 WHERE id = $4`,
		w.Balance, w.TotalEarned, w.TotalRedeemed, w.ID,
	)
	if err != nil {
		return nil, err
	}

	if meta == nil {
		meta = &EntryMeta{}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO point_transactions (wallet_id, amount, kind, source, description, game_id, game_minutes, order_id, discount_amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		w.ID, amount, kind, source, description,
		meta.GameID, meta.GameMinutes, meta.OrderID, meta.DiscountAmount,
	)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) Apply(ctx context.Context, userID int, amount int64, source, description string, meta *EntryMeta) (*Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := ApplyTx(ctx, tx, userID, amount, source, description, meta)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func (r *repository) ClaimDailyBonus(ctx context.Context, userID int, now time.Time) (*Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if w.LastDailyBonusAt != nil && sameCalendarDay(*w.LastDailyBonusAt, now) {
		return nil, ErrAlreadyClaimed
	}

	w, err = ApplyTx(ctx, tx, userID, DailyGameBonus, SourceGamePlay,
		"Daily game play bonus - Thank you for playing!", nil)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET last_daily_bonus_at = $1 WHERE id = $2`,
		now, w.ID,
	)
	if err != nil {
		return nil, err
	}
	w.LastDailyBonusAt = &now

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) History(ctx context.Context, userID, limit int) ([]Entry, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Entry{}, nil
		}
		return nil, err
	}

	var entries []Entry
	err = r.db.SelectContext(ctx, &entries, `
		SELECT id, wallet_id, amount, kind, source, description, game_id, game_minutes, order_id, discount_amount, created_at
		FROM point_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, walletID, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *repository) RecordGameActivity(ctx context.Context, userID, gameID, minutes int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	w, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	total := w.TotalTimeMinutes + minutes
	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET total_time_minutes = $1, updated_at = NOW() WHERE id = $2`,
		total, w.ID,
	)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO game_sessions (user_id, game_id, minutes) VALUES ($1, $2, $3)`,
		userID, gameID, minutes,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

const referralAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateReferralCode builds a candidate code: JJ + first three letters of
// the name + six random base36 characters. Uniqueness is enforced by the
// caller against the unique index on users.referral_code.
func GenerateReferralCode(name string) string {
	prefix := "USR"
	trimmed := strings.ToUpper(strings.TrimSpace(name))
	if len(trimmed) >= 3 {
		prefix = trimmed[:3]
	} else if trimmed != "" {
		prefix = trimmed
	}

	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = referralAlphabet[rand.Intn(len(referralAlphabet))]
	}

	return "JJ" + prefix + string(suffix)
}

func (r *repository) EnsureReferralCode(ctx context.Context, userID int) (string, error) {
	var row struct {
		Name         string  `db:"name"`
		ReferralCode *string `db:"referral_code"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT name, referral_code FROM users WHERE id = $1`, userID)
	if err != nil {
		return "", err
	}
	if row.ReferralCode != nil && *row.ReferralCode != "" {
		return *row.ReferralCode, nil
	}

	// Retry until the code clears the unique index.
	for attempt := 0; attempt < 5; attempt++ {
		code := GenerateReferralCode(row.Name)

		var exists bool
		err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)`, code)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		res, err := r.db.ExecContext(ctx,
			`UPDATE users SET referral_code = $1 WHERE id = $2 AND referral_code IS NULL`,
			code, userID)
		if err != nil {
			// Unique violation from a concurrent writer; try another code.
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Someone else assigned a code between our read and write.
			return r.EnsureReferralCode(ctx, userID)
		}
		return code, nil
	}

	return "", ErrNoReferralCode
}

func (r *repository) AwardReferralBonus(ctx context.Context, referrerID int, referredEmail string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	desc := fmt.Sprintf("Referral bonus - %s joined with your code", referredEmail)
	if _, err := ApplyTx(ctx, tx, referrerID, ReferralBonus, SourceBonus, desc, nil); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET referral_count = referral_count + 1 WHERE id = $1`,
		referrerID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
