package wallet

import (
	"context"
	"time"
)

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	GetSummary(ctx context.Context, userID int) (*Summary, error)

	// Apply settles one balance change: it locks the wallet row, mutates the
	// balance and counters, and appends the matching ledger entry, all in a
	// single transaction. Positive amounts earn, negative amounts redeem.
	Apply(ctx context.Context, userID int, amount int64, source, description string, meta *EntryMeta) (*Wallet, error)

	ClaimDailyBonus(ctx context.Context, userID int, now time.Time) (*Wallet, error)
	History(ctx context.Context, userID, limit int) ([]Entry, error)
	RecordGameActivity(ctx context.Context, userID, gameID, minutes int) (int, error)
	EnsureReferralCode(ctx context.Context, userID int) (string, error)
	AwardReferralBonus(ctx context.Context, referrerID int, referredEmail string) error
}
