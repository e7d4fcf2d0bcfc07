package wallet

import "time"

// Wallet is the points account embedded alongside a user record. Balance and
// the earned/redeemed counters are whole points (1 point = ₹1 of discount).
type Wallet struct {
	ID               int        `db:"id" json:"id"`
	UserID           int        `db:"user_id" json:"user_id"`
	Balance          int64      `db:"balance" json:"balance"`
	TotalEarned      int64      `db:"total_earned" json:"total_earned"`
	TotalRedeemed    int64      `db:"total_redeemed" json:"total_redeemed"`
	LastDailyBonusAt *time.Time `db:"last_daily_bonus_at" json:"last_daily_bonus_at,omitempty"`
	TotalTimeMinutes int        `db:"total_time_minutes" json:"total_time_minutes"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	KindEarned   = "earned"
	KindRedeemed = "redeemed"

	SourceLogin              = "login"
	SourceGameTime           = "game_time"
	SourceGamePlay           = "game_play"
	SourcePurchase           = "purchase"
	SourceBonus              = "bonus"
	SourceDiscountRedemption = "discount_redemption"
)

// Entry is one immutable ledger record. Positive amounts are earned points,
// negative amounts are redeemed points. Entries are never updated or deleted.
type Entry struct {
	ID             int       `db:"id" json:"id"`
	WalletID       int       `db:"wallet_id" json:"wallet_id"`
	Amount         int64     `db:"amount" json:"amount"`
	Kind           string    `db:"kind" json:"kind"`
	Source         string    `db:"source" json:"source"`
	Description    string    `db:"description" json:"description"`
	GameID         *int      `db:"game_id" json:"game_id,omitempty"`
	GameMinutes    *int      `db:"game_minutes" json:"game_minutes,omitempty"`
	OrderID        *int      `db:"order_id" json:"order_id,omitempty"`
	DiscountAmount *int64    `db:"discount_amount" json:"discount_amount,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// EntryMeta carries the optional metadata columns for a ledger entry.
type EntryMeta struct {
	GameID         *int
	GameMinutes    *int
	OrderID        *int
	DiscountAmount *int64
}

// Summary is the wallet view returned by GET /wallet.
type Summary struct {
	CurrentPoints  int64   `json:"current_points"`
	TotalEarned    int64   `json:"total_earned"`
	TotalRedeemed  int64   `json:"total_redeemed"`
	TotalTimeSpent int     `json:"total_time_spent"`
	ReferralCode   *string `json:"referral_code"`
	ReferralCount  int     `json:"referral_count"`
}

type GameActivityRequest struct {
	GameID  int `json:"game_id" binding:"required"`
	Minutes int `json:"minutes" binding:"required,min=1"`
}
