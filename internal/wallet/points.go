package wallet

// Points business rules. Fixed process-wide constants, not persisted config.
const (
	SignupBonus    = 20
	DailyGameBonus = 10
	ReferralBonus  = 200

	// PointValue is how many rupees of discount one point buys.
	PointValue = 1

	// MaxDiscountPercent caps the redeemable discount per order.
	MaxDiscountPercent = 50
)

// Config is the points configuration echoed to clients.
type Config struct {
	SignupBonus        int `json:"signup_bonus"`
	DailyGameBonus     int `json:"daily_game_bonus"`
	ReferralBonus      int `json:"referral_bonus"`
	PointValue         int `json:"point_value"`
	MaxDiscountPercent int `json:"max_discount_percent"`
}

func PointsConfig() Config {
	return Config{
		SignupBonus:        SignupBonus,
		DailyGameBonus:     DailyGameBonus,
		ReferralBonus:      ReferralBonus,
		PointValue:         PointValue,
		MaxDiscountPercent: MaxDiscountPercent,
	}
}

// MaxRedeemable returns how many points may actually be spent on an order:
// never more than requested, never more than the balance, and never more
// than half the order total.
func MaxRedeemable(requested, balance, totalAmount int64) int64 {
	limit := totalAmount * MaxDiscountPercent / 100
	if requested < limit {
		limit = requested
	}
	if balance < limit {
		limit = balance
	}
	if limit < 0 {
		return 0
	}
	return limit
}

// PointsEarned is the purchase reward: 1% of the paid amount, floored.
func PointsEarned(finalAmount int64) int64 {
	if finalAmount < 0 {
		return 0
	}
	return finalAmount / 100
}

// Quote is the read-only discount projection for a candidate cart amount.
type Quote struct {
	CurrentPoints   int64 `json:"current_points"`
	MaxPointsUsable int64 `json:"max_points_usable"`
	DiscountAmount  int64 `json:"discount_amount"`
	FinalAmount     int64 `json:"final_amount"`
}

// QuoteDiscount computes the best possible discount for the given balance
// and cart amount. Pure function, no mutation.
func QuoteDiscount(balance, amount int64) Quote {
	usable := MaxRedeemable(balance, balance, amount)
	return Quote{
		CurrentPoints:   balance,
		MaxPointsUsable: usable,
		DiscountAmount:  usable * PointValue,
		FinalAmount:     amount - usable*PointValue,
	}
}
