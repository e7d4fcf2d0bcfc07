package wallet

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/auth"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// GetWallet godoc
// @Summary      Wallet summary
// @Description  Returns the current balance, lifetime counters and referral stats.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Summary
// @Failure      401 {object} api.ErrorResponse
// @Router       /wallet [get]
func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	summary, err := h.repo.GetSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":        summary,
		"points_config": PointsConfig(),
	})
}

// History godoc
// @Summary      Points history
// @Description  Returns up to 100 most recent ledger entries, newest first.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Entry
// @Router       /wallet/history [get]
func (h *Handler) History(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.repo.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load points history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// DailyGameBonus godoc
// @Summary      Claim the daily game bonus
// @Description  Awards 10 points, at most once per calendar day.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /wallet/daily-game-bonus [post]
func (h *Handler) DailyGameBonus(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	w, err := h.repo.ClaimDailyBonus(c.Request.Context(), userID, time.Now())
	if err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			metrics.RecordDailyBonusClaim("already_claimed")
			c.JSON(http.StatusOK, gin.H{
				"already_claimed": true,
				"message":         "Daily game bonus already claimed today! Play again tomorrow.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to award daily game bonus"})
		return
	}

	metrics.RecordDailyBonusClaim("awarded")
	metrics.RecordPointsEarned(SourceGamePlay, DailyGameBonus)

	c.JSON(http.StatusOK, gin.H{
		"points_earned":  DailyGameBonus,
		"current_points": w.Balance,
	})
}

// Discount godoc
// @Summary      Discount quote
// @Description  Read-only projection of redeemable points for a cart amount.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        amount query int true "Cart amount"
// @Success      200 {object} Quote
// @Failure      400 {object} api.ErrorResponse
// @Router       /wallet/discount [get]
func (h *Handler) Discount(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative integer"})
		return
	}

	w, err := h.repo.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, QuoteDiscount(w.Balance, amount))
}

// ReferralCode godoc
// @Summary      Referral code
// @Description  Returns the caller's referral code, generating one on first request.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /wallet/referral-code [get]
func (h *Handler) ReferralCode(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	code, err := h.repo.EnsureReferralCode(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load referral code"})
		return
	}

	summary, err := h.repo.GetSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code":  code,
		"referral_count": summary.ReferralCount,
		"referral_bonus": ReferralBonus,
	})
}

// GameActivity godoc
// @Summary      Record game activity
// @Description  Adds played minutes to the account's running total. No points are awarded.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        request body GameActivityRequest true "Activity"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Router       /wallet/game-activity [post]
func (h *Handler) GameActivity(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req GameActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id and a positive minutes value are required"})
		return
	}

	total, err := h.repo.RecordGameActivity(c.Request.Context(), userID, req.GameID, req.Minutes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record game activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Game activity recorded",
		"total_time_spent": total,
	})
}
