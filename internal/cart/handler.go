package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/auth"

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

// GetCart godoc
// @Summary      Get the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.repo.GetItems(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}

	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":        items,
		"total_amount": total,
	})
}

// AddItem godoc
// @Summary      Add a game to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AddItemRequest true "Item"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /cart [post]
func (h *Handler) AddItem(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id and a positive quantity are required"})
		return
	}

	if err := h.repo.AddItem(c.Request.Context(), userID, req.GameID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item added to cart"})
}

// UpdateItem godoc
// @Summary      Change the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gameID path int true "Game ID"
// @Param        request body UpdateItemRequest true "New quantity"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cart/{gameID} [put]
func (h *Handler) UpdateItem(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	gameID, err := strconv.Atoi(c.Param("gameID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	err = h.repo.UpdateQuantity(c.Request.Context(), userID, gameID, req.Quantity)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

// RemoveItem godoc
// @Summary      Remove a game from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        gameID path int true "Game ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cart/{gameID} [delete]
func (h *Handler) RemoveItem(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	gameID, err := strconv.Atoi(c.Param("gameID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	err = h.repo.RemoveItem(c.Request.Context(), userID, gameID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

// ClearCart godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.MessageResponse
// @Router       /cart [delete]
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.repo.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
