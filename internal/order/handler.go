package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/auth"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/email"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/game"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/user"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	return &Handler{
		service: NewService(
			NewRepository(db),
			game.NewRepository(db),
			wallet.NewRepository(db),
			user.NewRepository(db),
			emailService,
		),
	}
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Re-prices the items from the catalog, settles points (redeem + earn) and clears the cart atomically.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CheckoutRequest true "Checkout data"
// @Success      201 {object} CheckoutResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.service.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, game.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{
		Message:      "Order placed successfully",
		Order:        o,
		PointsEarned: o.PointsEarned,
	})
}

// ListOrders godoc
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Order
// @Router       /orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	orders, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder godoc
// @Summary      Get one of my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderID path int true "Order ID"
// @Success      200 {object} Order
// @Failure      404 {object} api.ErrorResponse
// @Router       /orders/{orderID} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	orderID, err := strconv.Atoi(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}
