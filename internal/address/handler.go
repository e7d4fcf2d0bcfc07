package address

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
	return &Handler{repo: NewRepository(db)}
}

// ListAddresses godoc
// @Summary      List my saved addresses
// @Tags         addresses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Address
// @Router       /addresses [get]
func (h *Handler) ListAddresses(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	addresses, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load addresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// CreateAddress godoc
// @Summary      Save a new address
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SaveRequest true "Address"
// @Success      201 {object} Address
// @Failure      400 {object} api.ErrorResponse
// @Router       /addresses [post]
func (h *Handler) CreateAddress(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.repo.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save address"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": a})
}

// UpdateAddress godoc
// @Summary      Update one of my addresses
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        addressID path int true "Address ID"
// @Param        request body SaveRequest true "Address"
// @Success      200 {object} Address
// @Failure      404 {object} api.ErrorResponse
// @Router       /addresses/{addressID} [put]
func (h *Handler) UpdateAddress(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	addressID, err := strconv.Atoi(c.Param("addressID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.repo.Update(c.Request.Context(), userID, addressID, req)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": a})
}

// DeleteAddress godoc
// @Summary      Delete one of my addresses
// @Tags         addresses
// @Produce      json
// @Security     BearerAuth
// @Param        addressID path int true "Address ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /addresses/{addressID} [delete]
func (h *Handler) DeleteAddress(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	addressID, err := strconv.Atoi(c.Param("addressID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), userID, addressID); err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}
