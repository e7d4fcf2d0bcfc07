package game

import (
	"errors"
	"net/http"
	"strconv"

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

// ListGames godoc
// @Summary      List the game catalog
// @Tags         games
// @Produce      json
// @Success      200 {array} Game
// @Router       /games [get]
func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}

	c.JSON(http.StatusOK, games)
}

// GetGame godoc
// @Summary      Get one game
// @Tags         games
// @Produce      json
// @Param        gameID path int true "Game ID"
// @Success      200 {object} Game
// @Failure      404 {object} api.ErrorResponse
// @Router       /games/{gameID} [get]
func (h *Handler) GetGame(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("gameID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	g, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}

	c.JSON(http.StatusOK, g)
}

// CreateGame godoc
// @Summary      Add a game to the catalog
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateGameRequest true "Game data"
// @Success      201 {object} Game
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.repo.Create(c.Request.Context(), req.Title, req.Price, req.Image, req.Genre)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, g)
}
