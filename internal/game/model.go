package game

import "time"

// Game is one catalog entry. Price is whole rupees and is the authoritative
// price used at checkout.
type Game struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Price     int64     `db:"price" json:"price"`
	Image     string    `db:"image" json:"image"`
	Genre     string    `db:"genre" json:"genre"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateGameRequest struct {
	Title string `json:"title" binding:"required"`
	Price int64  `json:"price" binding:"required,gt=0"`
	Image string `json:"image" binding:"required"`
	Genre string `json:"genre"`
}
