package cart

import "time"

type Item struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	GameID    int       `db:"game_id" json:"game_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ItemWithGame joins the catalog fields the storefront renders.
type ItemWithGame struct {
	Item
	Title string `db:"title" json:"title"`
	Price int64  `db:"price" json:"price"`
	Image string `db:"image" json:"image"`
}

type AddItemRequest struct {
	GameID   int `json:"game_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
