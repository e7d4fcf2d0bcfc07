package address

import "time"

type Address struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Line1     string    `db:"line1" json:"line1"`
	Line2     *string   `db:"line2" json:"line2,omitempty"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Pincode   string    `db:"pincode" json:"pincode"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type SaveRequest struct {
	Name      string  `json:"name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	Line1     string  `json:"line1" binding:"required"`
	Line2     *string `json:"line2"`
	City      string  `json:"city" binding:"required"`
	State     string  `json:"state" binding:"required"`
	Pincode   string  `json:"pincode" binding:"required,len=6,numeric"`
	IsDefault bool    `json:"is_default"`
}
