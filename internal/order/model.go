package order

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"

	StatusProcessing = "processing"
	StatusConfirmed  = "confirmed"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order is one purchase. All amounts are whole rupees; the points columns
// mirror what settlement wrote to the wallet ledger for this order.
type Order struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	OrderNumber   string    `db:"order_number" json:"order_number"`
	TotalAmount   int64     `db:"total_amount" json:"total_amount"`
	Discount      int64     `db:"discount" json:"discount"`
	PointsUsed    int64     `db:"points_used" json:"points_used"`
	FinalAmount   int64     `db:"final_amount" json:"final_amount"`
	PointsEarned  int64     `db:"points_earned" json:"points_earned"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	OrderStatus   string    `db:"order_status" json:"order_status"`
	ShipName      string    `db:"ship_name" json:"ship_name"`
	ShipPhone     string    `db:"ship_phone" json:"ship_phone"`
	ShipLine1     string    `db:"ship_line1" json:"ship_line1"`
	ShipCity      string    `db:"ship_city" json:"ship_city"`
	ShipState     string    `db:"ship_state" json:"ship_state"`
	ShipPincode   string    `db:"ship_pincode" json:"ship_pincode"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Items []Item `db:"-" json:"items"`
}

// Item is a snapshot of the catalog line at purchase time.
type Item struct {
	ID       int    `db:"id" json:"id"`
	OrderID  int    `db:"order_id" json:"order_id"`
	GameID   int    `db:"game_id" json:"game_id"`
	Title    string `db:"title" json:"title"`
	Price    int64  `db:"price" json:"price"`
	Image    string `db:"image" json:"image"`
	Quantity int    `db:"quantity" json:"quantity"`
}

type CheckoutItem struct {
	GameID   int `json:"game_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type ShippingAddress struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Line1   string `json:"line1" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem  `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string          `json:"payment_method" binding:"required,oneof=card upi netbanking cod"`
	PointsUsed      int64           `json:"points_used" binding:"gte=0"`
}

// CreateParams is everything the repository persists in one transaction.
type CreateParams struct {
	UserID        int
	OrderNumber   string
	Items         []Item
	TotalAmount   int64
	Discount      int64
	PointsUsed    int64
	FinalAmount   int64
	PointsEarned  int64
	PaymentMethod string
	Shipping      ShippingAddress
}

type CheckoutResponse struct {
	Message      string `json:"message"`
	Order        *Order `json:"order"`
	PointsEarned int64  `json:"points_earned"`
}
