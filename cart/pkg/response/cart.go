package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CartItems []CartItem `json:"cart_items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID `json:"id"`
	CartID    uuid.UUID `json:"cart_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartTotal struct {
	CartID uuid.UUID       `json:"cart_id"`
	Total  decimal.Decimal `json:"total"`
}

type Checkout struct {
	OrderId uuid.UUID       `json:"order_id"`
	CartId  uuid.UUID       `json:"cart_id"`
	Total   decimal.Decimal `json:"total"`
}

// OrderCreated is the payload published after a successful checkout.
type OrderCreated struct {
	OrderId uuid.UUID       `json:"order_id"`
	UserId  uuid.UUID       `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
}
