package request

import (
	"github.com/google/uuid"
)

type AddCartItem struct {
	ProductId uuid.UUID `validate:"required,uuid" json:"product_id"`
	Quantity  int32     `validate:"required"      json:"quantity"`
}

type UpdateCartItem struct {
	ProductId uuid.UUID `validate:"required,uuid" json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type RemoveCartItem struct {
	ProductId uuid.UUID `validate:"required,uuid" json:"product_id"`
}
