package request

import (
	"github.com/shopspring/decimal"
)

type InsertProduct struct {
	Name        string          `validate:"required"       json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `validate:"required"       json:"price"`
	Quantity    int32           `validate:"gte=0"          json:"quantity"`
	ImageUrl    string          `json:"image_url"`
	Category    string          `validate:"required"       json:"category"`
}

type UpdateProduct struct {
	Name        string          `validate:"required"       json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `validate:"required"       json:"price"`
	Quantity    int32           `validate:"gte=0"          json:"quantity"`
	ImageUrl    string          `json:"image_url"`
	Category    string          `validate:"required"       json:"category"`
}

type SearchProducts struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}
