// Package port declares the interfaces the cart consumes from the catalog
// and order sides. The cart owns these contracts; the implementations are
// wired in at startup.
package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CatalogProduct is the read model the cart needs from the catalog.
type CatalogProduct struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	Quantity int32
	Category string
}

// StockDecrement is a single stock reservation requested at checkout.
type StockDecrement struct {
	ProductID uuid.UUID
	Quantity  int32
}

// FrozenItem carries the unit price read under lock during checkout so the
// order records the price at purchase time.
type FrozenItem struct {
	ProductID uuid.UUID
	Quantity  int32
	Price     decimal.Decimal
}

// CatalogStore exposes the catalog operations the cart depends on.
// DecrementStock runs inside the caller's transaction and either applies
// every decrement or returns an error without applying any.
type CatalogStore interface {
	FindProductById(c context.Context, id uuid.UUID) (CatalogProduct, error)
	DecrementStock(c context.Context, tx pgx.Tx, items []StockDecrement) ([]FrozenItem, error)
}

// OrderMaterializer persists an order from frozen checkout items inside the
// caller's transaction and returns the new order id.
type OrderMaterializer interface {
	CreateOrder(c context.Context, tx pgx.Tx, userId uuid.UUID, items []FrozenItem) (uuid.UUID, error)
}
