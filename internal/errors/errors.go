package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyAuth              = errors.New("missing authorization")
	ErrEmptySubject           = errors.New("missing subject")
	ErrTokenInvalid           = errors.New("invalid token")
	ErrUserNotFound           = errors.New("user not found")
	ErrPasswordMismatch       = errors.New("password mismatch")
	ErrEmailAlreadyRegistered = errors.New("email is already registered")

	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrCheckoutConflict = errors.New("checkout aborted after retrying under contention")
)

// OutOfStockError reports which products could not cover the requested
// quantity so the client can adjust the cart instead of blindly retrying.
type OutOfStockError struct {
	ProductIds []uuid.UUID
}

func (e OutOfStockError) Error() string {
	ids := make([]string, len(e.ProductIds))
	for i, id := range e.ProductIds {
		ids[i] = id.String()
	}
	return fmt.Sprintf("insufficient stock for productIds=[%s]", strings.Join(ids, ","))
}

func (e OutOfStockError) Unwrap() error {
	return ErrOutOfStock
}
