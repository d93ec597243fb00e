package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/wibowo/storefront/internal/errors"
)

func TestStatusCodeFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{inErrors.ErrProductNotFound, http.StatusNotFound},
		{inErrors.ErrCartItemNotFound, http.StatusNotFound},
		{inErrors.ErrInvalidQuantity, http.StatusBadRequest},
		{inErrors.ErrEmptyCart, http.StatusBadRequest},
		{inErrors.ErrOutOfStock, http.StatusConflict},
		{inErrors.ErrCheckoutConflict, http.StatusConflict},
		{inErrors.ErrPasswordMismatch, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCodeFromError(tt.err), "error=%v", tt.err)
	}
}

func TestStatusCodeFromWrappedError(t *testing.T) {
	wrapped := fmt.Errorf(
		"failed checking out with error=%w",
		inErrors.OutOfStockError{ProductIds: []uuid.UUID{uuid.New()}},
	)
	assert.Equal(t, http.StatusConflict, StatusCodeFromError(wrapped))
}
