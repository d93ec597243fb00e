package http

import (
	"errors"
	"net/http"

	inErrors "github.com/wibowo/storefront/internal/errors"
)

// StatusCodeFromError maps domain errors to HTTP status codes so controllers
// answer consistently across the API.
func StatusCodeFromError(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrProductNotFound),
		errors.Is(err, inErrors.ErrCartNotFound),
		errors.Is(err, inErrors.ErrCartItemNotFound),
		errors.Is(err, inErrors.ErrOrderNotFound),
		errors.Is(err, inErrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrInvalidQuantity),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrOutOfStock),
		errors.Is(err, inErrors.ErrCheckoutConflict),
		errors.Is(err, inErrors.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrPasswordMismatch),
		errors.Is(err, inErrors.ErrTokenInvalid),
		errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrEmptySubject):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
