package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericFromDecimal(t *testing.T) {
	price := decimal.RequireFromString("19.99")

	numeric := NumericFromDecimal(price)

	assert.True(t, numeric.Valid)
	assert.Equal(t, int64(1999), numeric.Int.Int64())
	assert.Equal(t, int32(-2), numeric.Exp)
	assert.True(t, DecimalFromNumeric(numeric).Equal(price))
}

func TestDecimalFromNumericInvalid(t *testing.T) {
	assert.True(t, DecimalFromNumeric(pgtype.Numeric{}).IsZero())
	assert.True(t, DecimalFromNumeric(pgtype.Numeric{Valid: true}).IsZero())
}
