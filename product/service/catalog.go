package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wibowo/storefront/cart/pkg/port"
	inErrors "github.com/wibowo/storefront/internal/errors"
	"github.com/wibowo/storefront/internal/log"
	inOtel "github.com/wibowo/storefront/internal/otel"
	"github.com/wibowo/storefront/internal/repository"
	"github.com/wibowo/storefront/product/otel"
)

// CatalogAdapter exposes the product service to the cart through
// port.CatalogStore.
type CatalogAdapter struct {
	service ProductService
	queries *repository.Queries
}

func NewCatalogAdapter(service ProductService, queries *repository.Queries) CatalogAdapter {
	return CatalogAdapter{service: service, queries: queries}
}

func (a CatalogAdapter) FindProductById(
	c context.Context,
	id uuid.UUID,
) (port.CatalogProduct, error) {
	product, err := a.service.FindProductById(c, id)
	if err != nil {
		return port.CatalogProduct{}, err
	}
	return port.CatalogProduct{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: product.Quantity,
		Category: product.Category,
	}, nil
}

// DecrementStock locks every requested product in id order, verifies each one
// can cover its requested quantity, then decrements them all. Locking in a
// stable order keeps concurrent checkouts from deadlocking each other. If any
// product falls short nothing is decremented and the shortfall ids are
// reported.
func (a CatalogAdapter) DecrementStock(
	c context.Context,
	tx pgx.Tx,
	items []port.StockDecrement,
) ([]port.FrozenItem, error) {
	c, span := otel.Tracer.Start(c, "CatalogAdapter DecrementStock")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogAdapter DecrementStock").
		Logger()

	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b port.StockDecrement) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	ids := make([]uuid.UUID, len(sorted))
	for i, item := range sorted {
		ids[i] = item.ProductID
	}

	qtx := a.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "locking products").Logger()
	logger.Info().Msgf("locking %d products", len(ids))
	products, err := qtx.FindProductsForUpdate(c, ids)
	if err != nil {
		err = fmt.Errorf("failed locking products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("locked %d products", len(products))

	byId := make(map[uuid.UUID]repository.Product, len(products))
	for _, product := range products {
		byId[product.ID] = product
	}

	logger = logger.With().Str(log.KeyProcess, "verifying stock").Logger()
	logger.Info().Msg("verifying stock")
	shortfall := []uuid.UUID{}
	for _, item := range sorted {
		product, ok := byId[item.ProductID]
		if !ok {
			err = fmt.Errorf(
				"failed finding productId=%s with error=%w",
				item.ProductID.String(),
				inErrors.ErrProductNotFound,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		if product.Quantity < item.Quantity {
			shortfall = append(shortfall, item.ProductID)
		}
	}
	if len(shortfall) > 0 {
		err = inErrors.OutOfStockError{ProductIds: shortfall}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("verified stock")

	logger = logger.With().Str(log.KeyProcess, "decrementing products").Logger()
	logger.Info().Msg("decrementing products")
	frozen := make([]port.FrozenItem, len(sorted))
	for i, item := range sorted {
		affected, err := qtx.DecrementProductQuantity(
			c,
			repository.DecrementProductQuantityParams{ID: item.ProductID, Quantity: item.Quantity},
		)
		if err != nil {
			err = fmt.Errorf(
				"failed decrementing productId=%s with error=%w",
				item.ProductID.String(),
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		if affected == 0 {
			err = inErrors.OutOfStockError{ProductIds: []uuid.UUID{item.ProductID}}
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		frozen[i] = port.FrozenItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     repository.DecimalFromNumeric(byId[item.ProductID].Price),
		}
	}
	logger.Info().Msg("decremented products")

	for _, item := range sorted {
		if err := a.service.invalidateProductCache(c, item.ProductID); err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
	}

	return frozen, nil
}
