package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/wibowo/storefront/internal/errors"
	"github.com/wibowo/storefront/internal/log"
	inOtel "github.com/wibowo/storefront/internal/otel"
	"github.com/wibowo/storefront/internal/repository"
	"github.com/wibowo/storefront/product/cache"
	"github.com/wibowo/storefront/product/otel"
	"github.com/wibowo/storefront/product/pkg/request"
	"github.com/wibowo/storefront/product/pkg/response"
)

type ProductService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(queries *repository.Queries, cache *redis.Client) ProductService {
	return ProductService{queries: queries, cache: cache}
}

func (s ProductService) InsertProduct(
	c context.Context,
	param request.InsertProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str(log.KeyCategory, param.Category).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	product, err := s.queries.InsertProduct(c, repository.InsertProductParams{
		ID:          uuid.New(),
		Name:        param.Name,
		Description: pgtype.Text{String: param.Description, Valid: true},
		Price:       repository.NumericFromDecimal(param.Price),
		Quantity:    param.Quantity,
		ImageUrl:    pgtype.Text{String: param.ImageUrl, Valid: true},
		Category:    param.Category,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(log.KeyProductID, product.ID.String()).Logger()
	logger.Info().Msg("inserted product")

	return product.Response(), nil
}

func (s ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyProcess, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	products, err := s.queries.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d products", len(products))

	responses := make([]response.Product, len(products))
	for i, product := range products {
		responses[i] = product.Response()
	}
	return responses, nil
}

func (s ProductService) FindProductById(
	c context.Context,
	id uuid.UUID,
) (product response.Product, err error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCTS, id.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, id.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Info().Msg("finding product in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding product in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding product in db").Logger()
		logger.Info().Msg("finding product in db")
		row, err := s.queries.FindProductById(c, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = inErrors.ErrProductNotFound
			}
			err = fmt.Errorf("failed finding product in db with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		logger.Info().Msg("found product in db")

		product := row.Response()

		logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
		logger.Info().Msg("inserting product to cache")
		jsonProduct, err := json.Marshal(product)
		if err != nil {
			err = fmt.Errorf("failed marshaling product with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		err = s.cache.Set(c, cacheKey, jsonProduct, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting product to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		logger.Info().Msg("inserted product to cache")

		return product, nil
	}
	logger.Info().Msg("found product in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cache").Logger()
	err = json.Unmarshal([]byte(jsonString), &product)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	return product, nil
}

// SearchProducts filters by name substring and exact category. Empty fields
// match everything.
func (s ProductService) SearchProducts(
	c context.Context,
	param request.SearchProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService SearchProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService SearchProducts").
		Str(log.KeyCategory, param.Category).
		Str(log.KeyProcess, "searching products").
		Logger()

	logger.Info().Msg("searching products")
	products, err := s.queries.SearchProducts(
		c,
		repository.SearchProductsParams{Name: param.Name, Category: param.Category},
	)
	if err != nil {
		err = fmt.Errorf("failed searching products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d products", len(products))

	responses := make([]response.Product, len(products))
	for i, product := range products {
		responses[i] = product.Response()
	}
	return responses, nil
}

func (s ProductService) FindCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindCategories").
		Str(log.KeyProcess, "finding categories").
		Logger()

	logger.Info().Msg("finding categories")
	categories, err := s.queries.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d categories", len(categories))

	return categories, nil
}

func (s ProductService) UpdateProduct(
	c context.Context,
	id uuid.UUID,
	param request.UpdateProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService UpdateProduct").
		Str(log.KeyProductID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "updating product").Logger()
	logger.Info().Msg("updating product")
	product, err := s.queries.UpdateProduct(c, repository.UpdateProductParams{
		ID:          id,
		Name:        param.Name,
		Description: pgtype.Text{String: param.Description, Valid: true},
		Price:       repository.NumericFromDecimal(param.Price),
		Quantity:    param.Quantity,
		ImageUrl:    pgtype.Text{String: param.ImageUrl, Valid: true},
		Category:    param.Category,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed updating product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("updated product")

	if err := s.invalidateProductCache(c, id); err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}

	return product.Response(), nil
}

func (s ProductService) DeleteProduct(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService DeleteProduct").
		Str(log.KeyProductID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting product").Logger()
	logger.Info().Msg("deleting product")
	_, err := s.queries.DeleteProduct(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed deleting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted product")

	if err := s.invalidateProductCache(c, id); err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}

	return nil
}

func (s ProductService) invalidateProductCache(c context.Context, id uuid.UUID) error {
	cacheKey := fmt.Sprintf(cache.KEY_PRODUCTS, id.String())
	err := s.cache.Del(c, cacheKey).Err()
	if err != nil {
		return fmt.Errorf("failed deleting cacheKey=%s with error=%w", cacheKey, err)
	}
	return nil
}
