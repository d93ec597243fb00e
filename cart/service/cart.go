package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wibowo/storefront/cart/cache"
	"github.com/wibowo/storefront/cart/otel"
	"github.com/wibowo/storefront/cart/pkg/port"
	"github.com/wibowo/storefront/cart/pkg/request"
	"github.com/wibowo/storefront/cart/pkg/response"
	"github.com/wibowo/storefront/internal/constants"
	inErrors "github.com/wibowo/storefront/internal/errors"
	"github.com/wibowo/storefront/internal/log"
	inOtel "github.com/wibowo/storefront/internal/otel"
	"github.com/wibowo/storefront/internal/repository"
)

const (
	checkoutTimeout     = 10 * time.Second
	checkoutMaxAttempts = 3
)

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
	catalog port.CatalogStore
	orders  port.OrderMaterializer
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	catalog port.CatalogStore,
	orders port.OrderMaterializer,
) CartService {
	return CartService{pool: pool, queries: queries, cache: cache, catalog: catalog, orders: orders}
}

// FindCartByUserId returns the user's cart, creating an empty one on first
// access.
func (s CartService) FindCartByUserId(
	c context.Context,
	userId uuid.UUID,
) (cart response.Cart, err error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartByUserId")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_CARTS, userId.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCartByUserId").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	logger.Info().Msg("finding cart in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding cart in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding cart in db").Logger()
		logger.Info().Msg("finding cart in db")
		c = logger.WithContext(c)
		cart, err := s.findCartFromDb(c, userId)
		if err != nil {
			err = fmt.Errorf("failed finding cart in db with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("found cart in db")

		logger = logger.With().Str(log.KeyProcess, "inserting cart to cache").Logger()
		logger.Info().Msg("inserting cart to cache")
		jsonCart, err := json.Marshal(cart)
		if err != nil {
			err = fmt.Errorf("failed marshaling cart with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		err = s.cache.Set(c, cacheKey, jsonCart, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting cart to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("inserted cart to cache")

		return cart, nil
	}
	logger.Info().Msg("found cart in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cache").Logger()
	logger.Info().Msg("unmarshaling cache")
	err = json.Unmarshal([]byte(jsonString), &cart)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("unmarshaled cache")

	return cart, nil
}

func (s CartService) findCartFromDb(
	c context.Context,
	userId uuid.UUID,
) (response.Cart, error) {
	cart, err := s.queries.UpsertCart(
		c,
		repository.UpsertCartParams{ID: uuid.New(), UserID: userId},
	)
	if err != nil {
		return response.Cart{}, fmt.Errorf("failed upserting cart with error=%w", err)
	}
	items, err := s.queries.FindCartItems(c, cart.ID)
	if err != nil {
		return response.Cart{}, fmt.Errorf("failed finding cartItems with error=%w", err)
	}
	return cart.Response(items), nil
}

// AddCartItem looks the product up in the catalog before adding it. Adding a
// product that is already in the cart sums the quantities into one row. Stock
// is not reserved here, only verified to exist at checkout time.
func (s CartService) AddCartItem(
	c context.Context,
	userId uuid.UUID,
	param request.AddCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddCartItem").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, param.ProductId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity <= 0 {
		err := fmt.Errorf(
			"failed adding cartItem with quantity=%d with error=%w",
			param.Quantity,
			inErrors.ErrInvalidQuantity,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in catalog").Logger()
	logger.Info().Msg("finding product in catalog")
	c = logger.WithContext(c)
	product, err := s.catalog.FindProductById(c, param.ProductId)
	if err != nil {
		err = fmt.Errorf(
			"failed finding productId=%s with error=%w",
			param.ProductId.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Any(log.KeyProduct, product).Logger()
	logger.Info().Msg("found product in catalog")

	logger = logger.With().Str(log.KeyProcess, "upserting cart").Logger()
	logger.Info().Msg("upserting cart")
	cart, err := s.queries.UpsertCart(
		c,
		repository.UpsertCartParams{ID: uuid.New(), UserID: userId},
	)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(log.KeyProcess, "upserting cartItem").Logger()
	logger.Info().Msg("upserting cartItem")
	item, err := s.queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: param.ProductId,
		Quantity:  param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cartItem with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Int32(log.KeyQuantity, item.Quantity).Logger()
	logger.Info().Msg("upserted cartItem")

	return s.refreshCart(c, span, cart)
}

// UpdateCartItem replaces the item quantity. A quantity of zero or less
// removes the item and is idempotent.
func (s CartService) UpdateCartItem(
	c context.Context,
	userId uuid.UUID,
	param request.UpdateCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateCartItem").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, param.ProductId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := s.queries.FindCartByUserId(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	if param.Quantity <= 0 {
		logger = logger.With().Str(log.KeyProcess, "deleting cartItem").Logger()
		logger.Info().Msg("deleting cartItem")
		_, err = s.queries.DeleteCartItem(
			c,
			repository.DeleteCartItemParams{CartID: cart.ID, ProductID: param.ProductId},
		)
		if err != nil {
			err = fmt.Errorf("failed deleting cartItem with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("deleted cartItem")
		return s.refreshCart(c, span, cart)
	}

	logger = logger.With().Str(log.KeyProcess, "updating cartItem quantity").Logger()
	logger.Info().Msg("updating cartItem quantity")
	affected, err := s.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		CartID:    cart.ID,
		ProductID: param.ProductId,
		Quantity:  param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed updating cartItem quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if affected == 0 {
		err = fmt.Errorf(
			"failed updating productId=%s with error=%w",
			param.ProductId.String(),
			inErrors.ErrCartItemNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("updated cartItem quantity")

	return s.refreshCart(c, span, cart)
}

func (s CartService) RemoveCartItem(
	c context.Context,
	userId uuid.UUID,
	param request.RemoveCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveCartItem").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProductID, param.ProductId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := s.queries.FindCartByUserId(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "deleting cartItem").Logger()
	logger.Info().Msg("deleting cartItem")
	affected, err := s.queries.DeleteCartItem(
		c,
		repository.DeleteCartItemParams{CartID: cart.ID, ProductID: param.ProductId},
	)
	if err != nil {
		err = fmt.Errorf("failed deleting cartItem with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if affected == 0 {
		err = fmt.Errorf(
			"failed deleting productId=%s with error=%w",
			param.ProductId.String(),
			inErrors.ErrCartItemNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted cartItem")

	return s.refreshCart(c, span, cart)
}

func (s CartService) ClearCart(c context.Context, userId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := s.queries.FindCartByUserId(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("cart does not exist, nothing to clear")
			return nil
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "deleting cartItems").Logger()
	logger.Info().Msg("deleting cartItems")
	err = s.queries.DeleteCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting cartItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted cartItems")

	return s.invalidateCartCache(c, span, cart.UserID)
}

// CartTotal prices the cart against the catalog at call time. The cart keeps
// no price of its own, so the total always reflects the current catalog.
func (s CartService) CartTotal(
	c context.Context,
	userId uuid.UUID,
) (response.CartTotal, error) {
	c, span := otel.Tracer.Start(c, "CartService CartTotal")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService CartTotal").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := s.queries.FindCartByUserId(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartTotal{}, err
	}
	items, err := s.queries.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cartItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartTotal{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "computing total").Logger()
	logger.Info().Msg("computing total")
	c = logger.WithContext(c)
	total := decimal.Zero
	for _, item := range items {
		product, err := s.catalog.FindProductById(c, item.ProductID)
		if err != nil {
			err = fmt.Errorf(
				"failed finding productId=%s with error=%w",
				item.ProductID.String(),
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.CartTotal{}, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	logger = logger.With().Str(log.KeyTotal, total.String()).Logger()
	logger.Info().Msg("computed total")

	return response.CartTotal{CartID: cart.ID, Total: total}, nil
}

// Checkout turns the cart into an order in a single transaction: stock is
// decremented for every item or none, prices read under lock are frozen into
// the order, and the cart is emptied. Serialization and deadlock failures are
// retried before giving up with ErrCheckoutConflict.
func (s CartService) Checkout(
	c context.Context,
	userId uuid.UUID,
) (response.Checkout, error) {
	requestId := log.RequestIDFromContext(c)
	attrs := trace.WithAttributes(
		attribute.String(log.KeyRequestID, requestId),
		attribute.String(log.KeyUserID, userId.String()),
	)
	c, span := otel.Tracer.Start(c, "CartService Checkout", attrs)
	defer span.End()

	c, cancel := context.WithTimeout(c, checkoutTimeout)
	defer cancel()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Str(log.KeyUserID, userId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	span.AddEvent("finding cart")
	cart, err := s.queries.FindCartByUserId(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrEmptyCart
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	items, err := s.queries.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cartItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if len(items) == 0 {
		err = fmt.Errorf("failed checking out with error=%w", inErrors.ErrEmptyCart)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	span.AddEvent("found cart")
	logger.Info().Msg("found cart")

	decrements := make([]port.StockDecrement, len(items))
	for i, item := range items {
		decrements[i] = port.StockDecrement{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	var orderId uuid.UUID
	var frozen []port.FrozenItem
	for attempt := 1; attempt <= checkoutMaxAttempts; attempt++ {
		lg := logger.With().
			Str(log.KeyProcess, "checking out cart").
			Int(log.KeyAttempt, attempt).
			Logger()
		lg.Info().Msg("checking out cart")
		span.AddEvent(fmt.Sprintf("checkout attempt=%d", attempt))
		c = lg.WithContext(c)
		orderId, frozen, err = s.checkoutOnce(c, cart, decrements)
		if err == nil {
			break
		}
		if isRetryableTxError(err) && attempt < checkoutMaxAttempts {
			lg.Warn().Err(err).Msgf("retrying checkout after attempt=%d", attempt)
			continue
		}
		if isRetryableTxError(err) || errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf(
				"failed checking out after attempt=%d with error=%w",
				attempt,
				errors.Join(err, inErrors.ErrCheckoutConflict),
			)
		} else {
			err = fmt.Errorf("failed checking out with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, orderId.String()).Logger()
	span.AddEvent("checked out cart")
	logger.Info().Msg("checked out cart")

	total := decimal.Zero
	for _, item := range frozen {
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	logger = logger.With().Str(log.KeyTotal, total.String()).Logger()

	if err := s.invalidateCartCache(c, span, cart.UserID); err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(log.KeyProcess, "publishing order created event").Logger()
	logger.Info().Msg("publishing order created event")
	event := response.OrderCreated{OrderId: orderId, UserId: userId, Total: total}
	payload, err := json.Marshal(event)
	if err != nil {
		err = fmt.Errorf("failed marshaling order created event with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else if err := s.cache.Publish(c, constants.ChannelOrderCreated, payload).Err(); err != nil {
		// the order is already committed, so a failed publish is only logged
		err = fmt.Errorf("failed publishing order created event with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("published order created event")
	}

	return response.Checkout{OrderId: orderId, CartId: cart.ID, Total: total}, nil
}

func (s CartService) checkoutOnce(
	c context.Context,
	cart repository.Cart,
	decrements []port.StockDecrement,
) (uuid.UUID, []port.FrozenItem, error) {
	c, span := otel.Tracer.Start(c, "CartService checkoutOnce")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService checkoutOnce").
		Str(log.KeyCartID, cart.ID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, nil, err
	}
	logger.Info().Msg("initialized transaction")
	defer func(lg zerolog.Logger) {
		err := tx.Rollback(c)
		if err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			lg.Error().Err(err).Msg(err.Error())
			return
		}
		lg.Info().Msg("rolled back transaction")
	}(logger)

	logger = logger.With().Str(log.KeyProcess, "decrementing stock").Logger()
	logger.Info().Msg("decrementing stock")
	c = logger.WithContext(c)
	frozen, err := s.catalog.DecrementStock(c, tx, decrements)
	if err != nil {
		err = fmt.Errorf("failed decrementing stock with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, nil, err
	}
	logger.Info().Msg("decremented stock")

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Info().Msg("creating order")
	c = logger.WithContext(c)
	orderId, err := s.orders.CreateOrder(c, tx, cart.UserID, frozen)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, nil, err
	}
	logger = logger.With().Str(log.KeyOrderID, orderId.String()).Logger()
	logger.Info().Msg("created order")

	logger = logger.With().Str(log.KeyProcess, "deleting cartItems").Logger()
	logger.Info().Msg("deleting cartItems")
	err = s.queries.WithTx(tx).DeleteCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting cartItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, nil, err
	}
	logger.Info().Msg("deleted cartItems")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, nil, err
	}
	logger.Info().Msg("committed transaction")

	return orderId, frozen, nil
}

func (s CartService) refreshCart(
	c context.Context,
	span trace.Span,
	cart repository.Cart,
) (response.Cart, error) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "refreshing cart").Logger()

	if err := s.invalidateCartCache(c, span, cart.UserID); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	items, err := s.queries.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cartItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	return cart.Response(items), nil
}

func (s CartService) invalidateCartCache(
	c context.Context,
	span trace.Span,
	userId uuid.UUID,
) error {
	cacheKey := fmt.Sprintf(cache.KEY_CARTS, userId.String())
	err := s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cacheKey=%s with error=%w", cacheKey, err)
		inOtel.RecordError(err, span)
		return err
	}
	return nil
}

// isRetryableTxError reports whether the transaction failed with a
// serialization failure (40001) or deadlock (40P01), both of which are safe
// to retry from the beginning.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
