package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wibowo/storefront/cart/pkg/port"
	inErrors "github.com/wibowo/storefront/internal/errors"
	"github.com/wibowo/storefront/internal/log"
	inOtel "github.com/wibowo/storefront/internal/otel"
	"github.com/wibowo/storefront/internal/repository"
	"github.com/wibowo/storefront/order/otel"
	"github.com/wibowo/storefront/order/pkg/response"
)

// StatusCreated is the only status an order is born with. Fulfilment moves it
// forward elsewhere.
const StatusCreated = "CREATED"

type OrderService struct {
	queries *repository.Queries
}

func NewOrderService(queries *repository.Queries) OrderService {
	return OrderService{queries: queries}
}

// CreateOrder materializes an order from frozen checkout items inside the
// caller's transaction. It implements port.OrderMaterializer.
func (s OrderService) CreateOrder(
	c context.Context,
	tx pgx.Tx,
	userId uuid.UUID,
	items []port.FrozenItem,
) (uuid.UUID, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CreateOrder").
		Str(log.KeyUserID, userId.String()).
		Logger()

	qtx := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := qtx.InsertOrder(c, repository.InsertOrderParams{
		ID:     uuid.New(),
		UserID: userId,
		Status: StatusCreated,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "inserting orderItems").Logger()
	logger.Info().Msg("inserting orderItems")
	args := make([]repository.InsertOrderItemsParams, len(items))
	for i, item := range items {
		args[i] = repository.InsertOrderItemsParams{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     repository.NumericFromDecimal(item.Price),
		}
	}
	insertedCount, err := qtx.InsertOrderItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting orderItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Info().Msgf("inserted %d orderItems", insertedCount)

	return order.ID, nil
}

func (s OrderService) FindOrdersByUserId(
	c context.Context,
	userId uuid.UUID,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrdersByUserId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrdersByUserId").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	orders, err := s.queries.FindOrdersByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d orders", len(orders))

	responses := make([]response.Order, len(orders))
	for i, order := range orders {
		items, err := s.queries.FindOrderItems(c, order.ID)
		if err != nil {
			err = fmt.Errorf(
				"failed finding orderItems for orderId=%s with error=%w",
				order.ID.String(),
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		responses[i] = order.Response(items)
	}
	return responses, nil
}

func (s OrderService) FindOrderById(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyOrderID, orderId.String()).
		Str(log.KeyProcess, "finding order").
		Logger()

	logger.Info().Msg("finding order")
	order, err := s.queries.FindOrderById(
		c,
		repository.FindOrderByIdParams{ID: orderId, UserID: userId},
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	items, err := s.queries.FindOrderItems(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding orderItems with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	return order.Response(items), nil
}
