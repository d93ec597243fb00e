package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wibowo/storefront/cart/pkg/response"
	"github.com/wibowo/storefront/internal/config"
	"github.com/wibowo/storefront/internal/constants"
	"github.com/wibowo/storefront/internal/infra"
	"github.com/wibowo/storefront/internal/log"
	inOtel "github.com/wibowo/storefront/internal/otel"
)

// RunNotification consumes order confirmations published at checkout and
// logs them. Delivery channels like email would hang off this loop.
func RunNotification(c context.Context) {
	c, span := inOtel.Tracer.Start(c, "RunNotification")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppNotification).
		Str(log.KeyTag, "main RunNotification").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppNotification)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := inOtel.InitOtelSdk(c, constants.AppNotification, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := inOtel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().
		Str(log.KeyProcess, "subscribing to channel").
		Str(log.KeyChannel, constants.ChannelOrderCreated).
		Logger()
	logger.Info().Msg("subscribing to channel")
	subscriber := cache.Subscribe(c, constants.ChannelOrderCreated)
	defer func() {
		if err := subscriber.Close(); err != nil {
			err = fmt.Errorf("failed closing subscriber with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	logger.Info().Msg("subscribed to channel")

	logger = logger.With().Str(log.KeyProcess, "consuming order created events").Logger()
	messages := subscriber.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("received interuption signal shutting down")
			return
		case message, ok := <-messages:
			if !ok {
				logger.Info().Msg("subscription channel closed")
				return
			}
			event := response.OrderCreated{}
			if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
				err = fmt.Errorf("failed unmarshaling event with error=%w", err)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				continue
			}
			logger.Info().
				Str(log.KeyOrderID, event.OrderId.String()).
				Str(log.KeyUserID, event.UserId.String()).
				Str(log.KeyTotal, event.Total.String()).
				Msgf(
					"orderId=%s confirmed for userId=%s with total=%s",
					event.OrderId.String(),
					event.UserId.String(),
					event.Total.String(),
				)
		}
	}
}
