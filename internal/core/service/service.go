package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
	"github.com/mfranco-dev/tienda/pkg/retry"
)

const (
	notifyTimeout  = 5 * time.Second
	notifyAttempts = 3
)

// notifyOrderEvent publishes an order notification fire-and-forget:
// a delivery failure is logged and never affects the committed
// transaction that triggered it.
func notifyOrderEvent(events port.OrderEventsProducer, evt domain.OrderEvent) {
	const op = "service.notifyOrderEvent"

	if events == nil {
		return
	}

	go func() {
		log := slog.With("op", op)

		ctx, cancel := context.WithTimeout(
			context.Background(), notifyTimeout,
		)
		defer cancel()

		err := retry.Do(ctx, retry.RetryConfig{MaxAttempts: notifyAttempts},
			func() error {
				return events.ProduceOrderEvent(ctx, evt)
			})
		if err != nil {
			log.Error("failed to produce order event",
				"orderID", evt.OrderID, "status", evt.Status, "err", err)
			return
		}
		log.Debug("order event produced",
			"orderID", evt.OrderID, "status", evt.Status)
	}()
}
