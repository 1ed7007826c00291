package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.TransactionReconciler = (*PaymentsService)(nil)

// PaymentsService reconciles order status against gateway transaction
// events. Delivery is at-least-once and may arrive out of order, so
// every transition is guarded by the current status: re-delivering an
// already-applied event is a no-op and never restores stock twice.
type PaymentsService struct {
	orders port.OrderStorage
	events port.OrderEventsProducer
	secret string
}

func NewPaymentsService(
	orders port.OrderStorage,
	events port.OrderEventsProducer,
	secret string,
) PaymentsService {
	return PaymentsService{orders, events, secret}
}

func (s PaymentsService) ReconcileTransaction(
	ctx context.Context, evt domain.TransactionEvent,
) (domain.ReconcileOutcome, error) {
	const op = "PaymentsService.ReconcileTransaction"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if evt.Event != domain.EventTransactionUpdated {
		log.Info("ignoring event", "event", evt.Event)
		return domain.ReconcileIgnored, nil
	}

	if evt.TransactionID == "" || evt.Status == "" {
		return "", fmt.Errorf(
			"%s: %w: transaction data missing", op, domain.ErrInvalidPayload,
		)
	}

	if err := evt.VerifyChecksum(s.secret); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orders.OrderByPaymentRef(
		ctx, evt.Reference, evt.TransactionID,
	)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			log.Warn("order not found for transaction",
				"reference", evt.Reference,
				"transactionID", evt.TransactionID,
			)
			return domain.ReconcileOrderNotFound, nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("processing transaction",
		"transactionID", evt.TransactionID,
		"status", evt.Status,
		"orderID", order.OrderID,
	)

	switch evt.Status {
	case domain.TxnApproved:
		if err := s.approve(ctx, order, evt); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	case domain.TxnDeclined, domain.TxnVoided, domain.TxnError:
		if err := s.cancel(ctx, order, evt); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	default:
		log.Info("no transition for transaction status",
			"status", evt.Status, "orderID", order.OrderID)
	}

	return domain.ReconcileOK, nil
}

func (s PaymentsService) approve(
	ctx context.Context, order domain.Order, evt domain.TransactionEvent,
) error {
	const op = "PaymentsService.approve"
	log := slog.With("op", op)

	applied, err := s.orders.ApproveOrder(
		ctx, order.OrderID, evt.TransactionID,
	)
	if err != nil {
		return err
	}
	if !applied {
		log.Info("order is not pending, transition skipped",
			"orderID", order.OrderID, "status", order.Status)
		return nil
	}

	log.Info("order approved", "orderID", order.OrderID)
	s.notifyTransition(order, domain.OrderProcessing)
	return nil
}

func (s PaymentsService) cancel(
	ctx context.Context, order domain.Order, evt domain.TransactionEvent,
) error {
	const op = "PaymentsService.cancel"
	log := slog.With("op", op)

	applied, err := s.orders.CancelOrder(
		ctx, order.OrderID, evt.TransactionID,
	)
	if err != nil {
		return err
	}
	if !applied {
		log.Info("order already cancelled, transition skipped",
			"orderID", order.OrderID)
		return nil
	}

	log.Info("order cancelled, stock restored", "orderID", order.OrderID)
	s.notifyTransition(order, domain.OrderCancelled)
	return nil
}

func (s PaymentsService) notifyTransition(
	order domain.Order, status domain.OrderStatus,
) {
	notifyOrderEvent(s.events, domain.OrderEvent{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		Status:     status,
		Total:      order.Total,
		OccurredAt: time.Now(),
	})
}
