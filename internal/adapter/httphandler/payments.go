package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

// POST v1/payments/events JSON gateway webhook
// (200 OK with {"status":"ok"|"order_not_found"}, 400, 401, 500)

type PaymentsHandler struct {
	reconciler port.TransactionReconciler
}

func RegisterPayments(
	mux *http.ServeMux, reconciler port.TransactionReconciler,
) {
	h := PaymentsHandler{reconciler}
	mux.HandleFunc("POST /v1/payments/events", h.PostEvent)
}

func (h PaymentsHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "PaymentsHandler.PostEvent"
	log := slog.With("op", op)

	var evt WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	// Non-transaction events carry no transaction payload and are
	// acknowledged before the structural check.
	if evt.Event != domain.EventTransactionUpdated {
		log.Info("ignoring event", "event", evt.Event)
		writeJSON(w, http.StatusOK, WebhookResponse{Status: "ok"})
		return
	}

	if evt.Data.Transaction == nil {
		http.Error(
			w, "invalid payload: transaction data missing",
			http.StatusBadRequest,
		)
		log.Warn("transaction data missing", "event", evt.Event)
		return
	}

	outcome, err := h.reconciler.ReconcileTransaction(
		r.Context(), toDomainEvent(evt),
	)
	if err != nil {
		writeDomainErr(w, err)
		log.Error("failed to reconcile transaction", "err", err)
		return
	}

	switch outcome {
	case domain.ReconcileOrderNotFound:
		writeJSON(w, http.StatusOK, WebhookResponse{Status: "order_not_found"})
	default:
		writeJSON(w, http.StatusOK, WebhookResponse{Status: "ok"})
	}
}

func toDomainEvent(evt WebhookEvent) domain.TransactionEvent {
	txn := evt.Data.Transaction
	return domain.TransactionEvent{
		Event:         evt.Event,
		TransactionID: txn.ID,
		Status:        txn.Status,
		Reference:     txn.Reference,
		AmountInCents: txn.AmountInCents,
		Currency:      txn.Currency,
		Timestamp:     evt.Timestamp,
		Checksum:      evt.Signature.Checksum,
		Environment:   evt.Environment,
	}
}
