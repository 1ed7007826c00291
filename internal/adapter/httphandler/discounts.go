package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

// POST v1/discounts JSON (201 Created, 400, 409)
// PATCH v1/discounts/{id} JSON (200 OK, 404, 409)
// DELETE v1/discounts/{id} (204 No content, 404)

type DiscountsHandler struct {
	manager port.DiscountManager
}

func RegisterDiscounts(mux *http.ServeMux, manager port.DiscountManager) {
	h := DiscountsHandler{manager}
	mux.HandleFunc("POST /v1/discounts", h.PostDiscount)
	mux.HandleFunc("PATCH /v1/discounts/{id}", h.PatchDiscount)
	mux.HandleFunc("DELETE /v1/discounts/{id}", h.DeleteDiscount)
}

func (h DiscountsHandler) PostDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "DiscountsHandler.PostDiscount"
	log := slog.With("op", op)

	var req DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	d, err := h.toDomain(req, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid discount payload", "err", err)
		return
	}

	created, err := h.manager.CreateDiscount(r.Context(), d)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to create discount", "err", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDiscountDTO(created))
}

func (h DiscountsHandler) PatchDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "DiscountsHandler.PatchDiscount"
	log := slog.With("op", op)

	var req DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	d, err := h.toDomain(req, r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid discount payload", "err", err)
		return
	}

	updated, err := h.manager.UpdateDiscount(r.Context(), d)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to update discount", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, toDiscountDTO(updated))
}

func (h DiscountsHandler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "DiscountsHandler.DeleteDiscount"
	log := slog.With("op", op)

	err := h.manager.DeleteDiscount(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to delete discount", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (DiscountsHandler) toDomain(
	req DiscountRequest, discountID string,
) (domain.Discount, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return domain.Discount{}, err
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return domain.Discount{}, err
	}

	return domain.Discount{
		DiscountID:    discountID,
		Kind:          domain.DiscountKind(req.Kind),
		Value:         req.Value,
		Code:          req.Code,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Active:        req.IsActive,
		ProductIDs:    req.ProductIDs,
		CollectionIDs: req.CollectionIDs,
	}, nil
}

func toDiscountDTO(d domain.Discount) Discount {
	return Discount{
		ID:            d.DiscountID,
		Kind:          string(d.Kind),
		Value:         d.Value,
		Code:          d.Code,
		StartDate:     d.StartsAt.Format(time.RFC3339),
		EndDate:       d.EndsAt.Format(time.RFC3339),
		IsActive:      d.Active,
		ProductIDs:    d.ProductIDs,
		CollectionIDs: d.CollectionIDs,
	}
}
