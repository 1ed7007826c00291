package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

// POST v1/orders JSON (201 Created, 400, 404, 409)
// GET v1/orders?user_id= (200 OK)
// GET v1/orders/{id} (200 OK, 404 Not found)
// PATCH v1/orders/{id}/status JSON {"status"} (204 No content)

type OrdersHandler struct {
	placer   port.OrderPlacer
	provider port.OrderProvider
	updater  port.OrderStatusUpdater
}

func RegisterOrders(
	mux *http.ServeMux,
	placer port.OrderPlacer,
	provider port.OrderProvider,
	updater port.OrderStatusUpdater,
) {
	h := OrdersHandler{placer, provider, updater}
	mux.HandleFunc("POST /v1/orders", h.PostOrder)
	mux.HandleFunc("GET /v1/orders", h.GetOrders)
	mux.HandleFunc("GET /v1/orders/{id}", h.GetOrder)
	mux.HandleFunc("PATCH /v1/orders/{id}/status", h.PatchOrderStatus)
}

func (h OrdersHandler) PostOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PostOrder"
	log := slog.With("op", op)

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	order, err := h.placer.PlaceOrder(r.Context(), h.toDomain(req))
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to place order", "err", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDTO(order))
}

func (h OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrder"
	log := slog.With("op", op)

	order, err := h.provider.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to read order", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrders"
	log := slog.With("op", op)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query param is required", http.StatusBadRequest)
		return
	}

	orders, err := h.provider.UserOrders(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to read orders", "err", err)
		return
	}

	dtos := make([]Order, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h OrdersHandler) PatchOrderStatus(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PatchOrderStatus"
	log := slog.With("op", op)

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err := h.updater.UpdateOrderStatus(
		r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status),
	)
	if err != nil {
		writeDomainErr(w, err)
		log.Warn("failed to update order status", "err", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (OrdersHandler) toDomain(req CreateOrderRequest) domain.OrderRequest {
	dr := domain.OrderRequest{
		UserID:          req.UserID,
		ShippingAddress: toDomainAddress(req.ShippingAddress),
		PaymentID:       req.PaymentID,
	}
	for _, it := range req.Items {
		dr.Items = append(dr.Items, domain.OrderRequestItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return dr
}

func toDomainAddress(a Address) domain.Address {
	return domain.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		Country:    a.Country,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
	}
}

func toOrderDTO(o domain.Order) Order {
	dto := Order{
		ID:     o.OrderID,
		UserID: o.UserID,
		Total:  o.Total,
		Status: string(o.Status),
		PaymentID: o.PaymentID,
		ShippingAddress: Address{
			Line1:      o.ShippingAddress.Line1,
			Line2:      o.ShippingAddress.Line2,
			City:       o.ShippingAddress.City,
			Region:     o.ShippingAddress.Region,
			Country:    o.ShippingAddress.Country,
			PostalCode: o.ShippingAddress.PostalCode,
			Phone:      o.ShippingAddress.Phone,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, it := range o.Items {
		dto.Items = append(dto.Items, OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return dto
}
