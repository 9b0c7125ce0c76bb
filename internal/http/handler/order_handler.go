package handler

import (
	"net/http"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Create order from offer
// @Description Copies one category of the offer into a new order, with an optional initial payment, in one transaction
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body domain.CreateOrderRequest true "Source offer and category"
// @Success 200 {object} domain.CreateOrderResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /add_order [post]
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.orderService.CreateFromOffer(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "create order")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListByClient godoc
// @Summary List a client's orders
// @Description Orders with lines, payments, total, paid and balance
// @Tags Orders
// @Produce json
// @Param client_id query string true "Client ID"
// @Success 200 {array} domain.OrderDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *OrderHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requiredQueryID(w, r, "client_id")
	if !ok {
		return
	}

	orders, err := h.orderService.ListByClient(r.Context(), clientID)
	if err != nil {
		handleError(w, h.logger, err, "list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetByNumber godoc
// @Summary Get order
// @Tags Orders
// @Produce json
// @Param order_number path string true "Order number, e.g. CMD7"
// @Success 200 {object} domain.OrderDetailDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{order_number} [get]
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetByNumber(r.Context(), chi.URLParam(r, "order_number"))
	if err != nil {
		handleError(w, h.logger, err, "get order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Update godoc
// @Summary Update order
// @Description A higher amount_paid records the difference as a payment; a lower one is refused
// @Tags Orders
// @Accept json
// @Produce json
// @Param order_number path string true "Order number"
// @Param request body domain.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} domain.OrderDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{order_number} [put]
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orderService.Update(r.Context(), chi.URLParam(r, "order_number"), &req)
	if err != nil {
		handleError(w, h.logger, err, "update order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// HighestNumber godoc
// @Summary Highest order number
// @Tags Orders
// @Produce json
// @Success 200 {object} domain.HighestOrderNumberDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /highest_order_number [get]
func (h *OrderHandler) HighestNumber(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orderService.HighestOrderNumber(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "get highest order number")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Products godoc
// @Summary List order lines
// @Tags Orders
// @Produce json
// @Param order_id query string true "Order ID"
// @Success 200 {array} domain.OrderProductDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /order_products [get]
func (h *OrderHandler) Products(w http.ResponseWriter, r *http.Request) {
	orderID, ok := requiredQueryID(w, r, "order_id")
	if !ok {
		return
	}

	lines, err := h.orderService.Products(r.Context(), orderID)
	if err != nil {
		handleError(w, h.logger, err, "list order products")
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

// ProductsByCode godoc
// @Summary Find order lines by product code
// @Tags Orders
// @Produce json
// @Param order_id query string true "Order ID"
// @Param cod_produs query string true "Exact product code"
// @Success 200 {array} domain.OrderProductDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /order_products/search [get]
func (h *OrderHandler) ProductsByCode(w http.ResponseWriter, r *http.Request) {
	orderID, ok := requiredQueryID(w, r, "order_id")
	if !ok {
		return
	}
	code, ok := requiredQuery(w, r, "cod_produs")
	if !ok {
		return
	}

	lines, err := h.orderService.ProductsByCode(r.Context(), orderID, code)
	if err != nil {
		handleError(w, h.logger, err, "search order products")
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

// ProductsByAny godoc
// @Summary Find order lines by name, brand or code
// @Tags Orders
// @Produce json
// @Param order_id query string true "Order ID"
// @Param term query string true "Exact name, brand or code"
// @Success 200 {array} domain.OrderProductDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /order_products/search_any [get]
func (h *OrderHandler) ProductsByAny(w http.ResponseWriter, r *http.Request) {
	orderID, ok := requiredQueryID(w, r, "order_id")
	if !ok {
		return
	}
	term, ok := requiredQuery(w, r, "term")
	if !ok {
		return
	}

	lines, err := h.orderService.ProductsByAny(r.Context(), orderID, term)
	if err != nil {
		handleError(w, h.logger, err, "search order products")
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

// ProductsGlobal godoc
// @Summary Find order lines across all orders
// @Description Hyphens in the term and in product codes are ignored
// @Tags Orders
// @Produce json
// @Param term query string true "Name, brand or code"
// @Success 200 {array} domain.ProductMatchDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /order_products/search_global [get]
func (h *OrderHandler) ProductsGlobal(w http.ResponseWriter, r *http.Request) {
	term, ok := requiredQuery(w, r, "term")
	if !ok {
		return
	}

	matches, err := h.orderService.ProductsGlobal(r.Context(), term)
	if err != nil {
		handleError(w, h.logger, err, "search order products")
		return
	}
	respondJSON(w, http.StatusOK, matches)
}
