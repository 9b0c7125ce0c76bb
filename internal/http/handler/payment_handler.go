package handler

import (
	"net/http"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Record payment
// @Description Appends a payment and re-derives the order's payment status under a row lock.
// @Description Not idempotent: posting the same payload twice records two payments.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body domain.CreatePaymentRequest true "Payment"
// @Success 200 {object} domain.PaymentResultDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /add_payment [post]
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.paymentService.AddPayment(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "record payment")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param client_id query string false "Client ID"
// @Param order_id query string false "Order ID"
// @Success 200 {array} domain.PaymentListItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /payments [get]
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.PaymentFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("client_id")); raw != "" {
		id, ok := parseID(w, raw, "client_id")
		if !ok {
			return
		}
		filter.ClientID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("order_id")); raw != "" {
		id, ok := parseID(w, raw, "order_id")
		if !ok {
			return
		}
		filter.OrderID = &id
	}

	payments, err := h.paymentService.List(r.Context(), filter)
	if err != nil {
		handleError(w, h.logger, err, "list payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
