package handler

import (
	"net/http"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

type ReturnHandler struct {
	returnService *service.ReturnService
	logger        *zap.Logger
}

func NewReturnHandler(returnService *service.ReturnService, logger *zap.Logger) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
		logger:        logger,
	}
}

// ReturnableItems godoc
// @Summary List returnable lines
// @Description Every line of the order with eligible_qty = sold - returned
// @Tags Returns
// @Produce json
// @Param order_id query string true "Order ID"
// @Success 200 {array} domain.ReturnableItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /returnable_items [get]
func (h *ReturnHandler) ReturnableItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := requiredQueryID(w, r, "order_id")
	if !ok {
		return
	}

	items, err := h.returnService.ReturnableItems(r.Context(), orderID)
	if err != nil {
		handleError(w, h.logger, err, "list returnable items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Create godoc
// @Summary Record return
// @Description Refund is qty x unit price x (1 - discount/100). Returning more than is eligible is refused.
// @Tags Returns
// @Accept json
// @Produce json
// @Param request body domain.CreateReturnRequest true "Return"
// @Success 200 {object} domain.ReturnResultDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /add_return [post]
func (h *ReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReturnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.returnService.AddReturn(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "record return")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
