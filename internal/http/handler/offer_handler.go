package handler

import (
	"net/http"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OfferHandler struct {
	offerService *service.OfferService
	logger       *zap.Logger
}

func NewOfferHandler(offerService *service.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Create offer
// @Description Inserts the offer and every product line in one transaction.
// @Description Product rows are positional: [produs, brand, cod_produs, cantitate, pret_unitar, pret_total, discount, pret_cu_discount].
// @Tags Offers
// @Accept json
// @Produce json
// @Param request body domain.CreateOfferRequest true "Offer with categories"
// @Success 200 {object} domain.CreateOfferResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /add_offer [post]
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOfferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.offerService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "create offer")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListByClient godoc
// @Summary List a client's offers
// @Tags Offers
// @Produce json
// @Param client_id query string true "Client ID"
// @Param vehicle_id query string false "Vehicle ID"
// @Success 200 {array} domain.OfferDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /offers [get]
func (h *OfferHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requiredQueryID(w, r, "client_id")
	if !ok {
		return
	}

	var vehicleID *uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("vehicle_id")); raw != "" {
		id, ok := parseID(w, raw, "vehicle_id")
		if !ok {
			return
		}
		vehicleID = &id
	}

	offers, err := h.offerService.ListByClient(r.Context(), clientID, vehicleID)
	if err != nil {
		handleError(w, h.logger, err, "list offers")
		return
	}
	respondJSON(w, http.StatusOK, offers)
}

// GetByNumber godoc
// @Summary Get offer
// @Tags Offers
// @Produce json
// @Param offer_number path string true "Offer number, e.g. O12"
// @Success 200 {object} domain.OfferDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /offers/{offer_number} [get]
func (h *OfferHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offerService.GetByNumber(r.Context(), chi.URLParam(r, "offer_number"))
	if err != nil {
		handleError(w, h.logger, err, "get offer")
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

// Update godoc
// @Summary Update offer
// @Description Non-empty categories replace every line of the offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param offer_number path string true "Offer number"
// @Param request body domain.UpdateOfferRequest true "Fields to change"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /offers/{offer_number} [patch]
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOfferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.offerService.Update(r.Context(), chi.URLParam(r, "offer_number"), &req)
	if err != nil {
		handleError(w, h.logger, err, "update offer")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary Change offer status
// @Tags Offers
// @Accept json
// @Produce json
// @Param request body domain.UpdateOfferStatusRequest true "Offer number and new status"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /update_offer_status [post]
func (h *OfferHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOfferStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.offerService.UpdateStatus(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "update offer status")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// HighestNumber godoc
// @Summary Highest offer number
// @Tags Offers
// @Produce json
// @Success 200 {object} domain.HighestOfferNumberDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /highest_offer_number [get]
func (h *OfferHandler) HighestNumber(w http.ResponseWriter, r *http.Request) {
	resp, err := h.offerService.HighestOfferNumber(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "get highest offer number")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
