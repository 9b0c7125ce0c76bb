package handler

import (
	"net/http"
	"strings"

	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
	logger        *zap.Logger
}

func NewSearchHandler(searchService *service.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search godoc
// @Summary Universal search
// @Description Substring search within one category: clients, vehicles, offers, orders, order_products or offer_products
// @Tags Search
// @Produce json
// @Param query query string true "Search term"
// @Param category query string true "Category" Enums(clients, vehicles, offers, orders, order_products, offer_products)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(10)
// @Success 200 {array} object
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /search_universal [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if query == "" || category == "" {
		respondWithError(w, http.StatusBadRequest, "Query and category are required")
		return
	}
	page, perPage := pageParams(r, 1, 10)

	results, err := h.searchService.Search(r.Context(), query, category, page, perPage)
	if err != nil {
		handleError(w, h.logger, err, "search")
		return
	}
	respondJSON(w, http.StatusOK, results)
}
