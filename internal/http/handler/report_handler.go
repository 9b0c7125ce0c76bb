package handler

import (
	"net/http"

	"github.com/autoshop/shop-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ClientTotals godoc
// @Summary Client totals
// @Description Spent, still owed, refunded and order count for one client
// @Tags Reports
// @Produce json
// @Param client_id path string true "Client ID"
// @Success 200 {object} domain.ClientTotalsDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /totals/{client_id} [get]
func (h *ReportHandler) ClientTotals(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, chi.URLParam(r, "client_id"), "client_id")
	if !ok {
		return
	}

	totals, err := h.reportService.ClientTotals(r.Context(), clientID)
	if err != nil {
		handleError(w, h.logger, err, "compute client totals")
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// SalesReport godoc
// @Summary Sales by locality
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.SalesReportRowDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /sales_report [get]
func (h *ReportHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.SalesReport(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "build sales report")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// TopClients godoc
// @Summary Top clients
// @Tags Reports
// @Produce json
// @Param sort_by query string false "Nr. Comenzi sorts by order count, anything else by total spent"
// @Success 200 {array} domain.TopClientDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /top_clients [get]
func (h *ReportHandler) TopClients(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.TopClients(r.Context(), r.URL.Query().Get("sort_by"))
	if err != nil {
		handleError(w, h.logger, err, "build top clients report")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// Debts godoc
// @Summary Outstanding debts
// @Description Clients with unpaid or partially paid orders, largest debt first
// @Tags Reports
// @Produce json
// @Success 200 {array} domain.DebtDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /debts [get]
func (h *ReportHandler) Debts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.Debts(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "build debts report")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
