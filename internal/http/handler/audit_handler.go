package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler exposes the request audit trail
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Most recent mutating requests first
// @Tags Audit
// @Produce json
// @Param limit query int false "Maximum entries (default 100, max 500)"
// @Param user_id query string false "Filter by user ID"
// @Param method query string false "Filter by HTTP method"
// @Param path query string false "Filter by path substring"
// @Param start_time query string false "Entries at or after this time (RFC3339)"
// @Param end_time query string false "Entries at or before this time (RFC3339)"
// @Success 200 {array} domain.AuditLogDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit_logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	filter := &repository.AuditLogFilter{
		UserID:   strings.TrimSpace(q.Get("user_id")),
		Method:   strings.ToUpper(strings.TrimSpace(q.Get("method"))),
		PathLike: strings.TrimSpace(q.Get("path")),
	}
	for name, dst := range map[string]**time.Time{"start_time": &filter.StartTime, "end_time": &filter.EndTime} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid "+name+": must be RFC3339")
			return
		}
		*dst = &t
	}

	logs, err := h.auditService.List(r.Context(), filter, limit)
	if err != nil {
		handleError(w, h.logger, err, "list audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
