package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VehicleHandler struct {
	vehicleService  *service.VehicleService
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewVehicleHandler(vehicleService *service.VehicleService, documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *VehicleHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &VehicleHandler{
		vehicleService:  vehicleService,
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param request body domain.CreateVehicleRequest true "Vehicle data"
// @Success 200 {object} domain.VehicleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /add_vehicle [post]
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vehicle, err := h.vehicleService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "create vehicle")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

// ListByClient godoc
// @Summary List a client's vehicles
// @Tags Vehicles
// @Produce json
// @Param client_id query string true "Client ID"
// @Success 200 {array} domain.VehicleDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles [get]
func (h *VehicleHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requiredQueryID(w, r, "client_id")
	if !ok {
		return
	}

	vehicles, err := h.vehicleService.ListByClient(r.Context(), clientID)
	if err != nil {
		handleError(w, h.logger, err, "list vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// GetByID godoc
// @Summary Get vehicle
// @Tags Vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} domain.VehicleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "vehicle ID")
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "get vehicle")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

// Update godoc
// @Summary Update vehicle
// @Description marca, model, an, vin and numar_inmatriculare are all required
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body domain.UpdateVehicleRequest true "Vehicle data"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id} [patch]
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "vehicle ID")
	if !ok {
		return
	}

	var req domain.UpdateVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.vehicleService.Update(r.Context(), id, &req); err != nil {
		handleError(w, h.logger, err, "update vehicle")
		return
	}
	respondMessage(w, http.StatusOK, "Vehicle details updated successfully")
}

// Search godoc
// @Summary Search vehicles
// @Description Substring match over make, model, VIN and plate, with the owner's name
// @Tags Vehicles
// @Produce json
// @Param query query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 200)" default(10)
// @Success 200 {array} domain.VehicleSearchResultDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /search_vehicles [get]
func (h *VehicleHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r, 1, 10)

	vehicles, err := h.vehicleService.Search(r.Context(), r.URL.Query().Get("query"), page, perPage)
	if err != nil {
		handleError(w, h.logger, err, "search vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// Delete godoc
// @Summary Delete vehicle
// @Tags Vehicles
// @Produce json
// @Param vehicle_id query string true "Vehicle ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /delete_vehicle [delete]
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQueryID(w, r, "vehicle_id")
	if !ok {
		return
	}

	if err := h.vehicleService.Delete(r.Context(), id); err != nil {
		handleError(w, h.logger, err, "delete vehicle")
		return
	}
	respondMessage(w, http.StatusOK, "Vehicle deleted successfully")
}

// UploadDocument godoc
// @Summary Upload registration document
// @Description Stores the file and points the vehicle's image_url at it
// @Tags Vehicles
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param file formData file true "Document"
// @Success 200 {object} domain.VehicleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id}/document [post]
func (h *VehicleHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "vehicle ID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	vehicle, err := h.documentService.Upload(r.Context(), id, header.Filename, contentType, file)
	if err != nil {
		handleError(w, h.logger, err, "upload vehicle document")
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

// DownloadDocument godoc
// @Summary Download registration document
// @Tags Vehicles
// @Produce application/octet-stream
// @Param id path string true "Vehicle ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vehicles/{id}/document [get]
func (h *VehicleHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"), "vehicle ID")
	if !ok {
		return
	}

	doc, reader, err := h.documentService.Latest(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "download vehicle document")
		return
	}
	h.streamDocument(w, doc, reader)
}

// ServeFile godoc
// @Summary Serve a stored document
// @Description Resolves the links saved in a vehicle's image_url
// @Tags Vehicles
// @Produce application/octet-stream
// @Param path path string true "Storage path"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Router /files/{path} [get]
func (h *VehicleHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	doc, reader, err := h.documentService.Open(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		handleError(w, h.logger, err, "serve document")
		return
	}
	h.streamDocument(w, doc, reader)
}

func (h *VehicleHandler) streamDocument(w http.ResponseWriter, doc *domain.VehicleDocumentDTO, reader io.ReadCloser) {
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
	w.Header().Set("Content-Type", doc.ContentType)
	if doc.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	}
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("document stream interrupted", zap.String("document_id", doc.ID), zap.Error(err))
	}
}
