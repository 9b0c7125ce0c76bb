package handler

import (
	"net/http"

	"github.com/autoshop/shop-api/internal/geo"
	"github.com/go-chi/chi/v5"
)

// GeoHandler serves the county and locality lists used by the address forms
type GeoHandler struct {
	directory *geo.Directory
}

func NewGeoHandler(directory *geo.Directory) *GeoHandler {
	if directory == nil {
		directory = geo.New(nil)
	}
	return &GeoHandler{directory: directory}
}

// Counties godoc
// @Summary List counties
// @Tags Geo
// @Produce json
// @Success 200 {array} string
// @Router /get_judete [get]
func (h *GeoHandler) Counties(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.Counties())
}

// Localities godoc
// @Summary List a county's localities
// @Tags Geo
// @Produce json
// @Param judet path string true "County"
// @Success 200 {array} string
// @Router /get_localitati/{judet} [get]
func (h *GeoHandler) Localities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.Localities(chi.URLParam(r, "judet")))
}

// SearchLocalities godoc
// @Summary Search localities
// @Tags Geo
// @Produce json
// @Param query query string false "Case-insensitive substring"
// @Success 200 {array} domain.LocalityMatchDTO
// @Router /search_localitati [get]
func (h *GeoHandler) SearchLocalities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.SearchLocalities(r.URL.Query().Get("query")))
}

// SearchCounties godoc
// @Summary Search counties
// @Tags Geo
// @Produce json
// @Param query query string false "Case-insensitive substring"
// @Success 200 {array} string
// @Router /search_judete [get]
func (h *GeoHandler) SearchCounties(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.SearchCounties(r.URL.Query().Get("query")))
}
