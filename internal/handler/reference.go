package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/omcar04/clave-take-home/internal/models"
	"github.com/omcar04/clave-take-home/internal/store"
)

// ReferenceHandler serves the reference data clients need before asking
// anything: the known locations and the date range with data.
type ReferenceHandler struct {
	store store.Store
}

func NewReferenceHandler(st store.Store) *ReferenceHandler {
	return &ReferenceHandler{store: st}
}

func (h *ReferenceHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.Locations(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list locations failed")
		models.WriteError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	models.WriteJSON(w, http.StatusOK, models.LocationsResponse{Locations: locations})
}

func (h *ReferenceHandler) DateRange(w http.ResponseWriter, r *http.Request) {
	min, max, err := h.store.DateRange(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("fetch date range failed")
		models.WriteError(w, http.StatusInternalServerError, "failed to fetch date range")
		return
	}
	models.WriteJSON(w, http.StatusOK, models.DateRangeResponse{MinDate: min, MaxDate: max})
}
