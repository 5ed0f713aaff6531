package handler

import (
	"net/http"

	"github.com/omcar04/clave-take-home/internal/models"
	"github.com/omcar04/clave-take-home/internal/store"
)

type HealthHandler struct {
	store   store.Store
	version string
}

func NewHealthHandler(st store.Store, version string) *HealthHandler {
	return &HealthHandler{store: st, version: version}
}

// Health reports liveness plus a database check. A failing database turns
// the status to degraded with a 503 so load balancers stop routing here.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Checks:  map[string]string{"database": "ok"},
	}
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Checks["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	models.WriteJSON(w, code, resp)
}
