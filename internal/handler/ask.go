// Package handler contains the HTTP-facing layer: request decoding,
// status code mapping, and nothing else.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/omcar04/clave-take-home/internal/executor"
	"github.com/omcar04/clave-take-home/internal/models"
	"github.com/omcar04/clave-take-home/internal/service"
)

// Asker is the single operation the ask handler needs from the service.
type Asker interface {
	Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error)
}

type AskHandler struct {
	svc Asker
}

func NewAskHandler(svc Asker) *AskHandler {
	return &AskHandler{svc: svc}
}

// Ask handles POST /ask. An out-of-range date is not an error from the
// caller's point of view: it comes back as a 200 clarification naming the
// available range, so the client can re-prompt the user.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.svc.Ask(r.Context(), req)
	if err != nil {
		h.writeAskError(w, req, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, resp)
}

func (h *AskHandler) writeAskError(w http.ResponseWriter, req models.AskRequest, err error) {
	if errors.Is(err, service.ErrEmptyQuery) {
		models.WriteError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	var scErr *executor.ScopeError
	if errors.As(err, &scErr) {
		models.WriteJSON(w, http.StatusOK, models.AskResponse{
			ClarifyQuestion: fmt.Sprintf(
				"I only have data from %s to %s, but the question asks about %s. Which date in that range should I use?",
				scErr.MinDate, scErr.MaxDate, scErr.Date),
			Widgets: []models.Widget{},
		})
		return
	}

	log.Error().Err(err).Str("query", req.Query).Msg("ask failed")
	models.WriteError(w, http.StatusInternalServerError, "failed to answer the question")
}
