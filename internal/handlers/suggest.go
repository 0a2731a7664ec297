package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/anyidea-app/anyidea/internal/middleware"
	"github.com/anyidea-app/anyidea/internal/models"
	"github.com/anyidea-app/anyidea/internal/services"
)

type SuggestHandler struct {
	suggest services.SuggestServiceInterface
}

func NewSuggestHandler(suggest services.SuggestServiceInterface) *SuggestHandler {
	return &SuggestHandler{suggest: suggest}
}

// SuggestResponse is the pipeline result plus the session echo.
type SuggestResponse struct {
	*services.SuggestResult
	SessionID string `json:"session_id"`
}

func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	result, err := h.suggest.Run(r.Context(), sessionID, &req)

	var invalid *services.ValidationError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusUnprocessableEntity, invalid.Error())
		return
	}
	if err != nil {
		log.Printf("Error running suggestion pipeline: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, SuggestResponse{SuggestResult: result, SessionID: sessionID})
}
