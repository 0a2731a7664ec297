package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anyidea-app/anyidea/internal/middleware"
	"github.com/anyidea-app/anyidea/internal/models"
	"github.com/anyidea-app/anyidea/internal/services"
)

type HistoryHandler struct {
	history services.HistoryServiceInterface
}

func NewHistoryHandler(history services.HistoryServiceInterface) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type HistoryResponse struct {
	History []models.SuggestionLog `json:"history"`
}

type SelectActivityRequest struct {
	SuggestionItemID *uuid.UUID      `json:"suggestion_item_id,omitempty"`
	ActivityTitle    string          `json:"activity_title"`
	ActivityType     string          `json:"activity_type"`
	ActivityCost     decimal.Decimal `json:"activity_cost"`
	ActivityTime     int             `json:"activity_time"`
}

type CompleteActivityRequest struct {
	Rating   *int    `json:"rating,omitempty"`
	Feedback *string `json:"feedback,omitempty"`
}

type ActivityResponse struct {
	Message  string                  `json:"message,omitempty"`
	Activity *models.ActivityHistory `json:"activity"`
}

func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	logs, err := h.history.RecentLogs(r.Context(), middleware.SessionID(r.Context()), limit)
	if err != nil {
		log.Printf("Error listing suggestion history: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{History: logs})
}

func (h *HistoryHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.history.Select(r.Context(), models.SelectActivityParams{
		SessionID:        middleware.SessionID(r.Context()),
		SuggestionItemID: req.SuggestionItemID,
		ActivityTitle:    req.ActivityTitle,
		ActivityType:     req.ActivityType,
		ActivityCost:     req.ActivityCost,
		ActivityTime:     req.ActivityTime,
	})
	if errors.Is(err, services.ErrInvalidActivity) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		log.Printf("Error selecting activity: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, ActivityResponse{Message: "Activity selected", Activity: entry})
}

func (h *HistoryHandler) Complete(w http.ResponseWriter, r *http.Request) {
	historyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid history ID")
		return
	}

	var req CompleteActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.history.Complete(r.Context(), middleware.SessionID(r.Context()), historyID, models.CompleteActivityParams{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if errors.Is(err, services.ErrInvalidRating) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if errors.Is(err, services.ErrHistoryNotFound) {
		writeError(w, http.StatusNotFound, "History entry not found")
		return
	}
	if err != nil {
		log.Printf("Error completing activity: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ActivityResponse{Message: "Activity completed", Activity: entry})
}
