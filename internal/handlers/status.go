package handlers

import (
	"net/http"

	"github.com/anyidea-app/anyidea/internal/config"
)

// AIStatus is the subset of the AI collaborator the status endpoints report on.
type AIStatus interface {
	IsConfigured() bool
	Model() string
}

type StatusHandler struct {
	weather      ConfiguredChecker
	ai           AIStatus
	integrations config.IntegrationsConfig
}

func NewStatusHandler(weather ConfiguredChecker, ai AIStatus, integrations config.IntegrationsConfig) *StatusHandler {
	return &StatusHandler{weather: weather, ai: ai, integrations: integrations}
}

type RootResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

type LocationStatusResponse struct {
	Status            string          `json:"status"`
	Services          map[string]bool `json:"services"`
	WeatherConfigured bool            `json:"weather_configured"`
	Message           string          `json:"message"`
}

type AIStatusResponse struct {
	Status               string `json:"status"`
	Model                string `json:"model"`
	OpenRouterConfigured bool   `json:"openrouter_configured"`
	Message              string `json:"message"`
}

func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: "Welcome to AnyIdea? API",
		Version: "1.0.0",
		Status:  "running",
		Endpoints: []string{
			"/api/suggest",
			"/api/activities",
			"/api/activities/custom",
			"/api/activities/popular",
			"/api/history",
			"/api/location",
			"/api/ai-suggest",
			"/health",
		},
	})
}

func (h *StatusHandler) Location(w http.ResponseWriter, r *http.Request) {
	weatherConfigured := h.weather.IsConfigured()
	writeJSON(w, http.StatusOK, LocationStatusResponse{
		Status: "available",
		Services: map[string]bool{
			"weather": weatherConfigured,
			"places":  h.integrations.PlacesAPIKey != "",
			"yelp":    h.integrations.YelpAPIKey != "",
		},
		WeatherConfigured: weatherConfigured,
		Message:           "Location services ready",
	})
}

func (h *StatusHandler) AISuggest(w http.ResponseWriter, r *http.Request) {
	configured := h.ai.IsConfigured()

	response := AIStatusResponse{
		Status:               "available",
		Model:                h.ai.Model(),
		OpenRouterConfigured: configured,
		Message:              "AI suggestion service ready",
	}
	if !configured {
		response.Status = "not_configured"
		response.Message = "OpenRouter API key not configured"
	}

	writeJSON(w, http.StatusOK, response)
}
