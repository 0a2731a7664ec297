package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anyidea-app/anyidea/internal/logging"
	"github.com/anyidea-app/anyidea/internal/models"
	"github.com/anyidea-app/anyidea/internal/services/ai"
)

const (
	weatherTimeout = 3 * time.Second
	aiTimeout      = 10 * time.Second
	persistTimeout = 5 * time.Second

	// minSuggestions is the response size the pipeline fills toward when
	// the AI comes up short.
	minSuggestions = 3
)

var timeNow = time.Now

// ValidationError rejects a request before any side effect happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LookupStatus reports which collaborators answered for this request.
type LookupStatus struct {
	Weather bool `json:"weather"`
	AI      bool `json:"ai"`
}

// SuggestResult is the full pipeline output returned to the API layer.
type SuggestResult struct {
	RequestID        string                  `json:"request_id"`
	Suggestions      []models.Suggestion     `json:"suggestions"`
	TotalSuggestions int                     `json:"total_suggestions"`
	Source           string                  `json:"source"`
	Weather          *models.WeatherSnapshot `json:"weather,omitempty"`
	AIMetadata       *models.AIMetadata      `json:"ai_metadata,omitempty"`
	Lookups          LookupStatus            `json:"lookups"`
	Warnings         []string                `json:"warnings,omitempty"`
}

// SuggestService runs the suggestion pipeline: validate, enrich with
// weather, call the AI provider, fall back to rule-based suggestions, and
// log the outcome. Collaborator failures degrade the response instead of
// failing it.
type SuggestService struct {
	weather WeatherProvider
	ai      AIProvider
	rules   *RuleBasedGenerator
	history SuggestionLogger
}

func NewSuggestService(weatherProvider WeatherProvider, aiProvider AIProvider, rules *RuleBasedGenerator, history SuggestionLogger) *SuggestService {
	return &SuggestService{
		weather: weatherProvider,
		ai:      aiProvider,
		rules:   rules,
		history: history,
	}
}

// Run executes the pipeline for one request. It returns an error only for
// invalid input; collaborator and persistence failures surface through the
// result's source, lookups, and warnings fields.
func (s *SuggestService) Run(ctx context.Context, sessionID string, req *models.SuggestionRequest) (*SuggestResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := timeNow()
	result := &SuggestResult{
		RequestID:   newRequestID(start),
		Suggestions: []models.Suggestion{},
	}

	logging.Debug("Suggestion pipeline started", logging.Fields{
		"request_id": result.RequestID,
		"budget":     req.Budget.String(),
		"time":       req.DurationMinutes(),
	})

	result.Weather = s.enrichWeather(ctx, req, result)

	prompt := ai.BuildPrompt(req, result.Weather)

	aiSuggestions, meta := s.callAI(ctx, prompt, result)
	result.Suggestions = append(result.Suggestions, aiSuggestions...)

	if len(result.Suggestions) < minSuggestions {
		fill := s.rules.Generate(req, result.Weather, minSuggestions-len(result.Suggestions))
		result.Suggestions = appendUnique(result.Suggestions, fill)
	}

	switch {
	case len(aiSuggestions) > 0 && len(result.Suggestions) > len(aiSuggestions):
		result.Source = models.SourceMixed
	case len(aiSuggestions) > 0:
		result.Source = models.SourceAI
	default:
		result.Source = models.SourceFallback
	}

	if meta == nil {
		meta = &models.AIMetadata{
			ModelUsed: "fallback",
			Reasoning: "AI service unavailable, providing fallback suggestions",
		}
	}
	meta.ProcessingTime = timeNow().Sub(start).Seconds()
	result.AIMetadata = meta
	result.TotalSuggestions = len(result.Suggestions)

	s.persist(sessionID, req, result)

	logging.Info("Suggestion pipeline finished", logging.Fields{
		"request_id":  result.RequestID,
		"suggestions": result.TotalSuggestions,
		"source":      result.Source,
	})

	return result, nil
}

// enrichWeather fetches current conditions when the request carries consented
// coordinates. Weather is a soft dependency; every failure just means a
// response without a weather block.
func (s *SuggestService) enrichWeather(ctx context.Context, req *models.SuggestionRequest, result *SuggestResult) *models.WeatherSnapshot {
	lat, lon, ok := req.ConsentedLocation()
	if !ok {
		return nil
	}
	if s.weather == nil || !s.weather.IsConfigured() {
		logging.Debug("Weather provider not configured; skipping enrichment", logging.Fields{
			"request_id": result.RequestID,
		})
		return nil
	}

	wctx, cancel := context.WithTimeout(ctx, weatherTimeout)
	defer cancel()

	snapshot, err := s.weather.Current(wctx, lat, lon)
	if err != nil {
		logging.Warn("Weather lookup failed", logging.Fields{
			"request_id": result.RequestID,
			"error":      err.Error(),
		})
		return nil
	}

	result.Lookups.Weather = true
	return snapshot
}

// callAI asks the provider for suggestions. Any error leaves the pipeline on
// the fallback path.
func (s *SuggestService) callAI(ctx context.Context, prompt string, result *SuggestResult) ([]models.Suggestion, *models.AIMetadata) {
	if s.ai == nil || !s.ai.IsConfigured() {
		logging.Debug("AI provider not configured; using fallback", logging.Fields{
			"request_id": result.RequestID,
		})
		return nil, nil
	}

	actx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	suggestions, meta, err := s.ai.Suggest(actx, prompt)
	if errors.Is(err, ai.ErrAINotConfigured) {
		logging.Debug("AI provider not configured; using fallback", logging.Fields{
			"request_id": result.RequestID,
		})
		return nil, nil
	}
	if err != nil {
		logging.Warn("AI lookup failed", logging.Fields{
			"request_id": result.RequestID,
			"error":      err.Error(),
		})
		return nil, nil
	}

	result.Lookups.AI = true
	return suggestions, meta
}

// persist appends the suggestion log. It runs on a detached context so a
// client disconnect cannot abort it, and failure only adds a warning.
func (s *SuggestService) persist(sessionID string, req *models.SuggestionRequest, result *SuggestResult) {
	if s.history == nil {
		return
	}

	params := models.CreateLogParams{
		SessionID:      sessionID,
		RequestID:      result.RequestID,
		Budget:         req.Budget,
		TimeAvailable:  req.DurationMinutes(),
		Weather:        result.Weather,
		AIModelUsed:    result.AIMetadata.ModelUsed,
		AIReasoning:    result.AIMetadata.Reasoning,
		ProcessingTime: result.AIMetadata.ProcessingTime,
		Suggestions:    result.Suggestions,
	}
	if req.Activity != nil {
		params.LocationPref = req.Activity.Location
		params.EnergyLevel = req.Activity.EnergyLevel
		params.ActivityTypes = req.Activity.ActivityTypes
		params.CustomCategories = req.Activity.CustomCategories
		params.Mood = req.Activity.Mood
	}

	pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if _, err := s.history.LogSuggestion(pctx, params); err != nil {
		logging.Error("Failed to persist suggestion log", logging.Fields{
			"request_id": result.RequestID,
			"error":      err.Error(),
		})
		result.Warnings = append(result.Warnings, "suggestions could not be saved to history")
	}
}

// appendUnique adds fill items whose titles are not already present.
func appendUnique(suggestions []models.Suggestion, fill []models.Suggestion) []models.Suggestion {
	seen := make(map[string]struct{}, len(suggestions))
	for _, s := range suggestions {
		seen[normalizeTitle(s.Title)] = struct{}{}
	}
	for _, f := range fill {
		key := normalizeTitle(f.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, f)
	}
	return suggestions
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func newRequestID(now time.Time) string {
	return fmt.Sprintf("req_%s_%s", now.UTC().Format("20060102_150405"), uuid.NewString()[:8])
}

func validateRequest(req *models.SuggestionRequest) error {
	if req == nil {
		return &ValidationError{Field: "body", Message: "request body is required"}
	}
	if req.Budget.IsNegative() {
		return &ValidationError{Field: "budget", Message: "must be at least 0"}
	}
	if req.TimeAvailable <= 0 {
		return &ValidationError{Field: "time_available", Message: "must be greater than 0"}
	}
	if req.TimeUnit != "" && !models.IsValidTimeUnit(req.TimeUnit) {
		return &ValidationError{Field: "time_unit", Message: "must be minutes or hours"}
	}

	if req.Location != nil {
		if req.Location.Latitude < -90 || req.Location.Latitude > 90 {
			return &ValidationError{Field: "location.latitude", Message: "must be between -90 and 90"}
		}
		if req.Location.Longitude < -180 || req.Location.Longitude > 180 {
			return &ValidationError{Field: "location.longitude", Message: "must be between -180 and 180"}
		}
	}

	if req.Activity != nil {
		if req.Activity.Location != "" && !models.IsValidActivityLocation(req.Activity.Location) {
			return &ValidationError{Field: "activity_preferences.location", Message: "must be indoor, outdoor, or either"}
		}
		if req.Activity.EnergyLevel != "" && !models.IsValidEnergyLevel(req.Activity.EnergyLevel) {
			return &ValidationError{Field: "activity_preferences.energy_level", Message: "must be low, medium, or high"}
		}
		if req.Activity.SocialLevel != "" && !models.IsValidSocialLevel(req.Activity.SocialLevel) {
			return &ValidationError{Field: "activity_preferences.social_level", Message: "must be solo, small_group, or large_group"}
		}
		for _, at := range req.Activity.ActivityTypes {
			if !models.IsValidActivityType(at) {
				return &ValidationError{Field: "activity_preferences.activity_types", Message: fmt.Sprintf("unknown activity type %q", at)}
			}
		}
	}

	if req.Food != nil {
		if req.Food.SkillLevel != "" && !models.IsValidSkillLevel(req.Food.SkillLevel) {
			return &ValidationError{Field: "food_preferences.skill_level", Message: "must be beginner, intermediate, or advanced"}
		}
		if req.Food.MealType != "" && !models.IsValidMealType(req.Food.MealType) {
			return &ValidationError{Field: "food_preferences.meal_type", Message: "must be snack, breakfast, lunch, dinner, or dessert"}
		}
	}

	return nil
}
