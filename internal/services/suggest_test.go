package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anyidea-app/anyidea/internal/models"
)

func validSuggestRequest() *models.SuggestionRequest {
	return &models.SuggestionRequest{
		Budget:        decimal.NewFromInt(20),
		TimeAvailable: 120,
		Location: &models.LocationData{
			Latitude:            37.7749,
			Longitude:           -122.4194,
			AllowLocationAccess: true,
		},
		Activity: &models.ActivityPreferences{
			Location:      models.LocationOutdoor,
			ActivityTypes: []string{"exercise"},
		},
	}
}

func aiSuggestion(title string) models.Suggestion {
	return models.Suggestion{
		Type:         models.TypeAIGenerated,
		Title:        title,
		Description:  "from the model",
		TimeRequired: 30,
		Cost:         decimal.NewFromInt(5),
		Difficulty:   "easy",
	}
}

func sunnySnapshot() *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		Current:            "Sunny, 72°F",
		SuitableForOutdoor: true,
		Condition:          "Sunny",
	}
}

func TestSuggestService_Run_RejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SuggestionRequest)
		field  string
	}{
		{
			name:   "negative budget",
			mutate: func(r *models.SuggestionRequest) { r.Budget = decimal.NewFromInt(-5) },
			field:  "budget",
		},
		{
			name:   "zero time",
			mutate: func(r *models.SuggestionRequest) { r.TimeAvailable = 0 },
			field:  "time_available",
		},
		{
			name:   "negative time",
			mutate: func(r *models.SuggestionRequest) { r.TimeAvailable = -10 },
			field:  "time_available",
		},
		{
			name:   "bad time unit",
			mutate: func(r *models.SuggestionRequest) { r.TimeUnit = "days" },
			field:  "time_unit",
		},
		{
			name:   "bad latitude",
			mutate: func(r *models.SuggestionRequest) { r.Location.Latitude = 91 },
			field:  "location.latitude",
		},
		{
			name:   "bad activity location",
			mutate: func(r *models.SuggestionRequest) { r.Activity.Location = "underwater" },
			field:  "activity_preferences.location",
		},
		{
			name:   "bad energy level",
			mutate: func(r *models.SuggestionRequest) { r.Activity.EnergyLevel = "extreme" },
			field:  "activity_preferences.energy_level",
		},
		{
			name:   "unknown activity type",
			mutate: func(r *models.SuggestionRequest) { r.Activity.ActivityTypes = []string{"spelunking"} },
			field:  "activity_preferences.activity_types",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weatherFake := &fakeWeather{configured: true}
			aiFake := &fakeAI{configured: true}
			logger := &fakeSuggestionLogger{}
			service := NewSuggestService(weatherFake, aiFake, NewRuleBasedGenerator(), logger)

			req := validSuggestRequest()
			tt.mutate(req)

			_, err := service.Run(context.Background(), "session-1", req)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
			if weatherFake.calls != 0 || len(aiFake.prompts) != 0 {
				t.Error("expected no collaborator calls for rejected request")
			}
			if len(logger.loggedParams()) != 0 {
				t.Error("expected no persistence for rejected request")
			}
		})
	}
}

func TestSuggestService_Run_AISuccess(t *testing.T) {
	weatherFake := &fakeWeather{
		configured: true,
		CurrentFunc: func(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
			if lat != 37.7749 || lon != -122.4194 {
				t.Errorf("unexpected coordinates: %v, %v", lat, lon)
			}
			return sunnySnapshot(), nil
		},
	}
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			suggestions := []models.Suggestion{
				aiSuggestion("Trail run"),
				aiSuggestion("Outdoor yoga"),
				aiSuggestion("Frisbee in the park"),
			}
			meta := &models.AIMetadata{ModelUsed: "test/model", Reasoning: "all outdoors"}
			return suggestions, meta, nil
		},
	}
	logger := &fakeSuggestionLogger{}
	service := NewSuggestService(weatherFake, aiFake, NewRuleBasedGenerator(), logger)

	req := validSuggestRequest()
	req.Activity.Mood = "energized"

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Source != models.SourceAI {
		t.Errorf("expected source ai, got %s", result.Source)
	}
	if !result.Lookups.Weather || !result.Lookups.AI {
		t.Errorf("expected both lookups true, got %+v", result.Lookups)
	}
	if result.Weather == nil || result.Weather.Current != "Sunny, 72°F" {
		t.Errorf("expected weather block, got %+v", result.Weather)
	}
	if len(result.Suggestions) != 3 || result.TotalSuggestions != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(result.Suggestions))
	}
	if result.Suggestions[0].Title != "Trail run" {
		t.Errorf("expected AI suggestions first, got %s", result.Suggestions[0].Title)
	}
	if !strings.HasPrefix(result.RequestID, "req_") {
		t.Errorf("unexpected request id format: %s", result.RequestID)
	}
	if result.AIMetadata == nil || result.AIMetadata.ModelUsed != "test/model" {
		t.Errorf("expected AI metadata, got %+v", result.AIMetadata)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}

	if len(aiFake.prompts) != 1 {
		t.Fatalf("expected 1 AI call, got %d", len(aiFake.prompts))
	}
	if !strings.Contains(aiFake.prompts[0], "Current weather: Sunny, 72°F.") {
		t.Error("expected weather summary in prompt")
	}

	logged := logger.loggedParams()
	if len(logged) != 1 {
		t.Fatalf("expected 1 persisted log, got %d", len(logged))
	}
	params := logged[0]
	if params.SessionID != "session-1" || params.RequestID != result.RequestID {
		t.Errorf("unexpected log identity: %+v", params)
	}
	if params.Weather == nil {
		t.Error("expected weather snapshot in log params")
	}
	if params.Mood != "energized" {
		t.Errorf("expected mood passthrough, got %s", params.Mood)
	}
	if params.AIModelUsed != "test/model" {
		t.Errorf("expected model in log params, got %s", params.AIModelUsed)
	}
	if len(params.Suggestions) != 3 {
		t.Errorf("expected 3 logged suggestions, got %d", len(params.Suggestions))
	}
}

func TestSuggestService_Run_WeatherFailureIsSoft(t *testing.T) {
	weatherFake := &fakeWeather{
		configured: true,
		CurrentFunc: func(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
			return nil, errors.New("network timeout")
		},
	}
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			if strings.Contains(prompt, "Current weather") {
				t.Error("expected no weather line in prompt after failed lookup")
			}
			return []models.Suggestion{aiSuggestion("Indoor climbing")}, &models.AIMetadata{ModelUsed: "test/model"}, nil
		},
	}
	service := NewSuggestService(weatherFake, aiFake, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	result, err := service.Run(context.Background(), "session-1", validSuggestRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Weather != nil {
		t.Errorf("expected no weather block, got %+v", result.Weather)
	}
	if result.Lookups.Weather {
		t.Error("expected weather lookup to be reported failed")
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected suggestions despite weather failure")
	}
}

func TestSuggestService_Run_FallsBackOnAIError(t *testing.T) {
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			return nil, nil, errors.New("provider down")
		},
	}
	service := NewSuggestService(&fakeWeather{}, aiFake, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	req := validSuggestRequest()
	req.Location = nil

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Source != models.SourceFallback {
		t.Errorf("expected source fallback, got %s", result.Source)
	}
	if result.Lookups.AI {
		t.Error("expected AI lookup to be reported failed")
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected fallback suggestions")
	}
	for _, s := range result.Suggestions {
		if s.Type != models.TypeFallback {
			t.Errorf("expected fallback type, got %s", s.Type)
		}
	}
	if result.AIMetadata == nil || result.AIMetadata.ModelUsed != "fallback" {
		t.Errorf("expected fallback metadata, got %+v", result.AIMetadata)
	}
}

func TestSuggestService_Run_FillsShortAIResponse(t *testing.T) {
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			return []models.Suggestion{aiSuggestion("Trail run")}, &models.AIMetadata{ModelUsed: "test/model"}, nil
		},
	}
	service := NewSuggestService(&fakeWeather{}, aiFake, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	req := validSuggestRequest()
	req.Location = nil
	req.Activity = nil

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Source != models.SourceMixed {
		t.Errorf("expected source mixed, got %s", result.Source)
	}
	if len(result.Suggestions) != 3 {
		t.Fatalf("expected fill to 3 suggestions, got %d", len(result.Suggestions))
	}
	if result.Suggestions[0].Title != "Trail run" || result.Suggestions[0].Type != models.TypeAIGenerated {
		t.Error("expected the AI suggestion first")
	}
	for _, s := range result.Suggestions[1:] {
		if s.Type != models.TypeFallback {
			t.Errorf("expected fallback fill, got type %s", s.Type)
		}
	}
}

func TestSuggestService_Run_FillSkipsDuplicateTitles(t *testing.T) {
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			return []models.Suggestion{aiSuggestion("take a MINDFUL break")}, &models.AIMetadata{ModelUsed: "test/model"}, nil
		},
	}
	service := NewSuggestService(&fakeWeather{}, aiFake, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	req := validSuggestRequest()
	req.Location = nil
	req.Activity = nil

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	seen := map[string]bool{}
	for _, s := range result.Suggestions {
		key := strings.ToLower(s.Title)
		if seen[key] {
			t.Errorf("duplicate title in response: %s", s.Title)
		}
		seen[key] = true
	}
}

func TestSuggestService_Run_PersistenceFailureWarns(t *testing.T) {
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			suggestions := []models.Suggestion{aiSuggestion("A"), aiSuggestion("B"), aiSuggestion("C")}
			return suggestions, &models.AIMetadata{ModelUsed: "test/model"}, nil
		},
	}
	logger := &fakeSuggestionLogger{
		LogFunc: func(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error) {
			return uuid.Nil, errors.New("db down")
		},
	}
	service := NewSuggestService(&fakeWeather{}, aiFake, NewRuleBasedGenerator(), logger)

	req := validSuggestRequest()
	req.Location = nil

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Suggestions) != 3 {
		t.Errorf("expected suggestions despite persistence failure, got %d", len(result.Suggestions))
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "could not be saved") {
		t.Errorf("expected persistence warning, got %v", result.Warnings)
	}
}

func TestSuggestService_Run_SkipsWeatherWithoutConsent(t *testing.T) {
	weatherFake := &fakeWeather{configured: true}
	aiFake := &fakeAI{
		configured: true,
		SuggestFunc: func(ctx context.Context, prompt string) ([]models.Suggestion, *models.AIMetadata, error) {
			return []models.Suggestion{aiSuggestion("A")}, &models.AIMetadata{ModelUsed: "m"}, nil
		},
	}
	service := NewSuggestService(weatherFake, aiFake, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	req := validSuggestRequest()
	req.Location.AllowLocationAccess = false

	if _, err := service.Run(context.Background(), "session-1", req); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if weatherFake.calls != 0 {
		t.Errorf("expected no weather call without consent, got %d", weatherFake.calls)
	}
}

func TestSuggestService_Run_SkipsAIWhenNotConfigured(t *testing.T) {
	aiFake := &fakeAI{configured: false}
	service := NewSuggestService(&fakeWeather{}, aiFake, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	req := validSuggestRequest()
	req.Location = nil

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(aiFake.prompts) != 0 {
		t.Error("expected no AI call when unconfigured")
	}
	if result.Source != models.SourceFallback {
		t.Errorf("expected source fallback, got %s", result.Source)
	}
}

func TestSuggestService_Run_AllowsEmptyResult(t *testing.T) {
	service := NewSuggestService(&fakeWeather{}, &fakeAI{}, NewRuleBasedGenerator(), &fakeSuggestionLogger{})

	req := &models.SuggestionRequest{
		Budget:        decimal.Zero,
		TimeAvailable: 1,
	}

	result, err := service.Run(context.Background(), "session-1", req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Suggestions == nil {
		t.Fatal("expected non-nil suggestions slice")
	}
	if len(result.Suggestions) != 0 || result.TotalSuggestions != 0 {
		t.Errorf("expected empty result for 1 minute and no budget, got %d", len(result.Suggestions))
	}
	if result.Source != models.SourceFallback {
		t.Errorf("expected source fallback, got %s", result.Source)
	}
}
