package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/anyidea-app/anyidea/internal/database"
	"github.com/anyidea-app/anyidea/internal/models"
	"github.com/anyidea-app/anyidea/internal/services"
)

type mockSuggestService struct {
	RunFunc func(ctx context.Context, sessionID string, req *models.SuggestionRequest) (*services.SuggestResult, error)
}

func (m *mockSuggestService) Run(ctx context.Context, sessionID string, req *models.SuggestionRequest) (*services.SuggestResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, sessionID, req)
	}
	return nil, nil
}

type mockCategoryService struct {
	CreateFunc     func(ctx context.Context, params models.CreateCategoryParams) (*models.CustomCategory, error)
	ListFunc       func(ctx context.Context, sessionID string) ([]models.CustomCategory, error)
	DeactivateFunc func(ctx context.Context, sessionID, categoryID string) error
}

func (m *mockCategoryService) Create(ctx context.Context, params models.CreateCategoryParams) (*models.CustomCategory, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockCategoryService) List(ctx context.Context, sessionID string) ([]models.CustomCategory, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockCategoryService) Deactivate(ctx context.Context, sessionID, categoryID string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, sessionID, categoryID)
	}
	return nil
}

type mockPopularService struct {
	ListFunc    func(ctx context.Context, filter models.PopularFilter) ([]models.PopularActivity, error)
	RefreshFunc func(ctx context.Context) (int64, error)
}

func (m *mockPopularService) List(ctx context.Context, filter models.PopularFilter) ([]models.PopularActivity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockPopularService) Refresh(ctx context.Context) (int64, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return 0, nil
}

type mockHistoryService struct {
	LogSuggestionFunc func(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error)
	RecentLogsFunc    func(ctx context.Context, sessionID string, limit int) ([]models.SuggestionLog, error)
	SelectFunc        func(ctx context.Context, params models.SelectActivityParams) (*models.ActivityHistory, error)
	CompleteFunc      func(ctx context.Context, sessionID string, historyID uuid.UUID, params models.CompleteActivityParams) (*models.ActivityHistory, error)
}

func (m *mockHistoryService) LogSuggestion(ctx context.Context, params models.CreateLogParams) (uuid.UUID, error) {
	if m.LogSuggestionFunc != nil {
		return m.LogSuggestionFunc(ctx, params)
	}
	return uuid.Nil, nil
}

func (m *mockHistoryService) RecentLogs(ctx context.Context, sessionID string, limit int) ([]models.SuggestionLog, error) {
	if m.RecentLogsFunc != nil {
		return m.RecentLogsFunc(ctx, sessionID, limit)
	}
	return nil, nil
}

func (m *mockHistoryService) Select(ctx context.Context, params models.SelectActivityParams) (*models.ActivityHistory, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockHistoryService) Complete(ctx context.Context, sessionID string, historyID uuid.UUID, params models.CompleteActivityParams) (*models.ActivityHistory, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, sessionID, historyID, params)
	}
	return nil, nil
}

type fakeDatabase struct {
	healthErr error
	stats     database.PoolStats
}

func (f *fakeDatabase) Health(ctx context.Context) error { return f.healthErr }

func (f *fakeDatabase) Stats() database.PoolStats { return f.stats }

type fakeRedis struct {
	healthErr error
}

func (f *fakeRedis) Health(ctx context.Context) error { return f.healthErr }

type fakeConfigured struct {
	configured bool
}

func (f *fakeConfigured) IsConfigured() bool { return f.configured }

type fakeAIStatus struct {
	configured bool
	model      string
}

func (f *fakeAIStatus) IsConfigured() bool { return f.configured }

func (f *fakeAIStatus) Model() string { return f.model }
