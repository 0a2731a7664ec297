package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/anyidea-app/anyidea/internal/middleware"
	"github.com/anyidea-app/anyidea/internal/models"
	"github.com/anyidea-app/anyidea/internal/services"
)

type ActivitiesHandler struct {
	categories services.CategoryServiceInterface
	popular    services.PopularServiceInterface
}

func NewActivitiesHandler(categories services.CategoryServiceInterface, popular services.PopularServiceInterface) *ActivitiesHandler {
	return &ActivitiesHandler{categories: categories, popular: popular}
}

// CatalogResponse lists the enum vocabularies clients render forms from.
type CatalogResponse struct {
	ActivityTypes []string `json:"activity_types"`
	EnergyLevels  []string `json:"energy_levels"`
	SocialLevels  []string `json:"social_levels"`
	SkillLevels   []string `json:"skill_levels"`
	MealTypes     []string `json:"meal_types"`
	TimeUnits     []string `json:"time_units"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

type CategoryResponse struct {
	Message  string                 `json:"message,omitempty"`
	Category *models.CustomCategory `json:"category,omitempty"`
}

type CategoriesResponse struct {
	Categories []models.CustomCategory `json:"categories"`
}

type PopularResponse struct {
	Activities []models.PopularActivity `json:"activities"`
	Count      int                      `json:"count"`
}

func (h *ActivitiesHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		ActivityTypes: models.ActivityTypes,
		EnergyLevels:  models.EnergyLevels,
		SocialLevels:  models.SocialLevels,
		SkillLevels:   models.SkillLevels,
		MealTypes:     models.MealTypes,
		TimeUnits:     models.TimeUnits,
	})
}

func (h *ActivitiesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())

	categories, err := h.categories.List(r.Context(), sessionID)
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (h *ActivitiesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.categories.Create(r.Context(), models.CreateCategoryParams{
		SessionID:   middleware.SessionID(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if errors.Is(err, services.ErrInvalidCategoryName) || errors.Is(err, services.ErrInvalidCategoryDescription) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if errors.Is(err, services.ErrCategoryExists) {
		writeError(w, http.StatusConflict, "Category already exists")
		return
	}
	if err != nil {
		log.Printf("Error creating category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, CategoryResponse{
		Message:  fmt.Sprintf("Custom category '%s' has been created successfully", category.Name),
		Category: category,
	})
}

func (h *ActivitiesHandler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")

	err := h.categories.Deactivate(r.Context(), middleware.SessionID(r.Context()), categoryID)
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("Error deactivating category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CategoryResponse{Message: "Category deactivated"})
}

func (h *ActivitiesHandler) Popular(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePopularFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	activities, err := h.popular.List(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing popular activities: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PopularResponse{Activities: activities, Count: len(activities)})
}

func parsePopularFilter(query url.Values) (models.PopularFilter, error) {
	var filter models.PopularFilter

	if v := query.Get("budget_min"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("Invalid budget_min parameter")
		}
		filter.BudgetMin = &d
	}
	if v := query.Get("budget_max"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("Invalid budget_max parameter")
		}
		filter.BudgetMax = &d
	}
	if v := query.Get("time_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("Invalid time_min parameter")
		}
		filter.TimeMin = &n
	}
	if v := query.Get("time_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("Invalid time_max parameter")
		}
		filter.TimeMax = &n
	}
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("Invalid limit parameter")
		}
		filter.Limit = n
	}

	return filter, nil
}
