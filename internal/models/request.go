package models

import "github.com/shopspring/decimal"

func init() {
	// Money fields travel as JSON numbers, matching the public API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

type SuggestionRequest struct {
	Budget        decimal.Decimal      `json:"budget"`
	Currency      string               `json:"currency,omitempty"`
	TimeAvailable int                  `json:"time_available"`
	TimeUnit      string               `json:"time_unit,omitempty"`
	Location      *LocationData        `json:"location,omitempty"`
	Food          *FoodPreferences     `json:"food_preferences,omitempty"`
	Activity      *ActivityPreferences `json:"activity_preferences,omitempty"`
}

type LocationData struct {
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	AllowLocationAccess bool    `json:"allow_location_access"`
}

type FoodPreferences struct {
	WantToCook          bool     `json:"want_to_cook"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	SkillLevel          string   `json:"skill_level,omitempty"`
	MealType            string   `json:"meal_type,omitempty"`
	KitchenEquipment    []string `json:"kitchen_equipment,omitempty"`
}

type ActivityPreferences struct {
	Location         string   `json:"location,omitempty"`
	SocialLevel      string   `json:"social_level,omitempty"`
	ActivityTypes    []string `json:"activity_types,omitempty"`
	EnergyLevel      string   `json:"energy_level,omitempty"`
	Mood             string   `json:"mood,omitempty"`
	CustomCategories []string `json:"custom_categories,omitempty"`
}

const (
	TimeUnitMinutes = "minutes"
	TimeUnitHours   = "hours"

	LocationIndoor  = "indoor"
	LocationOutdoor = "outdoor"
	LocationEither  = "either"
)

var ActivityTypes = []string{
	"creative",
	"productive",
	"entertainment",
	"exercise",
	"learning",
	"food",
	"social",
	"outdoor",
	"indoor",
}

var EnergyLevels = []string{"low", "medium", "high"}

var SocialLevels = []string{"solo", "small_group", "large_group"}

var ActivityLocations = []string{LocationIndoor, LocationOutdoor, LocationEither}

var SkillLevels = []string{"beginner", "intermediate", "advanced"}

var MealTypes = []string{"snack", "breakfast", "lunch", "dinner", "dessert"}

var TimeUnits = []string{TimeUnitMinutes, TimeUnitHours}

func isOneOf(value string, set []string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func IsValidActivityType(t string) bool { return isOneOf(t, ActivityTypes) }

func IsValidEnergyLevel(l string) bool { return isOneOf(l, EnergyLevels) }

func IsValidSocialLevel(l string) bool { return isOneOf(l, SocialLevels) }

func IsValidActivityLocation(l string) bool { return isOneOf(l, ActivityLocations) }

func IsValidSkillLevel(l string) bool { return isOneOf(l, SkillLevels) }

func IsValidMealType(m string) bool { return isOneOf(m, MealTypes) }

func IsValidTimeUnit(u string) bool { return isOneOf(u, TimeUnits) }

// DurationMinutes normalizes the requested time window to minutes.
func (r *SuggestionRequest) DurationMinutes() int {
	if r.TimeUnit == TimeUnitHours {
		return r.TimeAvailable * 60
	}
	return r.TimeAvailable
}

// ConsentedLocation returns coordinates only when the client granted access.
func (r *SuggestionRequest) ConsentedLocation() (lat, lon float64, ok bool) {
	if r.Location == nil || !r.Location.AllowLocationAccess {
		return 0, 0, false
	}
	return r.Location.Latitude, r.Location.Longitude, true
}
