package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anyidea-app/anyidea/internal/config"
	"github.com/anyidea-app/anyidea/internal/logging"
	"github.com/anyidea-app/anyidea/internal/models"
)

const requestTimeout = 3 * time.Second

var (
	ErrWeatherNotConfigured = errors.New("weather provider is not configured")
	ErrWeatherUnavailable   = errors.New("weather provider is currently unavailable")
	ErrWeatherRateLimited   = errors.New("weather rate limit exceeded")
)

var weatherAPIBaseURL = "http://api.weatherapi.com/v1"

// Service fetches current conditions from WeatherAPI.com. Lookups are a
// soft dependency: callers treat any error as "no weather available".
type Service struct {
	apiKey string
	client *http.Client
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		apiKey: cfg.Weather.APIKey,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (s *Service) IsConfigured() bool { return strings.TrimSpace(s.apiKey) != "" }

// WeatherAPI current-conditions response, reduced to the fields we read.

type apiResponse struct {
	Location apiLocation `json:"location"`
	Current  apiCurrent  `json:"current"`
}

type apiLocation struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	LocalTime string `json:"localtime"`
}

type apiCurrent struct {
	TempF     *float64     `json:"temp_f"`
	TempC     *float64     `json:"temp_c"`
	Humidity  *int         `json:"humidity"`
	WindMPH   *float64     `json:"wind_mph"`
	Condition apiCondition `json:"condition"`
}

type apiCondition struct {
	Text string `json:"text"`
}

// Current fetches conditions for the coordinates and derives the
// outdoor-suitability flag.
func (s *Service) Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	if !s.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}

	query := url.Values{}
	query.Set("key", s.apiKey)
	query.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	query.Set("aqi", "no")

	reqURL := weatherAPIBaseURL + "/current.json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status %d", ErrWeatherRateLimited, resp.StatusCode)
		}
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		logging.Error("WeatherAPI non-200 response", logging.Fields{
			"status": resp.StatusCode,
			"body":   string(bodyBytes),
		})
		return nil, fmt.Errorf("%w: status %d", ErrWeatherUnavailable, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response", ErrWeatherUnavailable)
	}
	if payload.Current.TempF == nil || payload.Current.Condition.Text == "" {
		return nil, fmt.Errorf("%w: incomplete payload", ErrWeatherUnavailable)
	}

	tempF := *payload.Current.TempF
	condition := payload.Current.Condition.Text
	windMPH := 0.0
	if payload.Current.WindMPH != nil {
		windMPH = *payload.Current.WindMPH
	}

	snapshot := &models.WeatherSnapshot{
		Current:            fmt.Sprintf("%s, %d°F", condition, int(tempF)),
		SuitableForOutdoor: suitableForOutdoor(condition, tempF, windMPH),
		Temperature:        payload.Current.TempF,
		TemperatureC:       payload.Current.TempC,
		Humidity:           payload.Current.Humidity,
		Condition:          condition,
		WindMPH:            windMPH,
		Location:           fmt.Sprintf("%s, %s", payload.Location.Name, payload.Location.Region),
		LocalTime:          payload.Location.LocalTime,
		FetchedAt:          time.Now(),
	}

	return snapshot, nil
}

// suitableForOutdoor flags conditions fit for outdoor activity: no
// precipitation or storms, wind at or below 25 mph, and temperature
// between 32°F and 95°F.
func suitableForOutdoor(condition string, tempF, windMPH float64) bool {
	lower := strings.ToLower(condition)
	raining := strings.Contains(lower, "rain") || strings.Contains(lower, "drizzle")
	snowing := strings.Contains(lower, "snow")
	stormy := strings.Contains(lower, "storm") || strings.Contains(lower, "thunder")
	veryWindy := windMPH > 25
	extremeTemp := tempF < 32 || tempF > 95

	return !(raining || snowing || stormy || veryWindy || extremeTemp)
}
