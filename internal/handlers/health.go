package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/anyidea-app/anyidea/internal/database"
)

const healthTimeout = 5 * time.Second

type HealthChecker interface {
	Health(ctx context.Context) error
}

// ConfiguredChecker reports whether an external collaborator has credentials.
type ConfiguredChecker interface {
	IsConfigured() bool
}

// DatabaseProber is the store handle the database health endpoint inspects.
type DatabaseProber interface {
	Health(ctx context.Context) error
	Stats() database.PoolStats
}

type HealthHandler struct {
	db          DatabaseProber
	redis       HealthChecker
	weather     ConfiguredChecker
	ai          ConfiguredChecker
	environment string
}

func NewHealthHandler(db DatabaseProber, redis HealthChecker, weather, ai ConfiguredChecker, environment string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redis:       redis,
		weather:     weather,
		ai:          ai,
		environment: environment,
	}
}

// HealthResponse reports every dependency independently. weather and ai are
// configuration status, not liveness: an unset API key is a deliberate
// deployment choice, not an outage.
type HealthResponse struct {
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	Environment string          `json:"environment"`
	Services    map[string]bool `json:"services"`
}

type DatabaseHealthResponse struct {
	Status string              `json:"status"`
	Pool   *database.PoolStats `json:"pool,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	postgresUp := true
	if err := h.db.Health(ctx); err != nil {
		log.Printf("Health check: postgres unavailable: %v", err)
		postgresUp = false
	}

	redisUp := true
	if err := h.redis.Health(ctx); err != nil {
		log.Printf("Health check: redis unavailable: %v", err)
		redisUp = false
	}

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: h.environment,
		Services: map[string]bool{
			"postgres": postgresUp,
			"redis":    redisUp,
			"weather":  h.weather.IsConfigured(),
			"ai":       h.ai.IsConfigured(),
		},
	}

	status := http.StatusOK
	if !postgresUp || !redisUp {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		log.Printf("Database health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, DatabaseHealthResponse{Status: "unhealthy"})
		return
	}

	stats := h.db.Stats()
	writeJSON(w, http.StatusOK, DatabaseHealthResponse{Status: "healthy", Pool: &stats})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if h.db.Health(ctx) != nil || h.redis.Health(ctx) != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}
