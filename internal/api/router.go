package api

import (
	"net/http"

	"ember-arena/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the simulation methods used by the API.
// Spawns and intents go through the engine's inbox; the API never touches
// a Combatant directly.
type EngineInterface interface {
	// GetSnapshot returns the latest lock-free immutable snapshot
	GetSnapshot() *game.GameSnapshot
	// Stats returns registry and tick counters
	Stats() game.EngineStats
	// GetEventLogStats returns event log counters
	GetEventLogStats() map[string]interface{}
	// QueueSpawnPlayer reserves an ID and spawns at the next tick
	QueueSpawnPlayer(lo game.Loadout, pos game.Vec3) (game.CombatantID, bool)
	// QueueSpawnEnemy reserves an ID and spawns at the next tick
	QueueSpawnEnemy(profile string, pos game.Vec3) (game.CombatantID, error)
	// SubmitIntent queues an input snapshot for a player
	SubmitIntent(id game.CombatantID, in game.Intent) bool
	// SetControlled picks the human-driven combatant
	SetControlled(id game.CombatantID)
	// Heal restores health to a live combatant
	Heal(id game.CombatantID, amount float64) bool
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	router := api.NewRouter(api.RouterConfig{
//	    Engine: game.NewEngine(game.DefaultEngineConfig()),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the simulation (required)
	Engine EngineInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, only localhost origins are allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	engine EngineInterface
}

// DefaultCORSOrigins are used when no origins are configured.
var DefaultCORSOrigins = []string{
	"http://localhost:*",
	"http://127.0.0.1:*",
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE apart from the rate limiter's cleanup
// goroutine. No listeners are opened and the engine is not started, so it
// is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimiter = newLimiterFromConfig(cfg.RateLimitConfig)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = DefaultCORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	h := &routerHandlers{engine: cfg.Engine}

	r.Route("/api", func(r chi.Router) {
		// Read-only views
		r.Get("/state", h.handleGetState)
		r.Get("/state/{id}", h.handleGetCombatant)
		r.Get("/stats", h.handleGetStats)
		r.Get("/attacks", h.handleGetAttacks)
		r.Get("/profiles", h.handleGetProfiles)

		// Commands (applied at the start of the next tick)
		r.Post("/spawn/player", h.handleSpawnPlayer)
		r.Post("/spawn/enemy", h.handleSpawnEnemy)
		r.Post("/intent", h.handleIntent)
		r.Post("/heal", h.handleHeal)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

func newLimiterFromConfig(cfg *RateLimitConfig) *IPRateLimiter {
	rateLimitCfg := DefaultRateLimitConfig
	if cfg != nil {
		rateLimitCfg = *cfg
	}
	return NewIPRateLimiter(rateLimitCfg)
}
