package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"ember-arena/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-combatant labels)
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	combatantCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_combatants",
		Help: "Registered combatants",
	})

	aliveCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_combatants_alive",
		Help: "Combatants not in the dead state",
	})

	damageDealt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_damage_total",
		Help: "Damage applied, by defender kind",
	}, []string{"defender"})

	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_hits_total",
		Help: "Damaging hits, by modifier",
	}, []string{"modifier"}) // Bounded: "normal", "critical", "backstab", "riposte"

	parriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_parries_total",
		Help: "Successful parries",
	})

	staggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_staggers_total",
		Help: "Staggers, by cause",
	}, []string{"cause"}) // Bounded: "poise", "damage", "parry", "guard_break"

	phaseTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_phase_transitions_total",
		Help: "AI phase transitions, by profile and phase",
	}, []string{"profile", "phase"})

	deathsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_deaths_total",
		Help: "Deaths, by kind",
	}, []string{"kind"})

	droppedCommands = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_dropped_commands_total",
		Help: "Commands rejected because the inbox was full",
	})

	refusedHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_refused_hits_total",
		Help: "Hits dropped because the hit registry was full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "WebSocket frames, by direction",
	}, []string{"direction"})
)

// MetricsObserver feeds engine callbacks into Prometheus.
type MetricsObserver struct{}

var _ game.Observer = MetricsObserver{}

func (MetricsObserver) ObserveTick(d time.Duration, combatants, alive int) {
	tickDuration.Observe(d.Seconds())
	combatantCount.Set(float64(combatants))
	aliveCount.Set(float64(alive))
}

func (MetricsObserver) ObserveDamage(defender game.Kind, amount int, flags game.DamageFlags) {
	damageDealt.WithLabelValues(defender.String()).Add(float64(amount))
	switch {
	case flags.Riposte:
		hitsTotal.WithLabelValues("riposte").Inc()
	case flags.Backstab:
		hitsTotal.WithLabelValues("backstab").Inc()
	case flags.Critical:
		hitsTotal.WithLabelValues("critical").Inc()
	default:
		hitsTotal.WithLabelValues("normal").Inc()
	}
}

func (MetricsObserver) ObserveParry() { parriesTotal.Inc() }

func (MetricsObserver) ObserveStagger(cause string) { staggersTotal.WithLabelValues(cause).Inc() }

func (MetricsObserver) ObservePhase(profile string, phase int) {
	phaseTransitions.WithLabelValues(profile, strconv.Itoa(phase)).Inc()
}

func (MetricsObserver) ObserveDeath(kind game.Kind) { deathsTotal.WithLabelValues(kind.String()).Inc() }

func (MetricsObserver) ObserveDroppedCommand() { droppedCommands.Inc() }

func (MetricsObserver) ObserveRefusedHit() { refusedHits.Inc() }

// instrument records latency per chi route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // MUST be "127.0.0.1:6060" in production
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:       true,
		ListenAddr:    "127.0.0.1:6060", // Localhost only - NEVER expose externally
		BasicAuthUser: os.Getenv("DEBUG_USER"),
		BasicAuthPass: os.Getenv("DEBUG_PASS"),
	}
}

// DebugHandler serves pprof, metrics and a health probe.
func DebugHandler(cfg ObservabilityConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.BasicAuthUser != "" {
		return basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}
	return mux
}

// StartDebugServer starts the internal observability server
// CRITICAL: This MUST bind to localhost only to prevent pprof-based DoS
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("⚠️ Debug server forced to localhost for security")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	handler := DebugHandler(cfg)
	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordConnectionRejected increments the rejection counter
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

func recordWSMessage(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
