// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for simulation, combat and server settings.
//
// IMPORTANT: When changing balance values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds tick-driver and world settings.
type SimConfig struct {
	TickRate     int     // Ticks per second for the realtime loop
	MaxDelta     float64 // Upper bound on a single tick's delta (seconds)
	WorldWidth   float64 // Arena extent along X
	WorldDepth   float64 // Arena extent along Z
	MinElevation float64 // Lowest allowed vertical position
	MaxElevation float64 // Highest allowed vertical position
	GridCellSize float64 // Spatial grid cell size for hit-test candidates
	Seed         int64   // RNG seed for AI decisions (0 = time based)
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:     60,
		MaxDelta:     0.1, // Never catch up more than 100ms after a stall
		WorldWidth:   400,
		WorldDepth:   400,
		MinElevation: -50,
		MaxElevation: 200,
		GridCellSize: 10,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if md := getEnvFloat("MAX_DELTA", 0); md > 0 {
		cfg.MaxDelta = md
	}
	if s := getEnvInt("SIM_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// =============================================================================
// COMBAT CONFIGURATION
// =============================================================================

// CombatConfig holds every combat tunable. Durations are in seconds,
// rates are per second.
type CombatConfig struct {
	// Roll
	RollStaminaCost float64
	RollDuration    float64
	RollCooldown    float64
	RollSpeed       float64
	IFrameStart     float64 // Offset into the roll where invincibility begins
	IFrameDuration  float64

	// Locomotion
	MoveSpeed         float64
	SprintMultiplier  float64
	SprintStaminaCost float64 // Drained per second while sprinting

	// Regeneration
	StaminaRegenRate  float64
	ManaRegenRate     float64
	StaminaRegenDelay float64 // Idle time after spending before regen resumes

	// Block
	BlockAbsorb           float64 // Fraction of damage removed by a successful block
	BlockStaminaPerDamage float64 // Stamina drained per point of raw damage blocked
	BlockHalfAngle        float64 // Radians either side of facing that a block covers

	// Parry / riposte
	ParryWindow      float64
	ParryCooldown    float64
	RiposteWindow    float64
	RiposteRange     float64
	ParryStaggerTime float64

	// Stagger
	StaggerThreshold float64 // Single-hit damage that staggers a player-class combatant
	StaggerDuration  float64

	// Damage formula
	CriticalMultiplier   float64
	BackstabMultiplier   float64
	RiposteMultiplier    float64
	BackstabDotThreshold float64
	StrengthBaseline     float64 // Strength at which scaling contributes nothing
	StrengthScale        float64 // Damage per strength point above baseline
	DefenseScale         float64 // Mitigation per point of defense

	// Bookkeeping
	HitRecordTTL float64
	DeathTimer   float64
}

// DefaultCombat returns the default combat balance.
func DefaultCombat() CombatConfig {
	return CombatConfig{
		RollStaminaCost: 20,
		RollDuration:    0.6,
		RollCooldown:    0.2,
		RollSpeed:       9,
		IFrameStart:     0.1,
		IFrameDuration:  0.3,

		MoveSpeed:         5,
		SprintMultiplier:  1.6,
		SprintStaminaCost: 12,

		StaminaRegenRate:  30,
		ManaRegenRate:     2,
		StaminaRegenDelay: 0.8,

		BlockAbsorb:           0.8,
		BlockStaminaPerDamage: 0.5,
		BlockHalfAngle:        1.2, // ~70 degrees

		ParryWindow:      0.2,
		ParryCooldown:    0.5,
		RiposteWindow:    2.0,
		RiposteRange:     3.0,
		ParryStaggerTime: 2.0,

		StaggerThreshold: 30,
		StaggerDuration:  0.8,

		CriticalMultiplier:   1.5,
		BackstabMultiplier:   2.0,
		RiposteMultiplier:    2.5,
		BackstabDotThreshold: 0.5,
		StrengthBaseline:     10,
		StrengthScale:        2,
		DefenseScale:         0.5,

		HitRecordTTL: 0.5,
		DeathTimer:   3.0,
	}
}

// CombatFromEnv returns combat configuration with environment variable overrides.
// Only the constants that balance testing usually touches are exposed.
func CombatFromEnv() CombatConfig {
	cfg := DefaultCombat()

	if v := getEnvFloat("STAGGER_THRESHOLD", -1); v >= 0 {
		cfg.StaggerThreshold = v
	}
	if v := getEnvFloat("BACKSTAB_DOT_THRESHOLD", -2); v >= -1 {
		cfg.BackstabDotThreshold = v
	}
	if v := getEnvFloat("PARRY_WINDOW", -1); v >= 0 {
		cfg.ParryWindow = v
	}
	if v := getEnvFloat("RIPOSTE_WINDOW", -1); v >= 0 {
		cfg.RiposteWindow = v
	}
	if v := getEnvFloat("ROLL_STAMINA_COST", -1); v >= 0 {
		cfg.RollStaminaCost = v
	}

	return cfg
}

// Validate rejects combat settings that would break timing invariants.
func Validate(cfg CombatConfig) error {
	if cfg.RollDuration <= 0 {
		return fmt.Errorf("roll duration must be positive, got %v", cfg.RollDuration)
	}
	if cfg.IFrameStart < 0 || cfg.IFrameDuration < 0 {
		return fmt.Errorf("i-frame window must be non-negative (start %v, duration %v)", cfg.IFrameStart, cfg.IFrameDuration)
	}
	if cfg.IFrameStart+cfg.IFrameDuration > cfg.RollDuration {
		return fmt.Errorf("i-frame window [%v, %v] exceeds roll duration %v",
			cfg.IFrameStart, cfg.IFrameStart+cfg.IFrameDuration, cfg.RollDuration)
	}
	if cfg.StaggerDuration <= 0 || cfg.DeathTimer <= 0 {
		return fmt.Errorf("stagger duration and death timer must be positive")
	}
	if cfg.ParryWindow <= 0 || cfg.RiposteWindow <= 0 {
		return fmt.Errorf("parry and riposte windows must be positive")
	}
	if cfg.BlockAbsorb < 0 || cfg.BlockAbsorb > 1 {
		return fmt.Errorf("block absorb must be within [0, 1], got %v", cfg.BlockAbsorb)
	}
	return nil
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int
	CORSOrigins   []string
	DebugServer   bool
	EventLogPath  string
	BroadcastRate int // Websocket state frames per second
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:          3000,
		DebugServer:   true,
		EventLogPath:  "events.jsonl",
		BroadcastRate: 10,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.DebugServer = false
	}
	if path, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = path
	}
	if br := getEnvInt("BROADCAST_RATE", 0); br > 0 {
		cfg.BroadcastRate = br
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls hard caps on simulation and snapshot sizes.
type ResourceLimits struct {
	MaxCombatants  int // Hard cap on live combatants
	MaxSnapshot    int // Combatants copied into a snapshot
	InboxCapacity  int // Pending spawn/intent commands between ticks
	MaxPendingHits int // Live hit records before the registry refuses new ones
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxCombatants:  256,
		MaxSnapshot:    128,
		InboxCapacity:  1024,
		MaxPendingHits: 4096,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Combat CombatConfig
	Server ServerConfig
	Limits ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Combat: CombatFromEnv(),
		Server: ServerFromEnv(),
		Limits: DefaultLimits(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
