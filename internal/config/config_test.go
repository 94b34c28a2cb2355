package config

import "testing"

// TestDefaultsValidate verifies the shipped balance passes its own checks
func TestDefaultsValidate(t *testing.T) {
	if err := Validate(DefaultCombat()); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
	cfg := DefaultCombat()
	if end := cfg.IFrameStart + cfg.IFrameDuration; end > cfg.RollDuration {
		t.Errorf("Expected i-frames inside the roll, ends at %v of %v", end, cfg.RollDuration)
	}
}

// TestValidateRejects tests every rejected combination
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CombatConfig)
	}{
		{"zero roll", func(c *CombatConfig) { c.RollDuration = 0 }},
		{"negative iframe start", func(c *CombatConfig) { c.IFrameStart = -0.1 }},
		{"iframes past roll", func(c *CombatConfig) { c.IFrameDuration = c.RollDuration }},
		{"zero stagger", func(c *CombatConfig) { c.StaggerDuration = 0 }},
		{"zero death timer", func(c *CombatConfig) { c.DeathTimer = 0 }},
		{"zero parry window", func(c *CombatConfig) { c.ParryWindow = 0 }},
		{"zero riposte window", func(c *CombatConfig) { c.RiposteWindow = 0 }},
		{"absorb above one", func(c *CombatConfig) { c.BlockAbsorb = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCombat()
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

// TestSimFromEnv verifies overrides and that garbage keeps defaults
func TestSimFromEnv(t *testing.T) {
	t.Setenv("TICK_RATE", "30")
	t.Setenv("MAX_DELTA", "not-a-number")
	t.Setenv("SIM_SEED", "1234")

	cfg := SimFromEnv()
	if cfg.TickRate != 30 {
		t.Errorf("Expected tick rate 30, got %d", cfg.TickRate)
	}
	if cfg.MaxDelta != DefaultSim().MaxDelta {
		t.Errorf("Expected default max delta, got %v", cfg.MaxDelta)
	}
	if cfg.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d", cfg.Seed)
	}
}

// TestCombatFromEnv verifies the exposed balance knobs
func TestCombatFromEnv(t *testing.T) {
	t.Setenv("STAGGER_THRESHOLD", "45")
	t.Setenv("BACKSTAB_DOT_THRESHOLD", "-0.25")
	t.Setenv("PARRY_WINDOW", "0.3")
	t.Setenv("ROLL_STAMINA_COST", "0")

	cfg := CombatFromEnv()
	if cfg.StaggerThreshold != 45 {
		t.Errorf("Expected stagger threshold 45, got %v", cfg.StaggerThreshold)
	}
	if cfg.BackstabDotThreshold != -0.25 {
		t.Errorf("Expected backstab threshold -0.25, got %v", cfg.BackstabDotThreshold)
	}
	if cfg.ParryWindow != 0.3 {
		t.Errorf("Expected parry window 0.3, got %v", cfg.ParryWindow)
	}
	if cfg.RollStaminaCost != 0 {
		t.Errorf("Expected free rolls, got %v", cfg.RollStaminaCost)
	}
	if cfg.RiposteWindow != DefaultCombat().RiposteWindow {
		t.Errorf("Expected default riposte window, got %v", cfg.RiposteWindow)
	}
}

// TestServerFromEnv verifies origin parsing and the event log switch
func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", " https://a.example.com, ,http://localhost:* ")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("BROADCAST_RATE", "20")

	cfg := ServerFromEnv()
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example.com" || cfg.CORSOrigins[1] != "http://localhost:*" {
		t.Errorf("Expected 2 trimmed origins, got %q", cfg.CORSOrigins)
	}
	if cfg.DebugServer {
		t.Error("Expected debug server disabled")
	}
	if cfg.EventLogPath != "" {
		t.Errorf("Expected in-memory event log, got %q", cfg.EventLogPath)
	}
	if cfg.BroadcastRate != 20 {
		t.Errorf("Expected broadcast rate 20, got %d", cfg.BroadcastRate)
	}
}

// TestLoad verifies every section is populated
func TestLoad(t *testing.T) {
	cfg := Load()
	if cfg.Sim.TickRate <= 0 || cfg.Combat.RollDuration <= 0 || cfg.Server.Port <= 0 || cfg.Limits.MaxCombatants <= 0 {
		t.Errorf("Expected populated config, got %+v", cfg)
	}
}
