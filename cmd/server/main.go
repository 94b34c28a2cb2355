package main

import (
	"context"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ember-arena/internal/api"
	"ember-arena/internal/config"
	"ember-arena/internal/game"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🔥 ================================")
	log.Println("🔥  EMBER ARENA - COMBAT SERVER")
	log.Println("🔥 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	if err := config.Validate(appConfig.Combat); err != nil {
		log.Fatalf("❌ Invalid combat config: %v", err)
	}
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server

	log.Printf("🎮 Config: %d TPS, max delta %.3fs, world %.0fx%.0f",
		simCfg.TickRate, simCfg.MaxDelta, simCfg.WorldWidth, simCfg.WorldDepth)
	log.Printf("🛡️ Resource limits: %d combatants, %d snapshot entries, %d inbox slots",
		appConfig.Limits.MaxCombatants, appConfig.Limits.MaxSnapshot, appConfig.Limits.InboxCapacity)

	engine := game.NewEngine(game.EngineConfig{
		Sim:      simCfg,
		Combat:   appConfig.Combat,
		Limits:   appConfig.Limits,
		Observer: api.MetricsObserver{},
	})

	// Start event log
	if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	} else if serverCfg.EventLogPath != "" {
		log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
	}

	// Start debug server
	if serverCfg.DebugServer {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	spawnInitial(engine, os.Getenv("ARENA_SPAWN"))

	server := api.NewServer(engine, serverCfg)

	engine.Start()
	log.Println("✅ Simulation started")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			log.Printf("❌ %v", err)
		}
	}

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("⚠️ API shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// spawnInitial places a comma-separated list of profiles on a ring
// around the arena centre, e.g. ARENA_SPAWN=ashen_warden,hollow_soldier.
func spawnInitial(engine *game.Engine, list string) {
	if list == "" {
		return
	}
	names := strings.Split(list, ",")
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		angle := 2 * math.Pi * float64(i) / float64(len(names))
		pos := game.Vec3{X: 15 * math.Sin(angle), Z: 15 * math.Cos(angle)}
		id, err := engine.SpawnEnemy(name, pos)
		if err != nil {
			log.Printf("⚠️ Skipping %q: %v", name, err)
			continue
		}
		log.Printf("👹 Spawned %s as #%d", name, id)
	}
}
