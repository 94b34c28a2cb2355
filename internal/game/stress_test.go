package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// STRESS TEST SUITE: REAL-WORLD LOAD SIMULATION
// Run with: go test -v -run=TestStress -timeout=60s ./internal/game/...
// =============================================================================

// StressTestResult contains metrics from stress tests
type StressTestResult struct {
	Duration        time.Duration
	TotalTicks      int64
	AvgTickTime     time.Duration
	MaxTickTime     time.Duration
	P99TickTime     time.Duration
	CommandsHandled int64
	DroppedCommands int64
	PeakCombatants  int
}

// StressTestConfig configures stress test parameters
type StressTestConfig struct {
	Duration         time.Duration
	InitialEnemies   int
	Players          int
	IntentsPerSec    int     // Simulated controller input rate per player
	SpawnRate        float64 // Probability of an enemy spawn per tick
	LatencyThreshold time.Duration
}

// DefaultStressConfig returns a busy-arena stress config
func DefaultStressConfig() StressTestConfig {
	return StressTestConfig{
		Duration:         3 * time.Second,
		InitialEnemies:   40,
		Players:          8,
		IntentsPerSec:    60,
		SpawnRate:        0.05,
		LatencyThreshold: 10 * time.Millisecond, // Max acceptable average tick time
	}
}

// -----------------------------------------------------------------------------
// STRESS TEST: SUSTAINED LOAD
// -----------------------------------------------------------------------------

func TestStress_SustainedLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	cfg := DefaultStressConfig()
	result := runStressTest(t, cfg)

	if result.AvgTickTime > cfg.LatencyThreshold {
		t.Errorf("Average tick time %v exceeds threshold %v", result.AvgTickTime, cfg.LatencyThreshold)
	}

	t.Logf("Stress Test Results:")
	t.Logf("  Duration: %v", result.Duration)
	t.Logf("  Total Ticks: %d", result.TotalTicks)
	t.Logf("  Avg Tick Time: %v", result.AvgTickTime)
	t.Logf("  P99 Tick Time: %v", result.P99TickTime)
	t.Logf("  Max Tick Time: %v", result.MaxTickTime)
	t.Logf("  Commands Handled: %d (dropped %d)", result.CommandsHandled, result.DroppedCommands)
	t.Logf("  Peak Combatants: %d", result.PeakCombatants)
}

// -----------------------------------------------------------------------------
// STRESS TEST: CONCURRENT PRODUCERS AGAINST THE REALTIME LOOP
// -----------------------------------------------------------------------------

func TestStress_ConcurrentCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	engine := NewEngine(testEngineConfig())
	engine.Start()
	defer engine.Stop()

	var wg sync.WaitGroup
	var accepted, rejected int64
	stop := make(chan struct{})

	// Controllers hammering intents
	for g := 0; g < 4; g++ {
		id, _ := engine.QueueSpawnPlayer(DefaultLoadout(fmt.Sprintf("Pad%d", g)), Vec3{X: float64(g) * 5})
		wg.Add(1)
		go func(id CombatantID, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
				}
				in := Intent{
					Move:   Vec3{X: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1},
					Attack: rng.Intn(4) == 0,
					Roll:   rng.Intn(10) == 0,
					Block:  rng.Intn(3) == 0,
				}
				if engine.SubmitIntent(id, in) {
					atomic.AddInt64(&accepted, 1)
				} else {
					atomic.AddInt64(&rejected, 1)
				}
				time.Sleep(time.Millisecond)
			}
		}(id, int64(g))
	}

	// Spawner
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 60; i++ {
			select {
			case <-stop:
				return
			default:
			}
			engine.QueueSpawnEnemy("hollow_soldier", Vec3{X: float64(i%10) * 3, Z: 12})
			time.Sleep(10 * time.Millisecond)
		}
	}()

	// Readers
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := engine.GetSnapshot()
			_ = snap.CombatantCount
			_ = engine.Stats()
			time.Sleep(5 * time.Millisecond)
		}
	}()

	time.Sleep(time.Second)
	close(stop)
	wg.Wait()

	stats := engine.Stats()
	if stats.Tick == 0 {
		t.Fatal("Realtime loop did not tick")
	}
	if stats.Players > 4 {
		t.Errorf("Expected at most 4 players, got %d", stats.Players)
	}
	t.Logf("Intents accepted %d, rejected %d, combatants %d, ticks %d",
		accepted, rejected, stats.Combatants, stats.Tick)
}

func runStressTest(t *testing.T, cfg StressTestConfig) StressTestResult {
	t.Helper()

	engine := NewEngine(testEngineConfig())
	rng := rand.New(rand.NewSource(99))

	players := make([]CombatantID, 0, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		players = append(players, engine.SpawnPlayer(DefaultLoadout(fmt.Sprintf("P%d", i)), Vec3{X: float64(i) * 4}))
	}
	for i := 0; i < cfg.InitialEnemies; i++ {
		engine.SpawnEnemy("hollow_soldier", Vec3{X: rng.Float64()*60 - 30, Z: rng.Float64()*60 - 30})
	}

	var (
		tickTimes []time.Duration
		commands  int64
		dropped   int64
		peak      int
	)

	const dt = 1.0 / 60
	intentEvery := 60 / cfg.IntentsPerSec
	if intentEvery < 1 {
		intentEvery = 1
	}

	start := time.Now()
	for tick := 0; time.Since(start) < cfg.Duration; tick++ {
		if tick%intentEvery == 0 {
			for _, id := range players {
				in := Intent{
					Move:   Vec3{X: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1},
					Attack: rng.Intn(5) == 0,
					Heavy:  rng.Intn(15) == 0,
					Roll:   rng.Intn(12) == 0,
					Block:  rng.Intn(4) == 0,
				}
				if engine.SubmitIntent(id, in) {
					commands++
				} else {
					dropped++
				}
			}
		}
		if rng.Float64() < cfg.SpawnRate {
			engine.QueueSpawnEnemy("ember_drake", Vec3{X: rng.Float64()*60 - 30, Z: rng.Float64()*60 - 30})
		}

		t0 := time.Now()
		engine.Step(dt, players[0])
		tickTimes = append(tickTimes, time.Since(t0))

		if n := engine.Count(); n > peak {
			peak = n
		}
	}

	result := StressTestResult{
		Duration:        time.Since(start),
		TotalTicks:      int64(len(tickTimes)),
		CommandsHandled: commands,
		DroppedCommands: dropped,
		PeakCombatants:  peak,
	}
	if len(tickTimes) == 0 {
		return result
	}

	var total time.Duration
	for _, d := range tickTimes {
		total += d
		if d > result.MaxTickTime {
			result.MaxTickTime = d
		}
	}
	result.AvgTickTime = total / time.Duration(len(tickTimes))

	sort.Slice(tickTimes, func(i, j int) bool { return tickTimes[i] < tickTimes[j] })
	result.P99TickTime = tickTimes[len(tickTimes)*99/100]
	return result
}
