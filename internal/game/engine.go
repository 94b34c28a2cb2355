package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ember-arena/internal/config"
	"ember-arena/internal/game/spatial"
)

// Observer receives engine metrics. Calls happen on the tick goroutine
// and must not block.
type Observer interface {
	ObserveTick(d time.Duration, combatants, alive int)
	ObserveDamage(defender Kind, amount int, flags DamageFlags)
	ObserveParry()
	ObserveStagger(cause string)
	ObservePhase(profile string, phase int)
	ObserveDeath(kind Kind)
	ObserveDroppedCommand()
	ObserveRefusedHit()
}

type noopObserver struct{}

func (noopObserver) ObserveTick(time.Duration, int, int)  {}
func (noopObserver) ObserveDamage(Kind, int, DamageFlags) {}
func (noopObserver) ObserveParry()                        {}
func (noopObserver) ObserveStagger(string)                {}
func (noopObserver) ObservePhase(string, int)             {}
func (noopObserver) ObserveDeath(Kind)                    {}
func (noopObserver) ObserveDroppedCommand()               {}
func (noopObserver) ObserveRefusedHit()                   {}

// EngineConfig bundles everything the engine is built from.
type EngineConfig struct {
	Sim           config.SimConfig
	Combat        config.CombatConfig
	Limits        config.ResourceLimits
	Collaborators Collaborators
	Observer      Observer
}

// DefaultEngineConfig returns defaults for every section.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Sim:    config.DefaultSim(),
		Combat: config.DefaultCombat(),
		Limits: config.DefaultLimits(),
	}
}

// CommandKind selects what an inbox command does.
type CommandKind uint8

const (
	CmdIntent CommandKind = iota
	CmdSpawnPlayer
	CmdSpawnEnemy
	CmdRemove
)

// Command is a request from another goroutine, applied at tick start.
type Command struct {
	Kind     CommandKind
	ID       CombatantID
	Intent   Intent
	Loadout  Loadout
	Profile  string
	Position Vec3
}

// Engine owns the combatant registry and drives the simulation.
type Engine struct {
	mu sync.RWMutex

	sim    config.SimConfig
	cfg    config.CombatConfig
	limits config.ResourceLimits
	collab Collaborators

	combatants map[CombatantID]*Combatant
	order      []*Combatant // Sorted by ID; iteration order for every phase
	intents    map[CombatantID]*Intent
	controlled CombatantID
	lastID     atomic.Uint32
	lastInst   uint64

	hits     *HitRegistry
	hitsFull bool // saturation already logged
	grid     *spatial.Grid
	inbox    *spatial.LockFreeQueue[Command]
	drainBuf []Command
	stepBuf  []int
	candBuf  []int

	running  bool
	stopChan chan struct{}
	loopWg   sync.WaitGroup

	tickCount   uint64
	simTime     float64
	totalDeaths int

	snapshotPool *SnapshotPool
	eventLog     *EventLog
	observer     Observer

	// Deterministic RNG for AI choices
	rng     *rand.Rand
	rngSeed int64
}

// NewEngine creates an engine. A zero seed picks one from the clock.
func NewEngine(ec EngineConfig) *Engine {
	seed := ec.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if ec.Sim.TickRate <= 0 {
		ec.Sim.TickRate = config.DefaultSim().TickRate
	}
	if ec.Sim.MaxDelta <= 0 {
		ec.Sim.MaxDelta = config.DefaultSim().MaxDelta
	}
	if ec.Limits.MaxCombatants <= 0 {
		ec.Limits = config.DefaultLimits()
	}
	obs := ec.Observer
	if obs == nil {
		obs = noopObserver{}
	}

	return &Engine{
		sim:          ec.Sim,
		cfg:          ec.Combat,
		limits:       ec.Limits,
		collab:       ec.Collaborators.withDefaults(),
		combatants:   make(map[CombatantID]*Combatant, ec.Limits.MaxCombatants),
		order:        make([]*Combatant, 0, ec.Limits.MaxCombatants),
		intents:      make(map[CombatantID]*Intent),
		hits:         NewHitRegistry(ec.Limits.MaxPendingHits),
		grid:         spatial.NewGrid(ec.Sim.WorldWidth, ec.Sim.WorldDepth, ec.Sim.GridCellSize, ec.Limits.MaxCombatants),
		inbox:        spatial.NewLockFreeQueue[Command](ec.Limits.InboxCapacity),
		drainBuf:     make([]Command, 256),
		snapshotPool: NewSnapshotPool(ec.Limits),
		eventLog:     NewEventLog(),
		observer:     obs,
		rng:          rand.New(rand.NewSource(seed)),
		rngSeed:      seed,
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start begins the realtime loop at the configured tick rate.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	stop := e.stopChan
	e.mu.Unlock()

	ticker := time.NewTicker(time.Second / time.Duration(e.sim.TickRate))
	e.loopWg.Add(1)
	go func() {
		defer e.loopWg.Done()
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case now := <-ticker.C:
				dt := now.Sub(last).Seconds()
				last = now
				e.mu.Lock()
				e.step(dt, e.controlled)
				e.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Simulation started at %d TPS", e.sim.TickRate)
}

// Stop halts the realtime loop. Step may still be called manually.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopChan)
	e.mu.Unlock()

	e.loopWg.Wait()
	log.Println("🛑 Simulation stopped")
}

// Running reports whether the realtime loop is active.
func (e *Engine) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// =============================================================================
// TICK
// =============================================================================

// Step advances the simulation by dt seconds. controlled names the single
// human-driven combatant (0 for none); it is the preferred AI target.
func (e *Engine) Step(dt float64, controlled CombatantID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step(dt, controlled)
}

func (e *Engine) step(dt float64, controlled CombatantID) {
	start := time.Now()
	dt = ClampDelta(dt, e.sim.MaxDelta)
	e.tickCount++
	e.simTime += dt
	e.controlled = controlled

	e.drainInbox()

	e.emit(EventTypeTick, 0, TickPayload{
		RNGSeed:        e.rngSeed,
		CombatantCount: len(e.order),
		DeltaTimeNs:    int64(dt * 1e9),
	})

	// 1. Timers and regeneration
	e.hits.Tick(dt)
	if e.hitsFull && !e.hits.Full() {
		e.hitsFull = false
	}
	for _, c := range e.order {
		c.advance(dt)
	}
	e.despawnExpired()

	// 2. Decisions, transitions and movement
	e.rebuildGrid()
	for _, c := range e.order {
		if c.AI != nil {
			e.decideAI(c, dt)
		} else {
			e.applyIntent(c)
		}
		e.move(c, dt)
	}

	// 3. Hit tests against post-movement positions
	e.rebuildGrid()
	for _, c := range e.order {
		e.runHitTests(c)
	}

	// 4. Timed states that reached zero exit this same tick
	for _, c := range e.order {
		if done := c.settle(); done != nil {
			e.hits.Forget(done.ID)
		}
		if c.AI != nil && c.AI.CheckPhase(c) {
			e.onPhase(c)
		}
	}

	alive := e.produceSnapshot()
	e.observer.ObserveTick(time.Since(start), len(e.order), alive)
}

func (e *Engine) drainInbox() {
	for {
		n := e.inbox.DrainTo(e.drainBuf)
		for i := 0; i < n; i++ {
			e.applyCommand(e.drainBuf[i])
			e.drainBuf[i] = Command{}
		}
		if n < len(e.drainBuf) {
			return
		}
	}
}

func (e *Engine) applyCommand(cmd Command) {
	switch cmd.Kind {
	case CmdIntent:
		c, ok := e.combatants[cmd.ID]
		if !ok || c.Kind != KindPlayer {
			return
		}
		in := e.intents[cmd.ID]
		if in == nil {
			in = &Intent{}
			e.intents[cmd.ID] = in
		}
		*in = in.merge(cmd.Intent)
	case CmdSpawnPlayer:
		e.addPlayer(cmd.ID, cmd.Loadout, cmd.Position)
	case CmdSpawnEnemy:
		if p, ok := GetProfile(cmd.Profile); ok {
			e.addEnemy(cmd.ID, p, cmd.Position)
		}
	case CmdRemove:
		if c, ok := e.combatants[cmd.ID]; ok {
			e.remove(c)
			e.sortOrder()
		}
	}
}

func (e *Engine) rebuildGrid() {
	e.grid.Clear()
	for i, c := range e.order {
		if c.Alive() {
			e.grid.Insert(uint32(i), c.Position.X, c.Position.Z)
		}
	}
}

func (e *Engine) despawnExpired() {
	removed := false
	for _, c := range e.order {
		if c.Removable() {
			e.remove(c)
			removed = true
		}
	}
	if removed {
		e.sortOrder()
	}
}

// remove drops c from the registry. Handles to it then fail lookup.
func (e *Engine) remove(c *Combatant) {
	delete(e.combatants, c.ID)
	delete(e.intents, c.ID)
	e.hits.ForgetCombatant(c.ID)
	e.emit(EventTypeDespawn, c.ID, SpawnPayload{ID: c.ID, Name: c.Name, Kind: c.Kind.String()})
	e.eventLog.Forget(c.ID)
	if e.controlled == c.ID {
		e.controlled = 0
	}
}

func (e *Engine) sortOrder() {
	e.order = e.order[:0]
	for _, c := range e.combatants {
		e.order = append(e.order, c)
	}
	sort.Slice(e.order, func(i, j int) bool { return e.order[i].ID < e.order[j].ID })
}

func (e *Engine) nextInstanceID() uint64 {
	e.lastInst++
	return e.lastInst
}

// =============================================================================
// DECISIONS
// =============================================================================

// applyIntent consumes a player's pending intent. One-shot flags are used
// at most once; illegal requests are dropped.
func (e *Engine) applyIntent(c *Combatant) {
	var cur Intent
	if in := e.intents[c.ID]; in != nil {
		cur = in.consumeOneShots()
	}
	if !c.Alive() {
		c.Velocity = Vec3{}
		return
	}

	c.LockOn = 0
	var lock *Combatant
	if t, ok := e.combatants[cur.LockOn]; ok && t.Alive() && t.ID != c.ID {
		c.LockOn = t.ID
		lock = t
	}

	if cur.Roll && c.TryRoll(cur.Move) {
		e.emit(EventTypeRoll, c.ID, RollPayload{
			ID: c.ID, Stamina: c.Resources.Stamina.Current, DirX: c.rollDir.X, DirZ: c.rollDir.Z,
		})
	}

	if cur.Attack || cur.Heavy {
		e.playerAttack(c, cur, lock)
	}
	if cur.Cast {
		if lock != nil && c.canStartAction() {
			c.faceToward(lock.Position)
		}
		if inst := c.TryAttack(Spells["flame_burst"], e.nextInstanceID()); inst != nil {
			e.emit(EventTypeAttack, c.ID, AttackPayload{AttackerID: c.ID, InstanceID: inst.ID, Attack: inst.Def.Name})
		}
	}
	if cur.Interact && c.canStartAction() {
		e.collab.Interactor.Interact(c.ID, c.Position)
	}

	c.SetBlock(cur.Block)
	c.ApplyLocomotion(cur.Move, cur.Sprint)

	switch c.state {
	case StateIdle, StateMoving, StateSprinting, StateBlocking:
		if lock != nil {
			c.faceToward(lock.Position)
		} else if m := cur.Move.Flat(); !m.IsZero() && c.state != StateBlocking {
			c.Heading = HeadingOf(m)
		}
	}
	c.Velocity = c.locomotionVelocity(cur.Move)
}

func (e *Engine) playerAttack(c *Combatant, cur Intent, lock *Combatant) {
	if cur.Attack {
		if tid, ok := c.Parry.RiposteTarget(); ok {
			if t := e.combatants[tid]; t != nil {
				if inst := c.TryRiposte(t, e.nextInstanceID()); inst != nil {
					e.emit(EventTypeRiposte, c.ID, AttackPayload{AttackerID: c.ID, InstanceID: inst.ID, Attack: inst.Def.Name})
					return
				}
			}
		}
	}

	def := c.Weapon.Light
	if cur.Heavy {
		def = c.Weapon.Heavy
	}
	if lock != nil && c.canStartAction() {
		c.faceToward(lock.Position)
	} else if m := cur.Move.Flat(); !m.IsZero() && c.canStartAction() {
		c.Heading = HeadingOf(m)
	}
	if inst := c.TryAttack(def, e.nextInstanceID()); inst != nil {
		e.emit(EventTypeAttack, c.ID, AttackPayload{AttackerID: c.ID, InstanceID: inst.ID, Attack: def.Name})
	}
}

func (e *Engine) decideAI(c *Combatant, dt float64) {
	target := e.acquireTarget(c)
	inst, vel := c.AI.Decide(c, target, dt, e.nextInstanceID)
	if inst != nil {
		e.emit(EventTypeAttack, c.ID, AttackPayload{
			AttackerID: c.ID, InstanceID: inst.ID, Attack: inst.Def.Name, Phase: c.AI.Phase,
		})
	}
	c.Velocity = vel
}

// acquireTarget resolves the director's target handle, or picks the
// controlled combatant or the nearest player inside detection range.
func (e *Engine) acquireTarget(c *Combatant) *Combatant {
	d := c.AI
	if d.Target != 0 {
		if t, ok := e.combatants[d.Target]; ok && t.Alive() {
			return t
		}
		d.Target = 0
	}
	if !c.Alive() {
		return nil
	}

	radius := d.Profile().DetectionRadius
	if t, ok := e.combatants[e.controlled]; ok && t.Alive() && t.Kind == KindPlayer &&
		c.Position.FlatDistance(t.Position) <= radius {
		d.Target = t.ID
		return t
	}

	var best *Combatant
	bestDist := math.Inf(1)
	for _, idx := range e.grid.QueryRadius(c.Position.X, c.Position.Z, radius) {
		t := e.order[idx]
		if t.Kind != KindPlayer || !t.Alive() {
			continue
		}
		dist := c.Position.FlatDistance(t.Position)
		if dist > radius {
			continue
		}
		if dist < bestDist || (dist == bestDist && best != nil && t.ID < best.ID) {
			best, bestDist = t, dist
		}
	}
	if best != nil {
		d.Target = best.ID
	}
	return best
}

func (e *Engine) move(c *Combatant, dt float64) {
	if c.Alive() {
		c.Position = c.Position.Add(c.Velocity.Flat().Scale(dt))
		halfW, halfD := e.sim.WorldWidth/2, e.sim.WorldDepth/2
		if halfW > 0 && halfD > 0 {
			c.Position.X = clamp(c.Position.X, -halfW, halfW)
			c.Position.Z = clamp(c.Position.Z, -halfD, halfD)
		}
		if c.AI != nil {
			c.AI.Leash(c)
		}
	}
	elev := e.collab.Terrain.ElevationAt(c.Position.X, c.Position.Z)
	c.snapToGround(elev, e.sim.MinElevation, e.sim.MaxElevation)
}

// =============================================================================
// HIT TESTS
// =============================================================================

func (e *Engine) runHitTests(a *Combatant) {
	inst := a.attack
	if a.state != StateAttacking || inst == nil {
		return
	}
	e.stepBuf = inst.DueSteps(e.stepBuf[:0])
	if len(e.stepBuf) == 0 {
		return
	}

	hb := inst.Def.Hitbox
	origin := hb.Origin(a.Position, a.Heading)

	for _, step := range e.stepBuf {
		if a.attack != inst {
			return // Staggered by a parry mid-swing
		}

		if inst.TargetID != 0 {
			if d, ok := e.combatants[inst.TargetID]; ok && a.Position.FlatDistance(d.Position) <= e.cfg.RiposteRange {
				e.resolveHit(a, d, inst, step, 1)
			}
			continue
		}

		e.candBuf = e.candBuf[:0]
		for _, idx := range e.grid.QueryRadius(origin.X, origin.Z, hb.Reach()) {
			e.candBuf = append(e.candBuf, int(idx))
		}
		sort.Ints(e.candBuf) // ID order

		for _, idx := range e.candBuf {
			d := e.order[idx]
			if d == a || d.Kind == a.Kind || !d.Alive() {
				continue
			}
			ok, scale := hb.CheckHit(origin, a.Heading, d.Position)
			if !ok {
				continue
			}
			e.resolveHit(a, d, inst, step, scale)
			if a.attack != inst {
				return
			}
		}
	}
}

// =============================================================================
// REGISTRY
// =============================================================================

func (e *Engine) allocID() CombatantID {
	return CombatantID(e.lastID.Add(1))
}

func (e *Engine) addPlayer(id CombatantID, lo Loadout, pos Vec3) bool {
	if len(e.combatants) >= e.limits.MaxCombatants {
		log.Printf("⚠️ Combatant limit reached (%d), rejecting player %s", e.limits.MaxCombatants, lo.Name)
		return false
	}
	def := DefaultLoadout(lo.Name)
	if lo.MaxHealth <= 0 || math.IsNaN(lo.MaxHealth) {
		lo.MaxHealth = def.MaxHealth
	}
	if lo.MaxStamina <= 0 || math.IsNaN(lo.MaxStamina) {
		lo.MaxStamina = def.MaxStamina
	}
	if lo.Name == "" {
		lo.Name = fmt.Sprintf("player-%d", id)
	}

	c := NewPlayer(id, lo, &e.cfg)
	c.Position = Vec3{X: sanitize(pos.X, 0), Z: sanitize(pos.Z, 0)}
	e.insert(c)
	e.emit(EventTypeSpawn, id, SpawnPayload{
		ID: id, Name: c.Name, Kind: c.Kind.String(), Weapon: c.Weapon.ID, X: c.Position.X, Z: c.Position.Z,
	})
	log.Printf("👤 Player spawned: %s (#%d, %s)", c.Name, id, c.Weapon.Name)
	return true
}

func (e *Engine) addEnemy(id CombatantID, p *Profile, pos Vec3) bool {
	if len(e.combatants) >= e.limits.MaxCombatants {
		log.Printf("⚠️ Combatant limit reached (%d), rejecting %s", e.limits.MaxCombatants, p.Name)
		return false
	}
	pos = Vec3{X: sanitize(pos.X, 0), Z: sanitize(pos.Z, 0)}
	c := NewEnemy(id, p, pos, &e.cfg, e.rng)
	e.insert(c)
	e.emit(EventTypeSpawn, id, SpawnPayload{
		ID: id, Name: c.Name, Kind: c.Kind.String(), Profile: p.Name, X: pos.X, Z: pos.Z,
	})
	log.Printf("👹 Enemy spawned: %s (#%d)", c.Name, id)
	return true
}

func (e *Engine) insert(c *Combatant) {
	elev := e.collab.Terrain.ElevationAt(c.Position.X, c.Position.Z)
	c.snapToGround(elev, e.sim.MinElevation, e.sim.MaxElevation)
	e.combatants[c.ID] = c
	e.sortOrder()
}

// SpawnPlayer adds a player-class combatant immediately.
// It returns 0 when the registry is full.
func (e *Engine) SpawnPlayer(lo Loadout, pos Vec3) CombatantID {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.allocID()
	if !e.addPlayer(id, lo, pos) {
		return 0
	}
	return id
}

// SpawnEnemy adds an AI combatant immediately.
func (e *Engine) SpawnEnemy(profile string, pos Vec3) (CombatantID, error) {
	p, ok := GetProfile(profile)
	if !ok {
		return 0, fmt.Errorf("unknown profile %q", profile)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.allocID()
	if !e.addEnemy(id, p, pos) {
		return 0, fmt.Errorf("combatant limit %d reached", e.limits.MaxCombatants)
	}
	return id, nil
}

// QueueSpawnPlayer reserves an ID and spawns at the next tick.
func (e *Engine) QueueSpawnPlayer(lo Loadout, pos Vec3) (CombatantID, bool) {
	id := e.allocID()
	if !e.push(Command{Kind: CmdSpawnPlayer, ID: id, Loadout: lo, Position: pos}) {
		return 0, false
	}
	return id, true
}

// QueueSpawnEnemy reserves an ID and spawns at the next tick.
func (e *Engine) QueueSpawnEnemy(profile string, pos Vec3) (CombatantID, error) {
	p, ok := GetProfile(profile)
	if !ok {
		return 0, fmt.Errorf("unknown profile %q", profile)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	id := e.allocID()
	if !e.push(Command{Kind: CmdSpawnEnemy, ID: id, Profile: profile, Position: pos}) {
		return 0, fmt.Errorf("command inbox full")
	}
	return id, nil
}

// SubmitIntent queues an intent snapshot for a player. Safe from any
// goroutine; applied at the start of the next tick.
func (e *Engine) SubmitIntent(id CombatantID, in Intent) bool {
	return e.push(Command{Kind: CmdIntent, ID: id, Intent: in})
}

// QueueRemove removes a combatant at the next tick.
func (e *Engine) QueueRemove(id CombatantID) bool {
	return e.push(Command{Kind: CmdRemove, ID: id})
}

func (e *Engine) push(cmd Command) bool {
	if !e.inbox.TryPush(cmd) {
		e.observer.ObserveDroppedCommand()
		return false
	}
	return true
}

// Heal restores health to a live combatant (explicit heal effects).
func (e *Engine) Heal(id CombatantID, amount float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.combatants[id]
	if !ok || !c.Alive() {
		return false
	}
	c.Heal(amount)
	return true
}

// LevelUp raises a combatant's caps keeping current values proportional.
func (e *Engine) LevelUp(id CombatantID, maxHealth, maxStamina float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.combatants[id]
	if !ok || !c.Alive() {
		return false
	}
	if maxHealth > 0 {
		c.SetMaxHealth(maxHealth)
	}
	if maxStamina > 0 {
		c.SetMaxStamina(maxStamina)
	}
	return true
}

// SetControlled changes which combatant the realtime loop treats as human.
func (e *Engine) SetControlled(id CombatantID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controlled = id
}

// Controlled returns the human-driven combatant handle.
func (e *Engine) Controlled() CombatantID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.controlled
}

// Get returns a combatant by handle. The pointer must only be used while
// the realtime loop is stopped (tests, tools).
func (e *Engine) Get(id CombatantID) *Combatant {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.combatants[id]
}

// Count returns the number of registered combatants.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.combatants)
}

// PendingHits returns the number of live hit records.
func (e *Engine) PendingHits() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hits.Len()
}

// =============================================================================
// OUTPUT
// =============================================================================

func (e *Engine) emit(t EventType, source CombatantID, payload interface{}) {
	e.eventLog.EmitSimple(t, e.tickCount, source, payload)
}

// GetSnapshot returns the latest immutable snapshot.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

func (e *Engine) produceSnapshot() int {
	snap := e.snapshotPool.AcquireWrite()
	snap.TickNumber = e.tickCount
	snap.RNGSeed = e.rngSeed
	snap.SimTime = e.simTime
	snap.Controlled = uint32(e.controlled)
	snap.TotalDeaths = e.totalDeaths

	alive := 0
	for _, c := range e.order {
		if c.Alive() {
			alive++
		}
		if len(snap.Combatants) < e.limits.MaxSnapshot {
			snap.Combatants = append(snap.Combatants, snapshotOf(c))
		}
	}
	snap.CombatantCount = len(e.order)
	snap.AliveCount = alive

	e.snapshotPool.PublishWrite()
	return alive
}

// EngineStats is a point-in-time summary for monitoring.
type EngineStats struct {
	Tick        uint64  `json:"tick"`
	SimTime     float64 `json:"simTime"`
	Combatants  int     `json:"combatants"`
	Players     int     `json:"players"`
	Enemies     int     `json:"enemies"`
	Alive       int     `json:"alive"`
	TotalDeaths int     `json:"totalDeaths"`
	PendingHits int     `json:"pendingHits"`
	InboxDepth  int     `json:"inboxDepth"`
	Running     bool    `json:"running"`
	Seed        int64   `json:"seed"`

	Grid spatial.GridStats `json:"grid"`
}

// Stats returns engine statistics.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := EngineStats{
		Tick:        e.tickCount,
		SimTime:     e.simTime,
		Combatants:  len(e.order),
		TotalDeaths: e.totalDeaths,
		PendingHits: e.hits.Len(),
		InboxDepth:  e.inbox.Len(),
		Running:     e.running,
		Seed:        e.rngSeed,
		Grid:        e.grid.Stats(),
	}
	for _, c := range e.order {
		if c.Kind == KindPlayer {
			s.Players++
		} else {
			s.Enemies++
		}
		if c.Alive() {
			s.Alive++
		}
	}
	return s
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}

// EventCount returns how many events of t were logged.
func (e *Engine) EventCount(t EventType) uint64 {
	return e.eventLog.CountByType(t)
}

// Config returns the combat configuration in use.
func (e *Engine) Config() config.CombatConfig {
	return e.cfg
}
