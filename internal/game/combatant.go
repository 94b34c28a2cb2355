package game

import (
	"math"

	"ember-arena/internal/config"
)

// CombatantID is a weak handle into the engine's combatant registry.
// Zero is never assigned.
type CombatantID uint32

// Kind distinguishes player-class combatants from AI-driven ones.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindAI
)

func (k Kind) String() string {
	if k == KindAI {
		return "ai"
	}
	return "player"
}

// ControlState is the single control state a combatant is in.
type ControlState uint8

const (
	StateIdle ControlState = iota
	StateMoving
	StateSprinting
	StateRolling
	StateAttacking
	StateBlocking
	StateStaggered
	StateDead
	StateChase           // AI: closing on its target
	StateFlying          // AI: airborne locomotion
	StatePhaseTransition // AI: timed, attack-immune phase change
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateMoving:          "moving",
	StateSprinting:       "sprinting",
	StateRolling:         "rolling",
	StateAttacking:       "attacking",
	StateBlocking:        "blocking",
	StateStaggered:       "staggered",
	StateDead:            "dead",
	StateChase:           "chase",
	StateFlying:          "flying",
	StatePhaseTransition: "phase_transition",
}

func (s ControlState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Loadout is the externally loaded configuration a player spawns with.
type Loadout struct {
	Name       string  `json:"name"`
	MaxHealth  float64 `json:"maxHealth"`
	MaxStamina float64 `json:"maxStamina"`
	MaxMana    float64 `json:"maxMana"`
	Strength   float64 `json:"strength"`
	Defense    float64 `json:"defense"`
	WeaponID   string  `json:"weaponId"`
}

// DefaultLoadout returns a starting-class loadout.
func DefaultLoadout(name string) Loadout {
	return Loadout{
		Name:       name,
		MaxHealth:  400,
		MaxStamina: 100,
		MaxMana:    60,
		Strength:   14,
		Defense:    10,
		WeaponID:   DefaultWeaponID,
	}
}

// Combatant is any actor that can fight. Its mutable state is changed only
// by its own state machine and by damage resolution acting on it.
type Combatant struct {
	ID       CombatantID
	Name     string
	Kind     Kind
	Position Vec3
	Heading  float64
	Velocity Vec3

	Resources Ledger

	// AI-only poise; Poise.Max == 0 disables it.
	Poise           Pool
	PoiseFactor     float64
	PoiseRegen      float64
	PoiseRegenDelay float64

	Strength float64
	Defense  float64
	Weapon   Weapon

	Parry *ParryState // player-class only
	AI    *Director   // AI only

	Airborne     bool
	CanFly       bool
	FlightHeight float64
	Staggerable  bool

	// Permanent multipliers raised by phase transitions.
	DamageMult float64
	SpeedMult  float64

	LockOn CombatantID

	state          ControlState
	stateTimer     Timer
	attackCooldown Timer
	rollCooldown   Timer
	poiseDelay     Timer
	deathTimer     Timer
	roll           Stopwatch
	rollDir        Vec3
	attack         *AttackInstance
	removable      bool

	cfg *config.CombatConfig
}

// NewPlayer creates a player-class combatant from a loadout.
func NewPlayer(id CombatantID, lo Loadout, cfg *config.CombatConfig) *Combatant {
	ledger := NewLedger(lo.MaxHealth, lo.MaxStamina, lo.MaxMana)
	ledger.StaminaRegen = cfg.StaminaRegenRate
	ledger.ManaRegen = cfg.ManaRegenRate
	ledger.RegenDelay = cfg.StaminaRegenDelay

	return &Combatant{
		ID:          id,
		Name:        lo.Name,
		Kind:        KindPlayer,
		Resources:   ledger,
		Strength:    lo.Strength,
		Defense:     lo.Defense,
		Weapon:      GetWeapon(lo.WeaponID),
		Parry:       NewParryState(cfg.ParryWindow, cfg.ParryCooldown, cfg.RiposteWindow),
		Staggerable: true,
		DamageMult:  1,
		SpeedMult:   1,
		state:       StateIdle,
		cfg:         cfg,
	}
}

// State returns the current control state.
func (c *Combatant) State() ControlState { return c.state }

// IsDead reports whether the combatant has entered the terminal state.
func (c *Combatant) IsDead() bool { return c.state == StateDead }

// Removable reports whether the death sequence has finished.
func (c *Combatant) Removable() bool { return c.removable }

// CurrentAttack returns the live attack instance, or nil.
func (c *Combatant) CurrentAttack() *AttackInstance { return c.attack }

// StateRemaining returns the time left on the current timed state.
func (c *Combatant) StateRemaining() float64 { return c.stateTimer.Remaining }

// AttackCooldown returns the time until another attack may start.
func (c *Combatant) AttackCooldown() float64 { return c.attackCooldown.Remaining }

// Alive reports whether the combatant can still be damaged.
func (c *Combatant) Alive() bool { return c.state != StateDead }

// IFrameActive reports whether the roll's invincibility window is open.
func (c *Combatant) IFrameActive() bool {
	if c.state != StateRolling {
		return false
	}
	t := c.roll.Elapsed + timeEpsilon
	return t >= c.cfg.IFrameStart && t < c.cfg.IFrameStart+c.cfg.IFrameDuration
}

// IsInvulnerable reports whether incoming damage is ignored entirely.
func (c *Combatant) IsInvulnerable() bool {
	return c.IFrameActive() || c.state == StatePhaseTransition
}

// restState is where timed states return to.
func (c *Combatant) restState() ControlState {
	if c.Kind == KindPlayer {
		return StateIdle
	}
	if c.Airborne {
		return StateFlying
	}
	if c.AI != nil && c.AI.Aggro {
		return StateChase
	}
	return StateIdle
}

// enter switches state atomically, discarding any attack instance when
// leaving the attacking state.
func (c *Combatant) enter(s ControlState, duration float64) {
	if c.state == StateAttacking && s != StateAttacking {
		c.attack = nil
	}
	c.state = s
	if duration > 0 {
		c.stateTimer.Start(duration)
	} else {
		c.stateTimer.Clear()
	}
}

// =============================================================================
// ROLL
// =============================================================================

// CanRoll reports whether a roll may start now.
func (c *Combatant) CanRoll() bool {
	if c.Kind != KindPlayer {
		return false
	}
	switch c.state {
	case StateRolling, StateStaggered, StateDead, StateAttacking, StatePhaseTransition:
		return false
	}
	return !c.rollCooldown.Active() && c.Resources.Stamina.Has(c.cfg.RollStaminaCost)
}

// TryRoll starts a roll along dir (or facing when dir is zero). Illegal
// requests are dropped without any side effect.
func (c *Combatant) TryRoll(dir Vec3) bool {
	if !c.CanRoll() {
		return false
	}
	if !c.Resources.SpendStamina(c.cfg.RollStaminaCost) {
		return false
	}
	dir = dir.Flat().Normalize()
	if dir.IsZero() {
		dir = Forward(c.Heading)
	}
	c.rollDir = dir
	c.Heading = HeadingOf(dir)
	c.roll.Reset()
	c.rollCooldown.Start(c.cfg.RollDuration + c.cfg.RollCooldown)
	c.enter(StateRolling, c.cfg.RollDuration)
	return true
}

// =============================================================================
// ATTACK
// =============================================================================

func (c *Combatant) canStartAction() bool {
	switch c.state {
	case StateIdle, StateMoving, StateSprinting, StateBlocking, StateChase, StateFlying:
		return true
	}
	return false
}

// CanAttack reports whether def may start now.
func (c *Combatant) CanAttack(def *AttackDefinition) bool {
	if def == nil || !c.canStartAction() || c.attackCooldown.Active() {
		return false
	}
	return c.Resources.CanAfford(def.StaminaCost, def.ManaCost)
}

// TryAttack starts def as instance id. It returns nil when the request is illegal.
func (c *Combatant) TryAttack(def *AttackDefinition, id uint64) *AttackInstance {
	if !c.CanAttack(def) {
		return nil
	}
	return c.beginAttack(def, id)
}

// beginAttack debits the ledger and binds a fresh instance. Callers have
// already checked the state guard.
func (c *Combatant) beginAttack(def *AttackDefinition, id uint64) *AttackInstance {
	if !c.Resources.Pay(def.StaminaCost, def.ManaCost) {
		return nil
	}
	c.enter(StateAttacking, 0)
	c.attack = &AttackInstance{ID: id, Def: def, AttackerID: c.ID}
	c.attackCooldown.Start(def.Total() + def.Cooldown)
	return c.attack
}

// TryRiposte starts the riposte move against target. It is legal only while
// the riposte window is bound to that same target; the window closes on use.
func (c *Combatant) TryRiposte(target *Combatant, id uint64) *AttackInstance {
	if c.Parry == nil || target == nil || !target.Alive() || !c.canStartAction() {
		return nil
	}
	if !c.Parry.CanRiposte(target.ID) {
		return nil
	}
	if c.Position.FlatDistance(target.Position) > c.cfg.RiposteRange {
		return nil
	}
	c.Parry.ConsumeRiposte(target.ID)
	c.Heading = HeadingOf(target.Position.Sub(c.Position))
	inst := c.beginAttack(RiposteAttack, id)
	if inst != nil {
		inst.Critical = true
		inst.Riposte = true
		inst.TargetID = target.ID
	}
	return inst
}

// =============================================================================
// BLOCK & LOCOMOTION
// =============================================================================

// SetBlock applies the held block intent. Blocking requires stamina and is
// exclusive with rolling and attacking. It returns true on the tick a parry
// window opens.
func (c *Combatant) SetBlock(held bool) bool {
	if c.Parry == nil {
		return false
	}
	switch {
	case held && c.state == StateBlocking && c.Resources.Stamina.Empty():
		c.enter(StateIdle, 0)
	case held && c.Resources.Stamina.Current > 0 &&
		(c.state == StateIdle || c.state == StateMoving || c.state == StateSprinting):
		c.enter(StateBlocking, 0)
	case !held && c.state == StateBlocking:
		c.enter(StateIdle, 0)
	}
	return c.Parry.ObserveBlock(c.state == StateBlocking)
}

// ApplyLocomotion chooses idle/moving/sprinting from the move intent. It
// only acts in free states.
func (c *Combatant) ApplyLocomotion(move Vec3, sprint bool) {
	switch c.state {
	case StateIdle, StateMoving, StateSprinting:
	default:
		return
	}
	move = move.Flat()
	if move.IsZero() {
		c.enter(StateIdle, 0)
		return
	}
	if sprint && c.Resources.Stamina.Current > 0 {
		c.enter(StateSprinting, 0)
	} else {
		c.enter(StateMoving, 0)
	}
}

// =============================================================================
// FORCED TRANSITIONS
// =============================================================================

// ForceStagger interrupts whatever the combatant is doing. Rolling, dead
// and phase-transitioning combatants cannot be staggered.
func (c *Combatant) ForceStagger(duration float64) bool {
	switch c.state {
	case StateRolling, StateDead, StatePhaseTransition:
		return false
	}
	c.enter(StateStaggered, duration)
	return true
}

// ApplyPoiseDamage removes poise; reaching zero forces a stagger and pins
// poise at zero until the stagger ends. It returns true if it staggered.
func (c *Combatant) ApplyPoiseDamage(amount float64) bool {
	if c.Poise.Max <= 0 || amount <= 0 || !c.Alive() {
		return false
	}
	c.poiseDelay.Start(c.PoiseRegenDelay)
	c.Poise.Current -= amount
	if c.Poise.Current > 0 {
		return false
	}
	c.Poise.Current = 0
	if c.state == StateStaggered {
		return false
	}
	return c.ForceStagger(c.cfg.StaggerDuration)
}

// TakeDamage removes health. Dead and invulnerable combatants take nothing.
// It returns the health actually removed.
func (c *Combatant) TakeDamage(amount float64) float64 {
	if amount <= 0 || !c.Alive() || c.IsInvulnerable() {
		return 0
	}
	applied := c.Resources.Damage(amount)
	if c.Resources.Health.Current <= 0 {
		c.die()
	}
	return applied
}

// Heal restores health; the dead cannot be healed.
func (c *Combatant) Heal(amount float64) {
	if !c.Alive() {
		return
	}
	c.Resources.Heal(amount)
}

// SetMaxHealth raises or lowers the health cap (level-up).
func (c *Combatant) SetMaxHealth(max float64) { c.Resources.Health.SetMax(max) }

// SetMaxStamina raises or lowers the stamina cap (level-up).
func (c *Combatant) SetMaxStamina(max float64) { c.Resources.Stamina.SetMax(max) }

func (c *Combatant) die() {
	c.enter(StateDead, 0)
	c.Resources.Health.Current = 0
	c.Velocity = Vec3{}
	c.deathTimer.Start(c.cfg.DeathTimer)
	if c.Parry != nil {
		c.Parry.Reset()
	}
}

// =============================================================================
// TICK PHASES
// =============================================================================

// advance decrements every timer and regenerates resources. It never
// changes control state; that happens in settle.
func (c *Combatant) advance(dt float64) {
	if c.state == StateDead {
		if c.deathTimer.Tick(dt) {
			c.removable = true
		}
		return
	}

	c.stateTimer.Tick(dt)
	c.attackCooldown.Tick(dt)
	c.rollCooldown.Tick(dt)

	switch c.state {
	case StateRolling:
		c.roll.Tick(dt)
	case StateAttacking:
		if c.attack != nil {
			c.attack.Advance(dt)
		}
	case StateSprinting:
		c.Resources.DrainStamina(c.cfg.SprintStaminaCost * dt)
	}

	if c.Parry != nil {
		c.Parry.Tick(dt)
	}

	suspended := c.state == StateBlocking || c.state == StateAttacking || c.state == StateSprinting
	c.Resources.Regenerate(dt, suspended)

	if c.Poise.Max > 0 && c.state != StateStaggered {
		c.poiseDelay.Tick(dt)
		if !c.poiseDelay.Active() {
			c.Poise.Restore(c.PoiseRegen * dt)
		}
	}
}

// settle exits timed states whose timers reached zero this tick and drops
// resource-gated states that can no longer be held. It returns the attack
// instance that completed this tick, if any.
func (c *Combatant) settle() (finished *AttackInstance) {
	switch c.state {
	case StateRolling:
		if !c.stateTimer.Active() {
			c.enter(c.restState(), 0)
		}
	case StateAttacking:
		if c.attack == nil || c.attack.Done() {
			finished = c.attack
			c.enter(c.restState(), 0)
		}
	case StateStaggered:
		if !c.stateTimer.Active() {
			if c.Poise.Max > 0 {
				c.Poise.Current = c.Poise.Max
			}
			c.enter(c.restState(), 0)
		}
	case StatePhaseTransition:
		if !c.stateTimer.Active() {
			c.enter(c.restState(), 0)
		}
	case StateSprinting:
		if c.Resources.Stamina.Empty() {
			c.enter(StateMoving, 0)
		}
	case StateBlocking:
		if c.Resources.Stamina.Empty() {
			c.enter(StateIdle, 0)
		}
	}
	return finished
}

// locomotionVelocity returns the ground velocity for the current state.
func (c *Combatant) locomotionVelocity(move Vec3) Vec3 {
	speed := c.cfg.MoveSpeed * c.SpeedMult
	switch c.state {
	case StateRolling:
		return c.rollDir.Scale(c.cfg.RollSpeed)
	case StateAttacking:
		if c.attack != nil && c.attack.Phase() == AttackExecute && c.attack.Def.Lunge > 0 {
			return Forward(c.Heading).Scale(c.attack.Def.Lunge)
		}
		return Vec3{}
	case StateMoving:
		return move.Flat().Normalize().Scale(speed)
	case StateSprinting:
		return move.Flat().Normalize().Scale(speed * c.cfg.SprintMultiplier)
	case StateBlocking:
		return move.Flat().Normalize().Scale(speed * 0.5)
	}
	return Vec3{}
}

// faceToward turns the combatant to look at pos on the ground plane.
func (c *Combatant) faceToward(pos Vec3) {
	d := pos.Sub(c.Position).Flat()
	if d.IsZero() {
		return
	}
	c.Heading = HeadingOf(d)
}

// snapToGround applies the terrain reply, tolerating garbage.
func (c *Combatant) snapToGround(elevation, minY, maxY float64) {
	ground := sanitize(elevation, 0)
	y := ground
	if c.Airborne {
		y += c.FlightHeight
	}
	c.Position.Y = clamp(y, minY, maxY)
	c.Position.X = sanitize(c.Position.X, 0)
	c.Position.Z = sanitize(c.Position.Z, 0)
	if math.IsNaN(c.Heading) || math.IsInf(c.Heading, 0) {
		c.Heading = 0
	}
}
