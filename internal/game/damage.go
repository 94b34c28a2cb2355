package game

import (
	"fmt"
	"log"
	"math"

	"ember-arena/internal/config"
)

// DamageFlags are the situational multipliers applied to one hit.
type DamageFlags struct {
	Critical bool `json:"critical"`
	Backstab bool `json:"backstab"`
	Riposte  bool `json:"riposte"`
}

// DamageInput is everything the formula needs.
type DamageInput struct {
	Base     float64 // Attack base damage (already phase-scaled)
	Scale    float64 // Area falloff; 0 means 1
	Strength float64 // Attacker strength
	Defense  float64 // Defender equipped defense
	Flags    DamageFlags
}

// StrengthBonus is the flat damage added by attacker strength.
func StrengthBonus(strength float64, cfg *config.CombatConfig) float64 {
	return math.Max(0, (strength-cfg.StrengthBaseline)*cfg.StrengthScale)
}

// Mitigation is the flat damage removed by defender defense.
func Mitigation(defense float64, cfg *config.CombatConfig) float64 {
	return math.Max(0, defense*cfg.DefenseScale)
}

// ComputeDamage applies, in order: multipliers, strength, mitigation,
// floor, and the minimum of 1.
func ComputeDamage(in DamageInput, cfg *config.CombatConfig) int {
	dmg := sanitize(in.Base, 0)
	if in.Scale > 0 {
		dmg *= in.Scale
	}
	if in.Flags.Critical {
		dmg *= cfg.CriticalMultiplier
	}
	if in.Flags.Backstab {
		dmg *= cfg.BackstabMultiplier
	}
	if in.Flags.Riposte {
		dmg *= cfg.RiposteMultiplier
	}
	dmg += StrengthBonus(in.Strength, cfg)
	dmg -= Mitigation(in.Defense, cfg)
	dmg = math.Floor(dmg)
	if dmg < 1 || math.IsNaN(dmg) {
		return 1
	}
	return int(dmg)
}

// IsBackstab reports whether an attacker at from strikes a defender at to
// from behind: the attacker→defender direction points along the defender's
// own facing.
func IsBackstab(from, to Vec3, defenderHeading, threshold float64) bool {
	dir := to.Sub(from).Flat().Normalize()
	if dir.IsZero() {
		return false
	}
	return dir.Dot(Forward(defenderHeading)) > threshold
}

// HitOutcome classifies what a positive hit test turned into.
type HitOutcome uint8

const (
	HitIgnored HitOutcome = iota // Dedup, dead defender, registry full
	HitEvaded                    // I-frames or phase-transition immunity
	HitParried
	HitBlocked
	HitDamaged
	HitKilled
)

func (o HitOutcome) String() string {
	switch o {
	case HitEvaded:
		return "evaded"
	case HitParried:
		return "parried"
	case HitBlocked:
		return "blocked"
	case HitDamaged:
		return "damaged"
	case HitKilled:
		return "killed"
	default:
		return "ignored"
	}
}

// refuseHit counts a hit dropped by a saturated registry. The warning logs
// once until the registry drains.
func (e *Engine) refuseHit(a, d *Combatant) {
	e.observer.ObserveRefusedHit()
	if e.hitsFull {
		return
	}
	e.hitsFull = true
	log.Printf("⚠️ Hit registry full (%d records), dropping hit %s -> %s", e.hits.Len(), a.Name, d.Name)
}

// resolveHit runs the full path for one positive hit test of step of inst
// against d. Effects apply immediately.
func (e *Engine) resolveHit(a, d *Combatant, inst *AttackInstance, step int, scale float64) HitOutcome {
	if !d.Alive() {
		return HitIgnored
	}

	key := HitKey{InstanceID: inst.ID, Step: step, AttackerID: a.ID, DefenderID: d.ID}
	if !e.hits.Register(key, math.Max(e.cfg.HitRecordTTL, inst.Remaining())) {
		if !e.hits.Has(key) {
			e.refuseHit(a, d)
		}
		return HitIgnored
	}
	inst.HasHit = true

	// Invulnerability bypasses block and parry entirely.
	if d.IsInvulnerable() {
		outcome := "iframe"
		if d.state == StatePhaseTransition {
			outcome = "immune"
		} else {
			e.collab.Feedback.SpawnEffect("evade", d.Position, 0.5)
		}
		e.emit(EventTypeHit, a.ID, HitPayload{
			AttackerID: a.ID, DefenderID: d.ID, InstanceID: inst.ID, Step: step, Outcome: outcome,
		})
		return HitEvaded
	}

	if d.Parry != nil && d.Parry.TryParry(a.ID) {
		e.collab.Feedback.SpawnEffect("parry", d.Position, 1)
		e.emit(EventTypeParry, d.ID, ParryPayload{DefenderID: d.ID, AttackerID: a.ID, InstanceID: inst.ID})
		e.observer.ObserveParry()
		log.Printf("🛡️ %s parried %s", d.Name, a.Name)
		if a.Staggerable && a.ForceStagger(e.cfg.ParryStaggerTime) {
			e.onStagger(a, "parry", e.cfg.ParryStaggerTime)
		}
		return HitParried
	}

	flags := DamageFlags{
		Critical: inst.Critical,
		Riposte:  inst.Riposte,
		Backstab: IsBackstab(a.Position, d.Position, d.Heading, e.cfg.BackstabDotThreshold),
	}
	dmg := ComputeDamage(DamageInput{
		Base:     inst.Def.Damage * a.DamageMult,
		Scale:    scale,
		Strength: a.Strength,
		Defense:  d.Defense,
		Flags:    flags,
	}, &e.cfg)

	blocked := false
	if d.state == StateBlocking && !flags.Backstab &&
		facingAngle(d.Position, d.Heading, a.Position) <= e.cfg.BlockHalfAngle {
		blocked = true
		d.Resources.DrainStamina(float64(dmg) * e.cfg.BlockStaminaPerDamage)
		dmg = int(math.Floor(float64(dmg) * (1 - e.cfg.BlockAbsorb)))
		e.collab.Feedback.SpawnEffect("block", d.Position, 0.6)
		if d.Resources.Stamina.Empty() && d.ForceStagger(e.cfg.StaggerDuration) {
			e.onStagger(d, "guard_break", e.cfg.StaggerDuration)
		}
	}

	d.TakeDamage(float64(dmg))

	e.collab.Feedback.ShowNumber(d.Position, dmg, flags.Critical || flags.Backstab || flags.Riposte)
	e.collab.Feedback.SpawnEffect("hit", d.Position, math.Min(1, float64(dmg)/50))
	e.emit(EventTypeDamage, a.ID, DamagePayload{
		AttackerID: a.ID,
		DefenderID: d.ID,
		InstanceID: inst.ID,
		Step:       step,
		Attack:     inst.Def.Name,
		Damage:     dmg,
		DefenderHP: d.Resources.Health.Current,
		Critical:   flags.Critical,
		Backstab:   flags.Backstab,
		Riposte:    flags.Riposte,
		Blocked:    blocked,
	})
	e.observer.ObserveDamage(d.Kind, dmg, flags)

	if !d.Alive() {
		e.onDeath(d, a)
		return HitKilled
	}

	switch {
	case d.Poise.Max > 0:
		if d.ApplyPoiseDamage(float64(dmg) * d.PoiseFactor) {
			e.onStagger(d, "poise", e.cfg.StaggerDuration)
		}
	case !blocked && float64(dmg) > e.cfg.StaggerThreshold:
		if d.ForceStagger(e.cfg.StaggerDuration) {
			e.onStagger(d, "damage", e.cfg.StaggerDuration)
		}
	}

	if d.AI != nil {
		if d.AI.CheckPhase(d) {
			e.onPhase(d)
		}
		if d.AI.Target == 0 {
			d.AI.Target = a.ID
		}
		d.AI.Aggro = true
	}

	if blocked {
		return HitBlocked
	}
	return HitDamaged
}

func (e *Engine) onStagger(c *Combatant, cause string, length float64) {
	e.emit(EventTypeStagger, c.ID, StaggerPayload{ID: c.ID, Cause: cause, Poise: c.Poise.Current, Length: length})
	e.observer.ObserveStagger(cause)
}

func (e *Engine) onPhase(c *Combatant) {
	p := c.AI.Profile()
	e.emit(EventTypePhase, c.ID, PhasePayload{
		ID:         c.ID,
		Phase:      c.AI.Phase,
		HealthFrac: c.Resources.Health.Fraction(),
		DamageMult: c.DamageMult,
		SpeedMult:  c.SpeedMult,
	})
	e.observer.ObservePhase(p.Name, c.AI.Phase)
	e.collab.Feedback.ShowMessage(fmt.Sprintf("%s grows enraged", c.Name))
	log.Printf("🔥 %s entered phase %d (%.0f%% health)", c.Name, c.AI.Phase, c.Resources.Health.Fraction()*100)
}

// onDeath fires progression hooks exactly once per death transition.
func (e *Engine) onDeath(c *Combatant, killer *Combatant) {
	e.totalDeaths++
	reward := 0
	if c.AI != nil {
		p := c.AI.Profile()
		reward = p.Reward
		e.collab.Progression.GrantCurrency(reward)
		if p.Boss {
			e.collab.Progression.ShowVictory(c.Name)
		}
		e.collab.Feedback.ShowMessage(fmt.Sprintf("%s defeated", c.Name))
	} else {
		e.collab.Feedback.ShowMessage("YOU DIED")
	}

	var killerID CombatantID
	killerName := "unknown"
	if killer != nil {
		killerID, killerName = killer.ID, killer.Name
	}
	e.emit(EventTypeDeath, c.ID, DeathPayload{ID: c.ID, KillerID: killerID, Reward: reward})
	e.observer.ObserveDeath(c.Kind)
	log.Printf("💀 %s killed by %s", c.Name, killerName)
}
