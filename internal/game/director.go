package game

import "math/rand"

// Director is the per-opponent decision layer on top of the state machine.
// It holds its target as a handle and never an owning reference.
type Director struct {
	profile *Profile

	Phase  int         // 1-based, never decreases
	Target CombatantID // 0 = none
	Aggro  bool
	Home   Vec3 // Arena centre / return point

	behavior    *AttackBehavior // Behavior driving the live attack instance
	groundTimer Timer           // Flyers stay landed until this expires
	rng         *rand.Rand
}

// NewDirector creates a director in phase 1.
func NewDirector(p *Profile, home Vec3, rng *rand.Rand) *Director {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Director{profile: p, Phase: 1, Home: home, rng: rng}
}

// Profile returns the species definition.
func (d *Director) Profile() *Profile { return d.profile }

// Behavior returns the behavior of the running attack, or nil.
func (d *Director) Behavior() *AttackBehavior { return d.behavior }

// LegalAttacks returns the attack names for the current phase.
func (d *Director) LegalAttacks() []string {
	i := d.Phase - 1
	if i < 0 || i >= len(d.profile.Phases) {
		return nil
	}
	return d.profile.Phases[i].Attacks
}

// pick selects uniformly among the current phase's attacks.
func (d *Director) pick() (string, *AttackBehavior) {
	names := d.LegalAttacks()
	if len(names) == 0 {
		return "", nil
	}
	name := names[d.rng.Intn(len(names))]
	return name, d.profile.Behaviors[name]
}

// Decide runs one tick of perception and action selection. It returns the
// attack instance started this tick (if any) and the velocity to apply.
func (d *Director) Decide(self, target *Combatant, dt float64, nextID func() uint64) (*AttackInstance, Vec3) {
	switch self.state {
	case StateDead, StateStaggered, StatePhaseTransition:
		return nil, Vec3{}
	case StateAttacking:
		if d.behavior == nil || self.attack == nil {
			return nil, Vec3{}
		}
		return nil, d.behavior.Steer(self.attack, self, target, dt)
	}
	d.behavior = nil
	p := d.profile

	if target == nil || !target.Alive() {
		d.Target = 0
		d.Aggro = false
	} else {
		dist := self.Position.FlatDistance(target.Position)
		switch {
		case !d.Aggro && dist <= p.DetectionRadius:
			d.Aggro = true
		case d.Aggro && dist > p.DetectionRadius*2:
			d.Aggro = false
		}
	}

	if !d.Aggro {
		return nil, d.returnHome(self)
	}

	if self.CanFly && !self.Airborne {
		d.groundTimer.Tick(dt)
		if !d.groundTimer.Active() {
			self.Airborne = true
		}
	}

	self.faceToward(target.Position)
	if rest := self.restState(); self.state != rest {
		self.enter(rest, 0)
	}

	dist := self.Position.FlatDistance(target.Position)
	if !self.attackCooldown.Active() && dist <= p.EngageRange {
		if _, b := d.pick(); b != nil && self.CanAttack(b.Def) {
			if inst := self.TryAttack(b.Def, nextID()); inst != nil {
				inst.Anchor = target.Position
				d.behavior = b
				if b.Kind == BehaviorDive {
					d.groundTimer.Start(p.GroundTime)
				}
				return inst, Vec3{}
			}
		}
	}

	if dist <= p.StopDistance {
		return nil, Vec3{}
	}
	dir := target.Position.Sub(self.Position).Flat().Normalize()
	return nil, dir.Scale(p.MoveSpeed * self.SpeedMult)
}

func (d *Director) returnHome(self *Combatant) Vec3 {
	to := d.Home.Sub(self.Position).Flat()
	if to.FlatLength() < 0.5 {
		if rest := self.restState(); self.state != rest {
			self.enter(rest, 0)
		}
		return Vec3{}
	}
	self.faceToward(d.Home)
	want := StateMoving
	if self.Airborne {
		want = StateFlying
	}
	if self.state != want {
		self.enter(want, 0)
	}
	return to.Normalize().Scale(d.profile.MoveSpeed * 0.5 * self.SpeedMult)
}

// CheckPhase advances at most one phase when health has fallen below the
// next threshold. Multipliers are applied exactly once, on entry.
func (d *Director) CheckPhase(self *Combatant) bool {
	if !self.Alive() || self.state == StatePhaseTransition || d.Phase >= len(d.profile.Phases) {
		return false
	}
	next := d.profile.Phases[d.Phase]
	if self.Resources.Health.Fraction() >= next.Threshold {
		return false
	}

	d.Phase++
	if next.DamageMult > 0 {
		self.DamageMult *= next.DamageMult
	}
	if next.SpeedMult > 0 {
		self.SpeedMult *= next.SpeedMult
	}
	d.behavior = nil
	self.enter(StatePhaseTransition, d.profile.TransitionTime)
	return true
}

// Leash keeps self inside its arena.
func (d *Director) Leash(self *Combatant) {
	r := d.profile.ArenaRadius
	if r <= 0 {
		return
	}
	off := self.Position.Sub(d.Home).Flat()
	if l := off.FlatLength(); l > r {
		off = off.Scale(r / l)
		self.Position.X = d.Home.X + off.X
		self.Position.Z = d.Home.Z + off.Z
	}
}
