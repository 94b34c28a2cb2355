package game

// BehaviorKind selects how an AI attack moves its owner while the attack
// instance runs. Hit tests always go through the shared damage path.
type BehaviorKind uint8

const (
	BehaviorStrike BehaviorKind = iota // Stand and swing, optional lunge during execute
	BehaviorLeap                       // Jump to the anchor captured at start, land on execute end
	BehaviorCharge                     // Run forward through execute
	BehaviorSlam                       // Stationary area burst
	BehaviorSweep                      // Multi-hit spin drifting toward the target
	BehaviorDive                       // Airborne swoop to the anchor; lands the flyer
)

var behaviorNames = [...]string{
	BehaviorStrike: "strike",
	BehaviorLeap:   "leap",
	BehaviorCharge: "charge",
	BehaviorSlam:   "slam",
	BehaviorSweep:  "sweep",
	BehaviorDive:   "dive",
}

func (k BehaviorKind) String() string {
	if int(k) < len(behaviorNames) {
		return behaviorNames[k]
	}
	return "unknown"
}

// AttackBehavior is one named AI move.
type AttackBehavior struct {
	Kind  BehaviorKind      `json:"kind"`
	Def   *AttackDefinition `json:"def"`
	Speed float64           `json:"speed"` // Movement speed for charge/sweep/dive
	Track bool              `json:"track"` // Keep turning toward the target during wind-up
}

// Steer returns the velocity the attack imposes on self for this tick.
// target may be nil once the target has despawned.
func (b *AttackBehavior) Steer(inst *AttackInstance, self, target *Combatant, dt float64) Vec3 {
	phase := inst.Phase()
	if b.Track && phase == AttackWindUp && target != nil && target.Alive() {
		self.faceToward(target.Position)
		inst.Anchor = target.Position
	}

	switch b.Kind {
	case BehaviorStrike:
		if phase == AttackExecute && inst.Def.Lunge > 0 {
			return Forward(self.Heading).Scale(inst.Def.Lunge * self.SpeedMult)
		}

	case BehaviorLeap:
		if phase != AttackExecute {
			return Vec3{}
		}
		// Arrive exactly when execute ends.
		left := inst.Def.WindUp + inst.Def.Execute - inst.Elapsed
		to := inst.Anchor.Sub(self.Position).Flat()
		if left <= dt || to.FlatLength() < 1e-3 {
			return to.Scale(1 / maxf(dt, 1e-6))
		}
		return to.Scale(1 / left)

	case BehaviorCharge:
		if phase == AttackExecute {
			return Forward(self.Heading).Scale(b.Speed * self.SpeedMult)
		}

	case BehaviorSweep:
		if phase == AttackExecute && target != nil {
			dir := target.Position.Sub(self.Position).Flat().Normalize()
			return dir.Scale(b.Speed * self.SpeedMult)
		}

	case BehaviorDive:
		switch phase {
		case AttackWindUp:
			return Vec3{}
		case AttackExecute:
			self.Airborne = false
			to := inst.Anchor.Sub(self.Position).Flat()
			if to.FlatLength() <= b.Speed*self.SpeedMult*dt {
				return to.Scale(1 / maxf(dt, 1e-6))
			}
			return to.Normalize().Scale(b.Speed * self.SpeedMult)
		}
	}
	return Vec3{}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
