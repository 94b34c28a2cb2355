package game

// AttackPhase defines the stages of an attack.
type AttackPhase int

const (
	AttackWindUp   AttackPhase = iota // Telegraph; no hit tests
	AttackExecute                     // Hit windows open
	AttackRecovery                    // Non-cancelable tail
	AttackDone
)

func (p AttackPhase) String() string {
	switch p {
	case AttackWindUp:
		return "wind_up"
	case AttackExecute:
		return "execute"
	case AttackRecovery:
		return "recovery"
	default:
		return "done"
	}
}

// AttackDefinition is immutable per-move data shared by every instance of
// the move. Durations are in seconds.
type AttackDefinition struct {
	Name        string    `json:"name"`
	WindUp      float64   `json:"windUp"`
	Execute     float64   `json:"execute"`
	Recovery    float64   `json:"recovery"`
	HitTimes    []float64 `json:"hitTimes,omitempty"` // Offsets into execute where each hit window opens
	Damage      float64   `json:"damage"`
	Hitbox      Hitbox    `json:"hitbox"`
	StaminaCost float64   `json:"staminaCost"`
	ManaCost    float64   `json:"manaCost"`
	Cooldown    float64   `json:"cooldown"` // Attack cooldown started when the move begins
	Lunge       float64   `json:"lunge"`    // Forward speed while executing
}

// Total returns the full duration of the move.
func (d *AttackDefinition) Total() float64 {
	return d.WindUp + d.Execute + d.Recovery
}

// Steps returns the number of independently deduplicated hit windows.
func (d *AttackDefinition) Steps() int {
	if len(d.HitTimes) == 0 {
		return 1
	}
	return len(d.HitTimes)
}

// stepWindow returns the execute-local [start, end) of hit window i.
func (d *AttackDefinition) stepWindow(i int) (float64, float64) {
	if len(d.HitTimes) == 0 {
		return 0, d.Execute
	}
	start := d.HitTimes[i]
	end := d.Execute
	if i+1 < len(d.HitTimes) {
		end = d.HitTimes[i+1]
	}
	return start, end
}

// AttackInstance is one live occurrence of a definition bound to an attacker.
type AttackInstance struct {
	ID         uint64
	Def        *AttackDefinition
	AttackerID CombatantID
	Elapsed    float64
	HasHit     bool

	// Caller-supplied situational flags.
	Critical bool
	Riposte  bool

	// TargetID restricts hit tests to one defender when non-zero.
	TargetID CombatantID
	// Anchor is a world position captured at start (leap landing point).
	Anchor Vec3

	prevElapsed float64
}

// Advance moves the instance clock forward.
func (a *AttackInstance) Advance(dt float64) {
	a.prevElapsed = a.Elapsed
	a.Elapsed += dt
}

// Phase returns the sub-phase at the current elapsed time.
func (a *AttackInstance) Phase() AttackPhase {
	d := a.Def
	t := a.Elapsed + timeEpsilon
	switch {
	case t < d.WindUp:
		return AttackWindUp
	case t < d.WindUp+d.Execute:
		return AttackExecute
	case t < d.Total():
		return AttackRecovery
	default:
		return AttackDone
	}
}

// Done reports whether the full duration has elapsed.
func (a *AttackInstance) Done() bool { return a.Elapsed+timeEpsilon >= a.Def.Total() }

// Remaining returns the time left before the move ends.
func (a *AttackInstance) Remaining() float64 {
	r := a.Def.Total() - a.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

// DueSteps appends the hit windows that overlap the time advanced since the
// previous tick. A large delta therefore never skips a short window.
func (a *AttackInstance) DueSteps(buf []int) []int {
	d := a.Def
	lo := a.prevElapsed + timeEpsilon - d.WindUp
	hi := a.Elapsed + timeEpsilon - d.WindUp
	if hi < 0 || lo >= d.Execute {
		return buf
	}
	for i := 0; i < d.Steps(); i++ {
		start, end := d.stepWindow(i)
		if start <= hi && end > lo {
			buf = append(buf, i)
		}
	}
	return buf
}
