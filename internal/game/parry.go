package game

// ParryState tracks a defender's parry and riposte windows. The two
// windows are mutually exclusive and at most one riposte target exists.
type ParryState struct {
	window        Timer
	cooldown      Timer
	riposte       Timer
	riposteTarget CombatantID
	consumed      bool
	wasBlocking   bool

	windowLen   float64
	cooldownLen float64
	riposteLen  float64
}

// NewParryState creates parry bookkeeping with the given durations.
func NewParryState(window, cooldown, riposte float64) *ParryState {
	return &ParryState{windowLen: window, cooldownLen: cooldown, riposteLen: riposte}
}

// Tick advances every window. An expired riposte window forgets its target.
func (p *ParryState) Tick(dt float64) {
	p.window.Tick(dt)
	p.cooldown.Tick(dt)
	if p.riposte.Tick(dt) {
		p.riposteTarget = 0
	}
}

// ObserveBlock feeds the current block reading. A not-blocking → blocking
// edge opens the parry window when off cooldown, and always restarts the
// cooldown. It returns true when a window opened.
func (p *ParryState) ObserveBlock(blocking bool) bool {
	rising := blocking && !p.wasBlocking
	p.wasBlocking = blocking
	if !rising || p.cooldown.Active() {
		return false
	}
	p.cooldown.Start(p.cooldownLen)
	if p.riposte.Active() {
		return false
	}
	p.window.Start(p.windowLen)
	p.consumed = false
	return true
}

// WindowOpen reports whether an incoming hit would be parried.
func (p *ParryState) WindowOpen() bool {
	return p.window.Active() && !p.consumed
}

// TryParry consumes the open window against attacker and binds the riposte
// window to it. It returns false when no window is open.
func (p *ParryState) TryParry(attacker CombatantID) bool {
	if !p.WindowOpen() {
		return false
	}
	p.consumed = true
	p.window.Clear()
	p.riposte.Start(p.riposteLen)
	p.riposteTarget = attacker
	return true
}

// RiposteTarget returns the bound target while the riposte window is open.
func (p *ParryState) RiposteTarget() (CombatantID, bool) {
	if !p.riposte.Active() || p.riposteTarget == 0 {
		return 0, false
	}
	return p.riposteTarget, true
}

// CanRiposte reports whether a riposte against target is legal now.
func (p *ParryState) CanRiposte(target CombatantID) bool {
	id, ok := p.RiposteTarget()
	return ok && id == target
}

// ConsumeRiposte closes the riposte window if target matches.
func (p *ParryState) ConsumeRiposte(target CombatantID) bool {
	if !p.CanRiposte(target) {
		return false
	}
	p.riposte.Clear()
	p.riposteTarget = 0
	return true
}

// Reset clears every window (death, respawn).
func (p *ParryState) Reset() {
	p.window.Clear()
	p.cooldown.Clear()
	p.riposte.Clear()
	p.riposteTarget = 0
	p.consumed = false
	p.wasBlocking = false
}
