package game

import "math"

// Pool is a current/maximum pair clamped to [0, Max].
type Pool struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

// NewPool returns a full pool.
func NewPool(max float64) Pool {
	max = math.Max(0, sanitize(max, 0))
	return Pool{Current: max, Max: max}
}

// Fraction returns Current/Max, or 0 for an empty pool.
func (p Pool) Fraction() float64 {
	if p.Max <= 0 {
		return 0
	}
	return p.Current / p.Max
}

// Has reports whether at least n is available.
func (p Pool) Has(n float64) bool { return p.Current >= n }

// Empty reports whether nothing is left.
func (p Pool) Empty() bool { return p.Current <= 0 }

// Spend debits n if fully available. Partial spends never happen.
func (p *Pool) Spend(n float64) bool {
	if n < 0 || !p.Has(n) {
		return false
	}
	p.Current -= n
	return true
}

// Drain debits up to n and returns how much was taken.
func (p *Pool) Drain(n float64) float64 {
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	taken := math.Min(n, p.Current)
	p.Current -= taken
	return taken
}

// Restore credits n up to Max.
func (p *Pool) Restore(n float64) {
	if n <= 0 || math.IsNaN(n) {
		return
	}
	p.Current = math.Min(p.Max, p.Current+n)
}

// SetMax changes the cap. The current value keeps at least its prior
// proportion of the cap and never exceeds the new cap.
func (p *Pool) SetMax(max float64) {
	max = math.Max(0, sanitize(max, p.Max))
	frac := p.Fraction()
	p.Max = max
	p.Current = math.Min(max, math.Max(p.Current, frac*max))
}

// Ledger owns a combatant's health, stamina and optional mana.
type Ledger struct {
	Health  Pool `json:"health"`
	Stamina Pool `json:"stamina"`
	Mana    Pool `json:"mana"`
	HasMana bool `json:"hasMana"`

	StaminaRegen float64 `json:"-"`
	ManaRegen    float64 `json:"-"`
	RegenDelay   float64 `json:"-"`

	regenDelay Timer
}

// NewLedger returns a ledger with full pools. A zero manaMax means no mana pool.
func NewLedger(healthMax, staminaMax, manaMax float64) Ledger {
	return Ledger{
		Health:  NewPool(healthMax),
		Stamina: NewPool(staminaMax),
		Mana:    NewPool(manaMax),
		HasMana: manaMax > 0,
	}
}

// Regenerate refills stamina and mana once the regen delay has elapsed.
// suspended is true while blocking, attacking or sprinting.
func (l *Ledger) Regenerate(dt float64, suspended bool) {
	l.regenDelay.Tick(dt)
	if suspended || l.regenDelay.Active() {
		return
	}
	l.Stamina.Restore(l.StaminaRegen * dt)
	if l.HasMana {
		l.Mana.Restore(l.ManaRegen * dt)
	}
}

// SpendStamina debits stamina atomically and restarts the regen delay.
func (l *Ledger) SpendStamina(cost float64) bool {
	if !l.Stamina.Spend(cost) {
		return false
	}
	if cost > 0 {
		l.regenDelay.Start(l.RegenDelay)
	}
	return true
}

// CanAfford reports whether both costs are covered without spending.
func (l *Ledger) CanAfford(stamina, mana float64) bool {
	if !l.Stamina.Has(stamina) {
		return false
	}
	if mana > 0 && (!l.HasMana || !l.Mana.Has(mana)) {
		return false
	}
	return true
}

// Pay debits stamina and mana together or not at all.
func (l *Ledger) Pay(stamina, mana float64) bool {
	if !l.CanAfford(stamina, mana) {
		return false
	}
	l.Stamina.Spend(stamina)
	if mana > 0 {
		l.Mana.Spend(mana)
	}
	if stamina > 0 || mana > 0 {
		l.regenDelay.Start(l.RegenDelay)
	}
	return true
}

// DrainStamina takes up to n stamina (sprint, block chip) and restarts the delay.
func (l *Ledger) DrainStamina(n float64) float64 {
	taken := l.Stamina.Drain(n)
	if taken > 0 {
		l.regenDelay.Start(l.RegenDelay)
	}
	return taken
}

// Damage removes health and returns the amount actually removed.
func (l *Ledger) Damage(amount float64) float64 {
	return l.Health.Drain(amount)
}

// Heal restores health up to the cap.
func (l *Ledger) Heal(amount float64) {
	l.Health.Restore(amount)
}

// RegenDelayActive reports whether regeneration is still on hold.
func (l *Ledger) RegenDelayActive() bool { return l.regenDelay.Active() }
