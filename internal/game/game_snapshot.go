package game

import (
	"sync/atomic"
	"time"

	"ember-arena/internal/config"
)

// CombatantSnapshot is an immutable copy of combatant state for readers
// outside the tick goroutine. Value types only.
type CombatantSnapshot struct {
	ID       CombatantID `json:"id"`
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Profile  string      `json:"profile,omitempty"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Z        float64     `json:"z"`
	Heading  float64     `json:"heading"`
	State    string      `json:"state"`
	Airborne bool        `json:"airborne,omitempty"`

	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"maxHealth"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"maxStamina"`
	Mana       float64 `json:"mana"`
	MaxMana    float64 `json:"maxMana"`
	Poise      float64 `json:"poise,omitempty"`
	MaxPoise   float64 `json:"maxPoise,omitempty"`

	Attack      string  `json:"attack,omitempty"`
	AttackPhase string  `json:"attackPhase,omitempty"`
	Phase       int     `json:"phase,omitempty"`
	Target      uint32  `json:"target,omitempty"`
	IFrames     bool    `json:"iframes,omitempty"`
	ParryOpen   bool    `json:"parryOpen,omitempty"`
	Riposte     uint32  `json:"riposteTarget,omitempty"`
	DamageMult  float64 `json:"damageMult"`
	SpeedMult   float64 `json:"speedMult"`
}

// GameSnapshot is a complete immutable simulation state.
// Slices are pre-allocated and capped.
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	TickNumber uint64    `json:"tick"`
	RNGSeed    int64     `json:"rngSeed"`
	SimTime    float64   `json:"simTime"`
	Controlled uint32    `json:"controlled,omitempty"`

	Combatants []CombatantSnapshot `json:"combatants"`

	CombatantCount int `json:"combatantCount"`
	AliveCount     int `json:"aliveCount"`
	TotalDeaths    int `json:"totalDeaths"`
}

// SnapshotPool uses triple buffering for lock-free producer/consumer.
type SnapshotPool struct {
	snapshots [3]GameSnapshot
	limits    config.ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits config.ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Combatants: make([]CombatantSnapshot, 0, limits.MaxSnapshot),
		}
	}
	return pool
}

// AcquireWrite gets the next write slot (producer only, called from the tick)
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Combatants = snap.Combatants[:0]
	snap.Controlled = 0

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite marks write complete and advances read pointer
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only)
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// Clone returns a deep copy safe to hold past the next two ticks.
func (s *GameSnapshot) Clone() GameSnapshot {
	out := *s
	out.Combatants = append([]CombatantSnapshot(nil), s.Combatants...)
	return out
}

// Find returns the snapshot entry for id.
func (s *GameSnapshot) Find(id CombatantID) (CombatantSnapshot, bool) {
	for _, c := range s.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return CombatantSnapshot{}, false
}

func snapshotOf(c *Combatant) CombatantSnapshot {
	cs := CombatantSnapshot{
		ID:         c.ID,
		Name:       c.Name,
		Kind:       c.Kind.String(),
		X:          c.Position.X,
		Y:          c.Position.Y,
		Z:          c.Position.Z,
		Heading:    c.Heading,
		State:      c.state.String(),
		Airborne:   c.Airborne,
		Health:     c.Resources.Health.Current,
		MaxHealth:  c.Resources.Health.Max,
		Stamina:    c.Resources.Stamina.Current,
		MaxStamina: c.Resources.Stamina.Max,
		Mana:       c.Resources.Mana.Current,
		MaxMana:    c.Resources.Mana.Max,
		Poise:      c.Poise.Current,
		MaxPoise:   c.Poise.Max,
		IFrames:    c.IFrameActive(),
		DamageMult: c.DamageMult,
		SpeedMult:  c.SpeedMult,
	}
	if c.attack != nil {
		cs.Attack = c.attack.Def.Name
		cs.AttackPhase = c.attack.Phase().String()
	}
	if c.AI != nil {
		cs.Profile = c.AI.Profile().Name
		cs.Phase = c.AI.Phase
		cs.Target = uint32(c.AI.Target)
	}
	if c.Parry != nil {
		cs.ParryOpen = c.Parry.WindowOpen()
		if id, ok := c.Parry.RiposteTarget(); ok {
			cs.Riposte = uint32(id)
		}
	}
	return cs
}
