package game

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"ember-arena/internal/config"
)

// PhaseSpec is one difficulty tier of an AI profile. Phase 1 ignores
// Threshold; later phases begin once the health fraction drops below it.
type PhaseSpec struct {
	Threshold  float64  `json:"threshold"`
	Attacks    []string `json:"attacks"`
	DamageMult float64  `json:"damageMult"` // Applied once on entering the phase
	SpeedMult  float64  `json:"speedMult"`
}

// Profile is the declarative definition of an AI species.
type Profile struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`

	MaxHealth       float64 `json:"maxHealth"`
	MaxPoise        float64 `json:"maxPoise"`
	PoiseFactor     float64 `json:"poiseFactor"` // Poise lost per point of damage
	PoiseRegen      float64 `json:"poiseRegen"`
	PoiseRegenDelay float64 `json:"poiseRegenDelay"`
	Strength        float64 `json:"strength"`
	Defense         float64 `json:"defense"`

	MoveSpeed       float64 `json:"moveSpeed"`
	DetectionRadius float64 `json:"detectionRadius"`
	EngageRange     float64 `json:"engageRange"`  // Attacks are chosen only inside this distance
	StopDistance    float64 `json:"stopDistance"` // Chasing stops this close to the target
	ArenaRadius     float64 `json:"arenaRadius"`  // 0 = unleashed
	TransitionTime  float64 `json:"transitionTime"`

	CanFly       bool    `json:"canFly"`
	FlightHeight float64 `json:"flightHeight"`
	GroundTime   float64 `json:"groundTime"` // Time spent grounded after a dive

	Staggerable bool `json:"staggerable"` // Parry success staggers it
	Boss        bool `json:"boss"`
	Reward      int  `json:"reward"`

	Phases    []PhaseSpec                `json:"phases"`
	Behaviors map[string]*AttackBehavior `json:"behaviors"`
}

// Validate checks that every listed attack exists and thresholds descend.
func (p *Profile) Validate() error {
	if len(p.Phases) == 0 {
		return fmt.Errorf("profile %s: no phases", p.Name)
	}
	if p.MaxHealth <= 0 {
		return fmt.Errorf("profile %s: max health must be positive", p.Name)
	}
	prev := 1.0
	for i, ph := range p.Phases {
		if i > 0 {
			if ph.Threshold <= 0 || ph.Threshold >= prev {
				return fmt.Errorf("profile %s: phase %d threshold %v must be in (0, %v)", p.Name, i+1, ph.Threshold, prev)
			}
			prev = ph.Threshold
		}
		for _, name := range ph.Attacks {
			b, ok := p.Behaviors[name]
			if !ok || b == nil || b.Def == nil {
				return fmt.Errorf("profile %s: phase %d lists unknown attack %q", p.Name, i+1, name)
			}
		}
	}
	return nil
}

// NewEnemy creates an AI combatant from a profile.
func NewEnemy(id CombatantID, p *Profile, pos Vec3, cfg *config.CombatConfig, rng *rand.Rand) *Combatant {
	c := &Combatant{
		ID:              id,
		Name:            p.DisplayName,
		Kind:            KindAI,
		Position:        pos,
		Resources:       NewLedger(p.MaxHealth, 0, 0),
		Poise:           NewPool(p.MaxPoise),
		PoiseFactor:     p.PoiseFactor,
		PoiseRegen:      p.PoiseRegen,
		PoiseRegenDelay: p.PoiseRegenDelay,
		Strength:        p.Strength,
		Defense:         p.Defense,
		CanFly:          p.CanFly,
		FlightHeight:    p.FlightHeight,
		Staggerable:     p.Staggerable,
		DamageMult:      1,
		SpeedMult:       1,
		state:           StateIdle,
		cfg:             cfg,
	}
	c.AI = NewDirector(p, pos, rng)
	return c
}

var (
	grunt = &Profile{
		Name:        "hollow_soldier",
		DisplayName: "Hollow Soldier",
		MaxHealth:   180, MaxPoise: 40, PoiseFactor: 0.5, PoiseRegen: 10, PoiseRegenDelay: 2,
		Strength: 12, Defense: 6,
		MoveSpeed: 3.5, DetectionRadius: 14, EngageRange: 2.4, StopDistance: 1.6,
		TransitionTime: 1,
		Staggerable:    true,
		Reward:         120,
		Phases: []PhaseSpec{
			{Attacks: []string{"slash", "thrust"}},
		},
		Behaviors: map[string]*AttackBehavior{
			"slash": {Kind: BehaviorStrike, Track: true, Def: &AttackDefinition{
				Name: "slash", WindUp: 0.5, Execute: 0.15, Recovery: 0.6, Cooldown: 0.8,
				Damage: 22, Lunge: 1.5,
				Hitbox: Hitbox{Type: HitboxCone, Range: 2.4, HalfAngle: math.Pi / 3},
			}},
			"thrust": {Kind: BehaviorStrike, Track: true, Def: &AttackDefinition{
				Name: "thrust", WindUp: 0.6, Execute: 0.12, Recovery: 0.5, Cooldown: 1.0,
				Damage: 26, Lunge: 3,
				Hitbox: Hitbox{Type: HitboxLine, Range: 3, Width: 0.5},
			}},
		},
	}

	drake = &Profile{
		Name:        "ember_drake",
		DisplayName: "Ember Drake",
		MaxHealth:   420, MaxPoise: 90, PoiseFactor: 0.4, PoiseRegen: 15, PoiseRegenDelay: 3,
		Strength: 16, Defense: 8,
		MoveSpeed: 6, DetectionRadius: 22, EngageRange: 9, StopDistance: 5,
		TransitionTime: 1.5,
		CanFly:         true, FlightHeight: 4, GroundTime: 2.5,
		Staggerable: true,
		Reward:      600,
		Phases: []PhaseSpec{
			{Attacks: []string{"claw", "dive"}},
			{Threshold: 0.5, Attacks: []string{"claw", "dive", "fire_rain"}, DamageMult: 1.2, SpeedMult: 1.15},
		},
		Behaviors: map[string]*AttackBehavior{
			"claw": {Kind: BehaviorStrike, Track: true, Def: &AttackDefinition{
				Name: "claw", WindUp: 0.4, Execute: 0.3, Recovery: 0.5, Cooldown: 1.0,
				HitTimes: []float64{0, 0.15},
				Damage:   18, Lunge: 2,
				Hitbox:   Hitbox{Type: HitboxCone, Range: 3, HalfAngle: math.Pi / 3},
			}},
			"dive": {Kind: BehaviorDive, Speed: 16, Track: true, Def: &AttackDefinition{
				Name: "dive", WindUp: 0.8, Execute: 0.5, Recovery: 0.9, Cooldown: 1.5,
				Damage: 40,
				Hitbox: Hitbox{Type: HitboxCircle, Radius: 2.5},
			}},
			"fire_rain": {Kind: BehaviorSlam, Track: true, Def: &AttackDefinition{
				Name: "fire_rain", WindUp: 1.0, Execute: 0.6, Recovery: 0.8, Cooldown: 2.0,
				HitTimes: []float64{0, 0.2, 0.4},
				Damage:   20,
				Hitbox:   Hitbox{Type: HitboxCircle, Radius: 6, Falloff: true},
			}},
		},
	}

	// dummy never moves or attacks; used for drills and target practice.
	dummy = &Profile{
		Name:        "training_dummy",
		DisplayName: "Training Dummy",
		MaxHealth:   1000,
		Strength:    10,
		Reward:      10,
		Phases:      []PhaseSpec{{}},
	}

	warden = &Profile{
		Name:        "ashen_warden",
		DisplayName: "Ashen Warden",
		MaxHealth:   2000, MaxPoise: 150, PoiseFactor: 0.5, PoiseRegen: 20, PoiseRegenDelay: 4,
		Strength: 20, Defense: 14,
		MoveSpeed: 4, DetectionRadius: 30, EngageRange: 7, StopDistance: 2.5,
		ArenaRadius:    25,
		TransitionTime: 2.5,
		Staggerable:    true,
		Boss:           true,
		Reward:         5000,
		Phases: []PhaseSpec{
			{Attacks: []string{"cleave", "leap_slam"}},
			{Threshold: 0.5, Attacks: []string{"cleave", "leap_slam", "charge", "whirlwind"}, DamageMult: 1.3, SpeedMult: 1.2},
			{Threshold: 0.2, Attacks: []string{"cleave", "charge", "whirlwind", "eruption"}, DamageMult: 1.2, SpeedMult: 1.15},
		},
		Behaviors: map[string]*AttackBehavior{
			"cleave": {Kind: BehaviorStrike, Track: true, Def: &AttackDefinition{
				Name: "cleave", WindUp: 0.7, Execute: 0.2, Recovery: 0.8, Cooldown: 0.6,
				Damage: 45, Lunge: 2,
				Hitbox: Hitbox{Type: HitboxCone, Range: 3.5, HalfAngle: 5 * math.Pi / 12},
			}},
			"leap_slam": {Kind: BehaviorLeap, Track: true, Def: &AttackDefinition{
				Name: "leap_slam", WindUp: 0.9, Execute: 0.6, Recovery: 1.0, Cooldown: 1.0,
				HitTimes: []float64{0.5},
				Damage:   70,
				Hitbox:   Hitbox{Type: HitboxCircle, Radius: 4, Falloff: true},
			}},
			"charge": {Kind: BehaviorCharge, Speed: 12, Track: true, Def: &AttackDefinition{
				Name: "charge", WindUp: 0.8, Execute: 0.7, Recovery: 0.9, Cooldown: 1.2,
				Damage: 55,
				Hitbox: Hitbox{Type: HitboxCone, Range: 2.5, HalfAngle: math.Pi / 4},
			}},
			"whirlwind": {Kind: BehaviorSweep, Speed: 2.5, Track: true, Def: &AttackDefinition{
				Name: "whirlwind", WindUp: 0.6, Execute: 1.2, Recovery: 0.9, Cooldown: 1.0,
				HitTimes: []float64{0, 0.3, 0.6, 0.9},
				Damage:   28,
				Hitbox:   Hitbox{Type: HitboxCircle, Radius: 3.2},
			}},
			"eruption": {Kind: BehaviorSlam, Track: true, Def: &AttackDefinition{
				Name: "eruption", WindUp: 1.4, Execute: 0.3, Recovery: 1.2, Cooldown: 1.5,
				Damage: 90,
				Hitbox: Hitbox{Type: HitboxCircle, Radius: 8, Falloff: true},
			}},
		},
	}
)

// Profiles is the map of all AI species.
var Profiles = map[string]*Profile{
	grunt.Name:  grunt,
	drake.Name:  drake,
	dummy.Name:  dummy,
	warden.Name: warden,
}

// GetProfile returns a profile by name.
func GetProfile(name string) (*Profile, bool) {
	p, ok := Profiles[name]
	return p, ok
}

// ProfileNames returns all profile names sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for n := range Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
