package game

import (
	"math"
	"sort"
)

// Weapon represents an equippable weapon: its two moves and scaling.
type Weapon struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Light *AttackDefinition `json:"light"`
	Heavy *AttackDefinition `json:"heavy"`
}

// Weapons is the map of all available weapons.
// NOTE: every reach must exceed 1.2 (two body radii) to connect at all.
var Weapons = map[string]Weapon{
	"straight_sword": {
		ID:   "straight_sword",
		Name: "Straight Sword",
		Light: &AttackDefinition{
			Name: "straight_sword_light", WindUp: 0.15, Execute: 0.15, Recovery: 0.25,
			Damage: 30, StaminaCost: 15, Cooldown: 0.1, Lunge: 2,
			Hitbox: Hitbox{Type: HitboxCone, Range: 2.5, HalfAngle: math.Pi / 3},
		},
		Heavy: &AttackDefinition{
			Name: "straight_sword_heavy", WindUp: 0.45, Execute: 0.2, Recovery: 0.4,
			Damage: 48, StaminaCost: 28, Cooldown: 0.2, Lunge: 3,
			Hitbox: Hitbox{Type: HitboxCone, Range: 2.7, HalfAngle: math.Pi / 4},
		},
	},
	"greataxe": {
		ID:   "greataxe",
		Name: "Greataxe",
		Light: &AttackDefinition{
			Name: "greataxe_light", WindUp: 0.4, Execute: 0.2, Recovery: 0.5,
			Damage: 52, StaminaCost: 26, Cooldown: 0.2, Lunge: 1.5,
			Hitbox: Hitbox{Type: HitboxCone, Range: 2.8, HalfAngle: 5 * math.Pi / 12},
		},
		Heavy: &AttackDefinition{
			Name: "greataxe_heavy", WindUp: 0.8, Execute: 0.15, Recovery: 0.7,
			Damage: 80, StaminaCost: 40, Cooldown: 0.3,
			Hitbox: Hitbox{Type: HitboxCircle, Radius: 2.6, Offset: 1.2, Falloff: true},
		},
	},
	"spear": {
		ID:   "spear",
		Name: "Spear",
		Light: &AttackDefinition{
			Name: "spear_light", WindUp: 0.18, Execute: 0.12, Recovery: 0.25,
			Damage: 26, StaminaCost: 14, Cooldown: 0.1, Lunge: 2.5,
			Hitbox: Hitbox{Type: HitboxLine, Range: 3.6, Width: 0.5},
		},
		Heavy: &AttackDefinition{
			Name: "spear_heavy", WindUp: 0.35, Execute: 0.45, Recovery: 0.4,
			HitTimes: []float64{0, 0.15, 0.3}, // Three quick jabs
			Damage:   18, StaminaCost: 30, Cooldown: 0.2, Lunge: 1,
			Hitbox:   Hitbox{Type: HitboxLine, Range: 3.4, Width: 0.5},
		},
	},
	"katana": {
		ID:   "katana",
		Name: "Katana",
		Light: &AttackDefinition{
			Name: "katana_light", WindUp: 0.12, Execute: 0.12, Recovery: 0.22,
			Damage: 28, StaminaCost: 13, Cooldown: 0.08, Lunge: 2.5,
			Hitbox: Hitbox{Type: HitboxCone, Range: 2.6, HalfAngle: math.Pi / 4},
		},
		Heavy: &AttackDefinition{
			Name: "katana_heavy", WindUp: 0.3, Execute: 0.3, Recovery: 0.35,
			HitTimes: []float64{0, 0.15}, // Draw cut, return cut
			Damage:   30, StaminaCost: 26, Cooldown: 0.15, Lunge: 3,
			Hitbox:   Hitbox{Type: HitboxCone, Range: 2.6, HalfAngle: math.Pi / 3},
		},
	},
}

// Spells are mana-costed moves available to every player-class combatant.
var Spells = map[string]*AttackDefinition{
	"flame_burst": {
		Name: "flame_burst", WindUp: 0.35, Execute: 0.1, Recovery: 0.4,
		Damage: 40, ManaCost: 15, Cooldown: 0.5,
		Hitbox: Hitbox{Type: HitboxCircle, Radius: 4, Offset: 2, Falloff: true},
	},
}

// RiposteAttack is the move executed against a parried target.
var RiposteAttack = &AttackDefinition{
	Name: "riposte", WindUp: 0.1, Execute: 0.1, Recovery: 0.4,
	Damage: 40,
	Hitbox: Hitbox{Type: HitboxLine, Range: 3.0, Width: 1.0},
}

// DefaultWeaponID is used when a loadout names an unknown weapon.
const DefaultWeaponID = "straight_sword"

// GetWeapon returns a weapon by ID, defaults to the straight sword.
func GetWeapon(id string) Weapon {
	if w, ok := Weapons[id]; ok {
		return w
	}
	return Weapons[DefaultWeaponID]
}

// GetAllWeapons returns all weapons sorted by ID.
func GetAllWeapons() []Weapon {
	weapons := make([]Weapon, 0, len(Weapons))
	for _, w := range Weapons {
		weapons = append(weapons, w)
	}
	sort.Slice(weapons, func(i, j int) bool { return weapons[i].ID < weapons[j].ID })
	return weapons
}
