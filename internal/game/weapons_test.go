package game

import (
	"testing"
)

// TestGetWeapon tests weapon retrieval
func TestGetWeapon(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"straight_sword", "Straight Sword"},
		{"greataxe", "Greataxe"},
		{"spear", "Spear"},
		{"katana", "Katana"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			weapon := GetWeapon(tt.id)
			if weapon.Name != tt.expected {
				t.Errorf("Expected name '%s', got '%s'", tt.expected, weapon.Name)
			}
		})
	}
}

// TestGetWeaponDefaults tests default weapon for unknown ID
func TestGetWeaponDefaults(t *testing.T) {
	weapon := GetWeapon("unknown_weapon")

	if weapon.ID != DefaultWeaponID {
		t.Errorf("Unknown weapon should default to %s, got '%s'", DefaultWeaponID, weapon.ID)
	}
}

// TestGetAllWeapons tests all weapons retrieval
func TestGetAllWeapons(t *testing.T) {
	weapons := GetAllWeapons()

	if len(weapons) != 4 {
		t.Errorf("Expected 4 weapons, got %d", len(weapons))
	}
	for i := 1; i < len(weapons); i++ {
		if weapons[i-1].ID > weapons[i].ID {
			t.Errorf("Weapons should be sorted by ID: %s before %s", weapons[i-1].ID, weapons[i].ID)
		}
	}

	// Verify all weapons have required fields
	for _, w := range weapons {
		if w.ID == "" || w.Name == "" {
			t.Error("Weapon ID and Name should not be empty")
		}
		for _, move := range []*AttackDefinition{w.Light, w.Heavy} {
			if move == nil {
				t.Fatalf("Weapon %s is missing a move", w.ID)
			}
			if move.Damage <= 0 {
				t.Errorf("Move %s should have positive damage", move.Name)
			}
			if move.Execute <= 0 {
				t.Errorf("Move %s should have a positive execute window", move.Name)
			}
			if move.StaminaCost <= 0 {
				t.Errorf("Move %s should cost stamina", move.Name)
			}
		}
		if w.Heavy.StaminaCost <= w.Light.StaminaCost {
			t.Errorf("Weapon %s heavy should cost more than light", w.ID)
		}
	}
}

// TestWeaponReachExceedsBodies tests every move can connect past two body radii
func TestWeaponReachExceedsBodies(t *testing.T) {
	const minReach = 1.2

	moves := []*AttackDefinition{RiposteAttack}
	for _, w := range GetAllWeapons() {
		moves = append(moves, w.Light, w.Heavy)
	}
	for _, s := range Spells {
		moves = append(moves, s)
	}

	for _, m := range moves {
		if m.Hitbox.Reach() <= minReach {
			t.Errorf("Move %s has reach %.2f which is <= %.2f", m.Name, m.Hitbox.Reach(), minReach)
		}
	}
}

// TestHitTimesInsideExecute tests multi-hit offsets fall within execute and ascend
func TestHitTimesInsideExecute(t *testing.T) {
	check := func(d *AttackDefinition) {
		prev := -1.0
		for _, ht := range d.HitTimes {
			if ht < 0 || ht >= d.Execute {
				t.Errorf("Move %s hit time %.2f outside execute %.2f", d.Name, ht, d.Execute)
			}
			if ht <= prev {
				t.Errorf("Move %s hit times must ascend", d.Name)
			}
			prev = ht
		}
	}

	for _, w := range GetAllWeapons() {
		check(w.Light)
		check(w.Heavy)
	}
	for _, name := range ProfileNames() {
		p, _ := GetProfile(name)
		for _, b := range p.Behaviors {
			check(b.Def)
		}
	}
}

func TestSpellCostsMana(t *testing.T) {
	burst, ok := Spells["flame_burst"]
	if !ok {
		t.Fatal("flame_burst missing")
	}
	if burst.ManaCost <= 0 {
		t.Error("Spells should cost mana")
	}

	// The default loadout can afford it; a manaless one cannot
	cfg := DefaultEngineConfig().Combat
	caster := NewPlayer(1, DefaultLoadout("caster"), &cfg)
	if !caster.CanAttack(burst) {
		t.Error("Default loadout should be able to cast")
	}
	lo := DefaultLoadout("brute")
	lo.MaxMana = 0
	brute := NewPlayer(2, lo, &cfg)
	if brute.CanAttack(burst) {
		t.Error("A loadout without mana cannot cast")
	}
}
