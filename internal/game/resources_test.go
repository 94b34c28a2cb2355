package game

import (
	"math"
	"testing"
)

func TestPoolSpendIsAllOrNothing(t *testing.T) {
	p := NewPool(100)
	p.Current = 10

	if p.Spend(15) {
		t.Error("Spend should fail when the pool cannot cover the cost")
	}
	if p.Current != 10 {
		t.Errorf("Failed spend must not debit; expected 10, got %v", p.Current)
	}
	if !p.Spend(10) {
		t.Error("Spend of exactly the remainder should succeed")
	}
	if !p.Empty() {
		t.Errorf("Expected empty pool, got %v", p.Current)
	}
}

func TestPoolDrainAndRestoreClamp(t *testing.T) {
	p := NewPool(50)

	if taken := p.Drain(80); taken != 50 {
		t.Errorf("Expected drain of 50, got %v", taken)
	}
	if p.Current != 0 {
		t.Errorf("Expected 0, got %v", p.Current)
	}

	p.Restore(500)
	if p.Current != 50 {
		t.Errorf("Restore must clamp to max; expected 50, got %v", p.Current)
	}

	p.Drain(math.NaN())
	p.Restore(math.NaN())
	if p.Current != 50 {
		t.Errorf("NaN amounts must be ignored; got %v", p.Current)
	}
}

// TestPoolSetMax verifies level-up keeps current values proportional
func TestPoolSetMax(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		max      float64
		newMax   float64
		expected float64
	}{
		{"raise half full", 50, 100, 200, 100},
		{"raise full", 100, 100, 150, 150},
		{"lower clamps", 100, 100, 40, 40},
		{"lower keeps absolute when below cap", 10, 100, 50, 10},
		{"empty stays empty", 0, 100, 300, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pool{Current: tt.current, Max: tt.max}
			p.SetMax(tt.newMax)
			if p.Max != tt.newMax {
				t.Errorf("Expected max %v, got %v", tt.newMax, p.Max)
			}
			if p.Current != tt.expected {
				t.Errorf("Expected current %v, got %v", tt.expected, p.Current)
			}
		})
	}
}

// TestLedgerPayIsAtomic verifies stamina and mana are debited together or not at all
func TestLedgerPayIsAtomic(t *testing.T) {
	l := NewLedger(100, 100, 20)

	if l.Pay(10, 30) {
		t.Fatal("Pay should fail when mana is short")
	}
	if l.Stamina.Current != 100 || l.Mana.Current != 20 {
		t.Errorf("Failed pay must not debit; stamina %v mana %v", l.Stamina.Current, l.Mana.Current)
	}

	if !l.Pay(10, 15) {
		t.Fatal("Pay should succeed when both pools cover the cost")
	}
	if l.Stamina.Current != 90 || l.Mana.Current != 5 {
		t.Errorf("Expected stamina 90 mana 5, got %v/%v", l.Stamina.Current, l.Mana.Current)
	}
}

func TestLedgerWithoutManaCannotCast(t *testing.T) {
	l := NewLedger(100, 100, 0)
	if l.HasMana {
		t.Error("Zero mana max should disable the mana pool")
	}
	if l.CanAfford(0, 1) {
		t.Error("A ledger without mana must not afford a mana cost")
	}
	if !l.CanAfford(50, 0) {
		t.Error("Stamina-only cost should be affordable")
	}
}

func TestLedgerRegeneration(t *testing.T) {
	l := NewLedger(100, 100, 50)
	l.StaminaRegen = 20
	l.ManaRegen = 5
	l.RegenDelay = 0.5

	l.SpendStamina(60)
	l.Mana.Current = 10

	// Delay holds regeneration
	l.Regenerate(0.25, false)
	if l.Stamina.Current != 40 {
		t.Errorf("Expected no regen during delay, got %v", l.Stamina.Current)
	}
	if !l.RegenDelayActive() {
		t.Error("Expected regen delay to be active")
	}

	// The delay keeps counting while suspended
	l.Regenerate(0.25, true)
	if l.RegenDelayActive() {
		t.Error("Expected regen delay to expire")
	}
	l.Regenerate(1, false)
	if l.Stamina.Current != 60 {
		t.Errorf("Expected stamina 60 after 1s of regen, got %v", l.Stamina.Current)
	}
	if l.Mana.Current != 15 {
		t.Errorf("Expected mana 15 after 1s of regen, got %v", l.Mana.Current)
	}

	// Suspended regen leaves pools alone
	l.Regenerate(1, true)
	if l.Stamina.Current != 60 {
		t.Errorf("Expected suspended regen to hold stamina at 60, got %v", l.Stamina.Current)
	}

	l.Regenerate(10, false)
	if l.Stamina.Current != 100 {
		t.Errorf("Regen must clamp to max; got %v", l.Stamina.Current)
	}
}

func TestLedgerDamageAndHeal(t *testing.T) {
	l := NewLedger(100, 100, 0)

	if got := l.Damage(130); got != 100 {
		t.Errorf("Expected 100 removed, got %v", got)
	}
	if l.Health.Current != 0 {
		t.Errorf("Health must not go negative, got %v", l.Health.Current)
	}

	l.Heal(250)
	if l.Health.Current != 100 {
		t.Errorf("Heal must clamp to max, got %v", l.Health.Current)
	}
}
