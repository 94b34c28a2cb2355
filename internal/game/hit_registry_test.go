package game

import "testing"

// TestHitRegistryDeduplicates verifies one record per (instance, step, attacker, defender)
func TestHitRegistryDeduplicates(t *testing.T) {
	r := NewHitRegistry(16)
	key := HitKey{InstanceID: 1, Step: 0, AttackerID: 1, DefenderID: 2}

	if !r.Register(key, 0.5) {
		t.Fatal("First registration should succeed")
	}
	if r.Register(key, 0.5) {
		t.Error("Second registration of the same key must be ignored")
	}

	others := []HitKey{
		{InstanceID: 1, Step: 1, AttackerID: 1, DefenderID: 2},
		{InstanceID: 1, Step: 0, AttackerID: 1, DefenderID: 3},
		{InstanceID: 2, Step: 0, AttackerID: 1, DefenderID: 2},
	}
	for _, k := range others {
		if !r.Register(k, 0.5) {
			t.Errorf("Distinct key %+v should register", k)
		}
	}
	if r.Len() != 4 {
		t.Errorf("Expected 4 records, got %d", r.Len())
	}
}

func TestHitRegistryExpiry(t *testing.T) {
	r := NewHitRegistry(16)
	key := HitKey{InstanceID: 7, AttackerID: 1, DefenderID: 2}
	r.Register(key, 0.3)

	r.Tick(0.2)
	if !r.Has(key) {
		t.Fatal("Record should still be live before its TTL")
	}

	r.Tick(0.2)
	if r.Has(key) {
		t.Error("Record should expire after its TTL")
	}
	if !r.Register(key, 0.3) {
		t.Error("Expired key should register again")
	}
}

func TestHitRegistryForget(t *testing.T) {
	r := NewHitRegistry(16)
	r.Register(HitKey{InstanceID: 1, AttackerID: 1, DefenderID: 2}, 5)
	r.Register(HitKey{InstanceID: 1, Step: 1, AttackerID: 1, DefenderID: 2}, 5)
	r.Register(HitKey{InstanceID: 2, AttackerID: 3, DefenderID: 4}, 5)
	r.Register(HitKey{InstanceID: 3, AttackerID: 4, DefenderID: 5}, 5)

	r.Forget(1)
	if r.Len() != 2 {
		t.Errorf("Expected 2 records after forgetting instance 1, got %d", r.Len())
	}

	r.ForgetCombatant(4)
	if r.Len() != 0 {
		t.Errorf("Expected 0 records after forgetting combatant 4, got %d", r.Len())
	}
}

func TestHitRegistryLimit(t *testing.T) {
	r := NewHitRegistry(2)
	r.Register(HitKey{InstanceID: 1}, 1)
	r.Register(HitKey{InstanceID: 2}, 1)

	if !r.Full() {
		t.Error("Expected registry full at its limit")
	}
	if r.Register(HitKey{InstanceID: 3}, 1) {
		t.Error("Registration beyond the limit should fail")
	}

	r.Tick(1)
	if r.Full() {
		t.Errorf("Expected room after records expire, got %d records", r.Len())
	}
}
