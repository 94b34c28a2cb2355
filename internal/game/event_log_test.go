package game

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEventLogCountsInMemory(t *testing.T) {
	el := NewEventLog()
	if el.EmitSimple(EventTypeSpawn, 1, 1, SpawnPayload{ID: 1}) {
		t.Error("Emit before Start should be rejected")
	}

	if err := el.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer el.Stop()

	for i := 0; i < 5; i++ {
		el.EmitSimple(EventTypeDamage, uint64(i), 1, DamagePayload{Damage: 10})
	}
	el.EmitSimple(EventTypeDeath, 5, 2, DeathPayload{ID: 2})

	if n := el.CountByType(EventTypeDamage); n != 5 {
		t.Errorf("Expected 5 damage events, got %d", n)
	}
	if n := el.GetTotalCount(); n != 6 {
		t.Errorf("Expected 6 events total, got %d", n)
	}

	stats := el.GetStats()
	byType := stats["byType"].(map[string]uint64)
	if byType["death"] != 1 {
		t.Errorf("Expected byType death=1, got %v", byType)
	}
}

// TestEventLogWritesJSONLines verifies events are flushed on Stop as newline-delimited JSON
func TestEventLogWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	el.EmitSimple(EventTypeParry, 3, 1, ParryPayload{DefenderID: 1, AttackerID: 2, InstanceID: 9})
	el.EmitSimple(EventTypeStagger, 3, 2, StaggerPayload{ID: 2, Cause: "parry", Length: 2})
	el.Stop()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	var types []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line struct {
			Type    string          `json:"type"`
			TickNum uint64          `json:"tickNum"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("Invalid JSON line %q: %v", scanner.Text(), err)
		}
		if line.TickNum != 3 {
			t.Errorf("Expected tick 3, got %d", line.TickNum)
		}
		types = append(types, line.Type)
	}

	if len(types) != 2 || types[0] != "parry" || types[1] != "stagger" {
		t.Errorf("Expected [parry stagger], got %v", types)
	}
}

func TestEventLogPerCombatantLimit(t *testing.T) {
	el := NewEventLog()
	el.Start("")
	defer el.Stop()

	accepted := 0
	for i := 0; i < MaxEventsPerCombatant*3; i++ {
		if el.EmitSimple(EventTypeAttack, 1, 7, AttackPayload{AttackerID: 7}) {
			accepted++
		}
	}
	if accepted >= MaxEventsPerCombatant*3 {
		t.Error("A single combatant should be rate limited")
	}
	if el.GetDroppedCount() == 0 {
		t.Error("Expected dropped events")
	}

	// Another source is unaffected
	if !el.EmitSimple(EventTypeAttack, 1, 8, AttackPayload{AttackerID: 8}) {
		t.Error("Other combatants must not be starved")
	}
}

func TestEventLogStartBadPath(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(filepath.Join(t.TempDir(), "missing", "dir", "events.jsonl")); err == nil {
		el.Stop()
		t.Error("Expected error for an unwritable path")
	}
}

func TestEventTypeText(t *testing.T) {
	data, err := json.Marshal(EventTypeRiposte)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"riposte"` {
		t.Errorf("Expected \"riposte\", got %s", data)
	}
}
