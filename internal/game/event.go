package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with delta and RNG seed
	EventTypeSpawn
	EventTypeDespawn
	EventTypeRoll
	EventTypeAttack
	EventTypeHit // Positive hit test that was nullified (i-frames, blocked to zero)
	EventTypeDamage
	EventTypeParry
	EventTypeRiposte
	EventTypeStagger
	EventTypePhase
	EventTypeDeath
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Simulation tick this occurred in
	SourceID  CombatantID     `json:"sourceId"`  // Originating combatant (for rate limiting)
	Payload   json.RawMessage `json:"payload"`   // JSON-encoded payload
}

var eventTypeNames = [...]string{
	EventTypeUnknown: "unknown",
	EventTypeTick:    "tick",
	EventTypeSpawn:   "spawn",
	EventTypeDespawn: "despawn",
	EventTypeRoll:    "roll",
	EventTypeAttack:  "attack",
	EventTypeHit:     "hit",
	EventTypeDamage:  "damage",
	EventTypeParry:   "parry",
	EventTypeRiposte: "riposte",
	EventTypeStagger: "stagger",
	EventTypePhase:   "phase",
	EventTypeDeath:   "death",
}

// String returns human-readable event type
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// MarshalText writes the readable name into the JSONL stream.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	RNGSeed        int64 `json:"rngSeed"`
	CombatantCount int   `json:"combatantCount"`
	DeltaTimeNs    int64 `json:"deltaTimeNs"`
}

// SpawnPayload contains spawn details
type SpawnPayload struct {
	ID      CombatantID `json:"id"`
	Name    string      `json:"name"`
	Kind    string      `json:"kind"`
	Profile string      `json:"profile,omitempty"`
	Weapon  string      `json:"weapon,omitempty"`
	X       float64     `json:"x"`
	Z       float64     `json:"z"`
}

// RollPayload records a successful roll start
type RollPayload struct {
	ID      CombatantID `json:"id"`
	Stamina float64     `json:"stamina"`
	DirX    float64     `json:"dirX"`
	DirZ    float64     `json:"dirZ"`
}

// AttackPayload records an attack instance starting
type AttackPayload struct {
	AttackerID CombatantID `json:"attackerId"`
	InstanceID uint64      `json:"instanceId"`
	Attack     string      `json:"attack"`
	Phase      int         `json:"phase,omitempty"`
}

// HitPayload records a positive hit test that dealt nothing
type HitPayload struct {
	AttackerID CombatantID `json:"attackerId"`
	DefenderID CombatantID `json:"defenderId"`
	InstanceID uint64      `json:"instanceId"`
	Step       int         `json:"step"`
	Outcome    string      `json:"outcome"` // "iframe", "immune"
}

// DamagePayload contains damage event details
type DamagePayload struct {
	AttackerID CombatantID `json:"attackerId"`
	DefenderID CombatantID `json:"defenderId"`
	InstanceID uint64      `json:"instanceId"`
	Step       int         `json:"step"`
	Attack     string      `json:"attack"`
	Damage     int         `json:"damage"`
	DefenderHP float64     `json:"defenderHp"`
	Critical   bool        `json:"critical,omitempty"`
	Backstab   bool        `json:"backstab,omitempty"`
	Riposte    bool        `json:"riposte,omitempty"`
	Blocked    bool        `json:"blocked,omitempty"`
}

// ParryPayload records a parried hit
type ParryPayload struct {
	DefenderID CombatantID `json:"defenderId"`
	AttackerID CombatantID `json:"attackerId"`
	InstanceID uint64      `json:"instanceId"`
}

// StaggerPayload records a forced stagger
type StaggerPayload struct {
	ID     CombatantID `json:"id"`
	Cause  string      `json:"cause"` // "damage", "poise", "parry", "guard_break"
	Poise  float64     `json:"poise,omitempty"`
	Length float64     `json:"length"`
}

// PhasePayload records an AI phase advance
type PhasePayload struct {
	ID         CombatantID `json:"id"`
	Phase      int         `json:"phase"`
	HealthFrac float64     `json:"healthFrac"`
	DamageMult float64     `json:"damageMult"`
	SpeedMult  float64     `json:"speedMult"`
}

// DeathPayload contains death details
type DeathPayload struct {
	ID       CombatantID `json:"id"`
	KillerID CombatantID `json:"killerId"`
	Reward   int         `json:"reward,omitempty"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, source CombatantID, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		SourceID:  source,
		Payload:   EncodePayload(payload),
	}
}
