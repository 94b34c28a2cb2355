package game

import (
	"math"
	"testing"
)

// TestLeapLandsOnAnchor verifies a leap arrives at its anchor when execute ends
func TestLeapLandsOnAnchor(t *testing.T) {
	self := newTestEnemy(t, "ashen_warden")
	b := self.AI.Profile().Behaviors["leap_slam"]
	inst := &AttackInstance{Def: b.Def, Anchor: Vec3{X: 3, Z: 6}}

	const dt = 0.1
	for inst.Phase() != AttackRecovery && inst.Phase() != AttackDone {
		inst.Advance(dt)
		v := b.Steer(inst, self, nil, dt)
		self.Position = self.Position.Add(v.Scale(dt))
		if inst.Phase() == AttackWindUp && self.Position.FlatLength() > 0 {
			t.Fatal("Leap should not move during wind-up")
		}
	}

	if d := self.Position.FlatDistance(inst.Anchor); d > 1e-6 {
		t.Errorf("Expected landing on the anchor, off by %v", d)
	}
}

func TestTrackingFollowsTargetDuringWindUp(t *testing.T) {
	self := newTestEnemy(t, "hollow_soldier")
	target := newTestPlayer(t)
	target.Position = Vec3{X: 2}
	b := self.AI.Profile().Behaviors["slash"]
	inst := &AttackInstance{Def: b.Def}

	inst.Advance(0.1)
	b.Steer(inst, self, target, 0.1)
	if math.Abs(self.Heading-math.Pi/2) > 1e-9 {
		t.Errorf("Expected to track toward +X, heading %v", self.Heading)
	}
	if inst.Anchor != target.Position {
		t.Error("Anchor should follow the target during wind-up")
	}

	// Execute locks the swing in
	inst.Advance(0.5)
	target.Position = Vec3{Z: -2}
	b.Steer(inst, self, target, 0.1)
	if math.Abs(self.Heading-math.Pi/2) > 1e-9 {
		t.Error("Heading must not track once execute begins")
	}
}

func TestChargeMovesForward(t *testing.T) {
	self := newTestEnemy(t, "ashen_warden")
	self.SpeedMult = 1.2
	b := self.AI.Profile().Behaviors["charge"]
	inst := &AttackInstance{Def: b.Def}

	inst.Advance(b.Def.WindUp + 0.1)
	v := b.Steer(inst, self, nil, 0.1)
	if math.Abs(v.Z-12*1.2) > 1e-9 {
		t.Errorf("Expected charge speed %v, got %v", 12*1.2, v.Z)
	}

	inst.Advance(b.Def.Execute)
	if v := b.Steer(inst, self, nil, 0.1); !v.IsZero() {
		t.Error("Charge should stop after execute")
	}
}

func TestDiveLandsFlyer(t *testing.T) {
	self := newTestEnemy(t, "ember_drake")
	self.Airborne = true
	b := self.AI.Profile().Behaviors["dive"]
	inst := &AttackInstance{Def: b.Def, Anchor: Vec3{Z: 1}}

	inst.Advance(0.2)
	b.Steer(inst, self, nil, 0.1)
	if !self.Airborne {
		t.Error("Flyer stays airborne during the dive wind-up")
	}

	inst.Advance(b.Def.WindUp)
	v := b.Steer(inst, self, nil, 0.1)
	if self.Airborne {
		t.Error("Dive execute should land the flyer")
	}
	if math.Abs(v.Z-10) > 1e-9 {
		t.Errorf("Expected a snap to the close anchor (10 m/s), got %v", v.Z)
	}
}

func TestBehaviorKindString(t *testing.T) {
	if BehaviorLeap.String() != "leap" || BehaviorKind(99).String() != "unknown" {
		t.Error("Unexpected behavior names")
	}
}
