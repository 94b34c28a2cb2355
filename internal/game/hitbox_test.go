package game

import (
	"math"
	"testing"
)

func TestHitboxCone(t *testing.T) {
	hb := Hitbox{Type: HitboxCone, Range: 3, HalfAngle: math.Pi / 4}

	tests := []struct {
		name   string
		target Vec3
		hit    bool
	}{
		{"dead ahead", Vec3{Z: 2}, true},
		{"edge of range", Vec3{Z: 3}, true},
		{"too far", Vec3{Z: 3.5}, false},
		{"inside angle", Vec3{X: 1, Z: 2}, true},
		{"outside angle", Vec3{X: 2, Z: 1}, false},
		{"behind", Vec3{Z: -1}, false},
		{"overlapping", Vec3{}, true},
		{"elevation ignored", Vec3{Y: 50, Z: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, scale := hb.CheckHit(Vec3{}, 0, tt.target)
			if hit != tt.hit {
				t.Errorf("Expected hit=%v, got %v", tt.hit, hit)
			}
			if hit && scale != 1 {
				t.Errorf("Cone hits should not scale, got %v", scale)
			}
		})
	}
}

func TestHitboxLine(t *testing.T) {
	hb := Hitbox{Type: HitboxLine, Range: 3, Width: 0.5}

	tests := []struct {
		name    string
		heading float64
		target  Vec3
		hit     bool
	}{
		{"on axis", 0, Vec3{Z: 2.5}, true},
		{"lateral within width", 0, Vec3{X: 0.4, Z: 2}, true},
		{"lateral outside width", 0, Vec3{X: 0.8, Z: 2}, false},
		{"behind", 0, Vec3{Z: -1}, false},
		{"rotated heading", math.Pi / 2, Vec3{X: 2}, true},
		{"rotated miss", math.Pi / 2, Vec3{Z: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, _ := hb.CheckHit(Vec3{}, tt.heading, tt.target)
			if hit != tt.hit {
				t.Errorf("Expected hit=%v, got %v", tt.hit, hit)
			}
		})
	}
}

func TestHitboxCircleFalloff(t *testing.T) {
	hb := Hitbox{Type: HitboxCircle, Radius: 4, Falloff: true}

	hit, scale := hb.CheckHit(Vec3{}, 0, Vec3{X: 2})
	if !hit {
		t.Fatal("Expected hit inside radius")
	}
	if math.Abs(scale-0.5) > 1e-9 {
		t.Errorf("Expected scale 0.5 at half radius, got %v", scale)
	}

	if hit, _ := hb.CheckHit(Vec3{}, 0, Vec3{X: 4}); hit {
		t.Error("Zero-scale edge should not count as a hit")
	}
	if hit, _ := hb.CheckHit(Vec3{}, 0, Vec3{X: 5}); hit {
		t.Error("Expected miss outside radius")
	}

	flat := Hitbox{Type: HitboxCircle, Radius: 4}
	if _, scale := flat.CheckHit(Vec3{}, 0, Vec3{X: 3.9}); scale != 1 {
		t.Errorf("Expected full damage without falloff, got %v", scale)
	}
}

func TestHitboxOriginAndReach(t *testing.T) {
	hb := Hitbox{Type: HitboxCircle, Radius: 2, Offset: 1.5}

	o := hb.Origin(Vec3{X: 1}, math.Pi/2)
	if math.Abs(o.X-2.5) > 1e-9 || math.Abs(o.Z) > 1e-9 {
		t.Errorf("Expected origin (2.5, 0), got (%v, %v)", o.X, o.Z)
	}
	if hb.Reach() != 3.5 {
		t.Errorf("Expected reach 3.5, got %v", hb.Reach())
	}

	cone := Hitbox{Type: HitboxCone, Range: 2.5, Offset: 9}
	if cone.Origin(Vec3{X: 1}, 0) != (Vec3{X: 1}) {
		t.Error("Cone origin should be the attacker position")
	}
	if cone.Reach() != 2.5 {
		t.Errorf("Expected reach 2.5, got %v", cone.Reach())
	}
}

func TestFacingAngle(t *testing.T) {
	tests := []struct {
		name     string
		heading  float64
		target   Vec3
		expected float64
	}{
		{"ahead", 0, Vec3{Z: 1}, 0},
		{"right", 0, Vec3{X: 1}, math.Pi / 2},
		{"left", 0, Vec3{X: -1}, math.Pi / 2},
		{"behind", 0, Vec3{Z: -1}, math.Pi},
		{"wrapped heading", 2 * math.Pi, Vec3{Z: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := facingAngle(Vec3{}, tt.heading, tt.target)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
