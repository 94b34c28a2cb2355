package game

import "math"

// HitboxType defines the shape of an attack's hit test.
type HitboxType int

const (
	HitboxCone   HitboxType = iota // Range + half-angle around facing (slashes)
	HitboxLine                     // Narrow thrust (spears, ripostes)
	HitboxCircle                   // Area around an effect origin (slams, spells)
)

func (t HitboxType) String() string {
	switch t {
	case HitboxCone:
		return "cone"
	case HitboxLine:
		return "line"
	case HitboxCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Hitbox represents an attack's collision shape. All checks are O(1) on
// the ground plane; elevation is ignored.
type Hitbox struct {
	Type      HitboxType `json:"type"`
	Range     float64    `json:"range"`     // Cone/line reach from the attacker
	HalfAngle float64    `json:"halfAngle"` // Cone half-angle in radians
	Width     float64    `json:"width"`     // Line half-width in world units
	Radius    float64    `json:"radius"`    // Circle radius
	Offset    float64    `json:"offset"`    // Circle origin distance ahead of the attacker
	Falloff   bool       `json:"falloff"`   // Circle damage fades linearly to zero at the edge
}

// Reach returns the farthest distance from the attacker this hitbox can touch.
func (h Hitbox) Reach() float64 {
	if h.Type == HitboxCircle {
		return math.Abs(h.Offset) + h.Radius
	}
	return h.Range
}

// Origin returns the effect origin for an attacker at pos facing heading.
func (h Hitbox) Origin(pos Vec3, heading float64) Vec3 {
	if h.Type != HitboxCircle || h.Offset == 0 {
		return pos
	}
	return pos.Add(Forward(heading).Scale(h.Offset))
}

// CheckHit tests target against the hitbox. origin is the attacker position
// for cone/line shapes and the effect origin for circles. It returns whether
// the target is hit and the damage scale (1 unless falloff applies).
func (h Hitbox) CheckHit(origin Vec3, heading float64, target Vec3) (bool, float64) {
	delta := target.Sub(origin).Flat()
	distance := delta.FlatLength()

	switch h.Type {
	case HitboxCircle:
		if distance > h.Radius {
			return false, 0
		}
		if !h.Falloff || h.Radius <= 0 {
			return true, 1
		}
		scale := 1 - distance/h.Radius
		if scale <= 0 {
			return false, 0
		}
		return true, scale

	case HitboxCone:
		if distance > h.Range {
			return false, 0
		}
		// Overlapping bodies always connect; the angle is undefined there.
		if distance < 1e-6 {
			return true, 1
		}
		return angleBetween(Forward(heading), delta) <= h.HalfAngle, 1

	case HitboxLine:
		if distance > h.Range {
			return false, 0
		}
		if distance < 1e-6 {
			return true, 1
		}
		fwd := Forward(heading)
		along := delta.Dot(fwd)
		if along < 0 {
			return false, 0
		}
		// Perpendicular distance from the thrust axis.
		lateral := math.Abs(delta.X*fwd.Z - delta.Z*fwd.X)
		return lateral <= h.Width, 1
	}

	return false, 0
}

// angleBetween returns the unsigned angle between two ground-plane vectors.
func angleBetween(a, b Vec3) float64 {
	a, b = a.Flat().Normalize(), b.Flat().Normalize()
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return math.Acos(clamp(a.Dot(b), -1, 1))
}

// facingAngle returns how far target lies from the facing of an actor at pos.
func facingAngle(pos Vec3, heading float64, target Vec3) float64 {
	return math.Abs(normalizeAngle(HeadingOf(target.Sub(pos)) - heading))
}
