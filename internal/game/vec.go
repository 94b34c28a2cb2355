package game

import "math"

// Vec3 is a world-space position or direction. Y is up; headings rotate
// around Y and are measured from +Z toward +X.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3           { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3           { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3      { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64        { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Flat() Vec3                { return Vec3{X: v.X, Z: v.Z} }
func (v Vec3) Length() float64           { return math.Sqrt(v.Dot(v)) }
func (v Vec3) FlatLength() float64       { return math.Hypot(v.X, v.Z) }
func (v Vec3) DistanceTo(o Vec3) float64 { return o.Sub(v).Length() }

// FlatDistance ignores elevation; combat ranges are measured on the ground plane.
func (v Vec3) FlatDistance(o Vec3) float64 {
	return math.Hypot(o.X-v.X, o.Z-v.Z)
}

// Normalize returns the unit vector, or the zero vector for degenerate input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-9 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsZero reports whether the vector has no ground-plane component.
func (v Vec3) IsZero() bool {
	return v.FlatLength() < 1e-9
}

// Forward returns the ground-plane unit vector for a heading.
func Forward(heading float64) Vec3 {
	return Vec3{X: math.Sin(heading), Z: math.Cos(heading)}
}

// HeadingOf returns the heading that faces along dir.
func HeadingOf(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// normalizeAngle normalizes an angle to the range [-π, π].
func normalizeAngle(angle float64) float64 {
	const twoPi = 2 * math.Pi
	angle = math.Mod(angle, twoPi)
	if angle < 0 {
		angle += twoPi
	}
	if angle > math.Pi {
		angle -= twoPi
	}
	return angle
}

// sanitize replaces non-finite values with fallback.
func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
