package transform

import (
	"fmt"
	"math"
)

// Vec2 is a point or offset in the scene plane.
type Vec2 struct {
	X float64 `json:"x" toml:"x" bson:"x"`
	Y float64 `json:"y" toml:"y" bson:"y"`
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Transform is a 2D placement: a position and a rotation in degrees.
//
// The zero value is the identity transform.
type Transform struct {
	Position Vec2    `json:"position" toml:"position" bson:"position"`
	Rotation float64 `json:"rotation" toml:"rotation" bson:"rotation"` // degrees
}

// New returns a transform positioned at (x, y) with the given rotation in degrees.
func New(x, y, rotation float64) Transform {
	return Transform{Position: Vec2{X: x, Y: y}, Rotation: rotation}
}

// Identity returns the transform at the origin with no rotation.
func Identity() Transform { return Transform{} }

// Aggregate composes t, taken as a local transform, with the global transform
// of its parent. Positions and rotations are summed, so the operation is both
// associative and commutative: only parent-before-child order matters when
// propagating through a tree.
func (t Transform) Aggregate(parent Transform) Transform {
	return Transform{
		Position: t.Position.Add(parent.Position),
		Rotation: t.Rotation + parent.Rotation,
	}
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Transform) IsIdentity() bool { return t == Transform{} }

// ApproxEqual reports whether every component of t is within eps of o.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return math.Abs(t.Position.X-o.Position.X) <= eps &&
		math.Abs(t.Position.Y-o.Position.Y) <= eps &&
		math.Abs(t.Rotation-o.Rotation) <= eps
}

// String formats t as "(x, y) @ r°".
func (t Transform) String() string {
	return fmt.Sprintf("(%g, %g) @ %g°", t.Position.X, t.Position.Y, t.Rotation)
}
