// Package transform defines the 2D placement value propagated through a scene.
//
// A [Transform] carries a position and a rotation in degrees. Composition via
// [Transform.Aggregate] is plain summation of both components, which keeps it
// associative and commutative. It is deliberately not a true rigid-body
// composition: child offsets are not rotated by the parent's angle.
//
//	local := transform.New(0.5, 0.5, 45)
//	parent := transform.New(1, 0, 30)
//	global := local.Aggregate(parent) // (1.5, 0.5) @ 75°
package transform
