// Package wgsdf models 3D scenes as immutable trees of signed distance
// field operations and compiles them to WGSL shader source.
//
// A scene is built fluently: primitive constructors return leaf [Node]s and
// every combinator, transform or color method on Node returns a new Node
// owning the receiver as a child. The receiver itself is never modified, so
// a variable holding a Node keeps denoting the pre-operation tree:
//
//	body := wgsdf.NewBox(1, 0.2, 0.5).Color(0.8, 0.8, 0.8)
//	wheel := wgsdf.NewTorus(0.4, 0.1).RotateX(90).Color(0.2, 0.2, 0.2)
//	scene := body.Union(wheel.Translate(1, 0, 0.6).MirrorX().MirrorZ())
//
// The resulting tree is consumed by the wgslgen package which emits a WGSL
// map function evaluating to a (distance, color) pair at a point.
package wgsdf

import (
	"github.com/soypat/geometry/ms3"
)

// Node is a handle to one immutable scene tree. The zero Node is empty and
// not a valid scene; wgslgen rejects it.
type Node struct {
	op Operation
}

// Op returns the operation at the root of n's tree, or nil for the zero Node.
func (n Node) Op() Operation { return n.op }

// IsZero reports whether n is the empty Node.
func (n Node) IsZero() bool { return n.op == nil }

// Operation is one node payload of a scene tree. It is a closed sum:
// the variant set is exactly the exported operation structs of this package
// and cannot be extended from outside, which lets consumers switch over it
// exhaustively.
type Operation interface {
	// isOperation seals the interface to this package's variants.
	isOperation()
}

// Primitive leaves. Carry no color of their own; wgslgen pairs them with a
// placeholder color until a Color node wraps them.
type (
	// Sphere is a sphere of given radius centered at the origin.
	Sphere struct {
		Radius float32
	}
	// Box is an axis-aligned box centered at the origin. HalfExtents holds
	// the half-size along each axis.
	Box struct {
		HalfExtents ms3.Vec
	}
	// Cylinder is a cylinder centered at the origin with its axis along Y.
	// Height is the full extent along the axis.
	Cylinder struct {
		Radius float32
		Height float32
	}
	// Torus lies in the XZ plane centered at the origin. MajorRadius is the
	// distance from the center to the tube center, MinorRadius the tube
	// radius.
	Torus struct {
		MajorRadius float32
		MinorRadius float32
	}
)

// Combinators. A Blend of zero selects the crisp boolean form, a positive
// Blend the smooth form. Intersect carries Blend for symmetry with its
// siblings but has no smooth form wired up.
type (
	// Union joins the shapes of A and B.
	Union struct {
		A, B  Node
		Blend float32
	}
	// Subtract removes B from A.
	Subtract struct {
		A, B  Node
		Blend float32
	}
	// Intersect keeps only the overlap of A and B.
	Intersect struct {
		A, B  Node
		Blend float32
	}
)

// Transforms rewrite the point a child is sampled at.
type (
	// Translate moves Child by Offset in world space.
	Translate struct {
		Child  Node
		Offset ms3.Vec
	}
	// Rotate rotates Child about one coordinate axis by AngleDeg degrees.
	// Axis must be one of the coordinate unit vectors; off-axis vectors are
	// coerced to the dominant axis at generation time, defaulting to Z.
	Rotate struct {
		Child    Node
		Axis     ms3.Vec
		AngleDeg float32
	}
	// Mirror folds Child across the coordinate planes flagged in Axes,
	// producing a reflection duplicate per flagged axis.
	Mirror struct {
		Child Node
		Axes  XYZBits
	}
)

// Color paints the whole subtree with RGB, overriding any color the subtree
// would otherwise produce. An outer Color always wins over nested ones.
type Color struct {
	Child Node
	RGB   ms3.Vec
}

func (Sphere) isOperation()    {}
func (Box) isOperation()       {}
func (Cylinder) isOperation()  {}
func (Torus) isOperation()     {}
func (Union) isOperation()     {}
func (Subtract) isOperation()  {}
func (Intersect) isOperation() {}
func (Translate) isOperation() {}
func (Rotate) isOperation()    {}
func (Mirror) isOperation()    {}
func (Color) isOperation()     {}

// XYZBits stores axis selection flags packed into its 3 least significant bits.
type XYZBits uint8

const (
	xBit XYZBits = 1 << iota
	yBit
	zBit
)

func (xyz XYZBits) X() bool { return xyz&xBit != 0 }
func (xyz XYZBits) Y() bool { return xyz&yBit != 0 }
func (xyz XYZBits) Z() bool { return xyz&zBit != 0 }

func NewXYZBits(x, y, z bool) XYZBits {
	return XYZBits(b2i(x) | b2i(y)<<1 | b2i(z)<<2)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

func mixf(x, y, a float32) float32 {
	return x*(1-a) + y*a
}
