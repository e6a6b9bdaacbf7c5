package wgsdf

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// DefaultColor is the placeholder color paired with primitives that no
// Color node has painted yet. Matches the constant wgslgen emits.
var DefaultColor = ms3.Vec{X: 0.2, Y: 0.55, Z: 1.0}

// Evaluate computes the signed distance from point p to the scene surface
// and the surface color at that point. Negative distance means p is inside.
//
// The arithmetic mirrors the helper functions of the WGSL template
// expression for expression so the CPU result pins down what the generated
// shader computes on the GPU. Evaluating the zero Node panics.
func (n Node) Evaluate(p ms3.Vec) (dist float32, color ms3.Vec) {
	switch op := n.op.(type) {
	case Sphere:
		return ms3.Norm(p) - op.Radius, DefaultColor
	case Box:
		q := ms3.Sub(ms3.AbsElem(p), op.HalfExtents)
		d := ms3.Norm(ms3.MaxElem(q, ms3.Vec{})) + minf(maxf(q.X, maxf(q.Y, q.Z)), 0)
		return d, DefaultColor
	case Cylinder:
		dx := math32.Abs(math32.Hypot(p.X, p.Z)) - op.Radius
		dy := math32.Abs(p.Y) - op.Height*0.5
		d := minf(maxf(dx, dy), 0) + math32.Hypot(maxf(dx, 0), maxf(dy, 0))
		return d, DefaultColor
	case Torus:
		q := math32.Hypot(p.X, p.Z) - op.MajorRadius
		return math32.Hypot(q, p.Y) - op.MinorRadius, DefaultColor

	case Union:
		da, ca := op.A.Evaluate(p)
		db, cb := op.B.Evaluate(p)
		if op.Blend > 0 {
			return smoothUnion(da, ca, db, cb, op.Blend)
		}
		if da <= db {
			return da, ca
		}
		return db, cb
	case Subtract:
		da, ca := op.A.Evaluate(p)
		db, cb := op.B.Evaluate(p)
		if op.Blend > 0 {
			return smoothSubtract(da, ca, db, cb, op.Blend)
		}
		return maxf(da, -db), ca
	case Intersect:
		// Blend is never consulted; intersect has no smooth form.
		da, ca := op.A.Evaluate(p)
		db, cb := op.B.Evaluate(p)
		if da >= db {
			return da, ca
		}
		return db, cb

	case Translate:
		return op.Child.Evaluate(ms3.Sub(p, op.Offset))
	case Rotate:
		rad := -op.AngleDeg * (math32.Pi / 180)
		return op.Child.Evaluate(rotatePoint(p, op.Axis, rad))
	case Mirror:
		if op.Axes.X() {
			p.X = math32.Abs(p.X)
		}
		if op.Axes.Y() {
			p.Y = math32.Abs(p.Y)
		}
		if op.Axes.Z() {
			p.Z = math32.Abs(p.Z)
		}
		return op.Child.Evaluate(p)

	case Color:
		dist, _ = op.Child.Evaluate(p)
		return dist, op.RGB

	case nil:
		panic("evaluate of zero Node")
	default:
		panic("unreachable: operation set is sealed")
	}
}

// smoothUnion is iq's polynomial smooth minimum carrying color along with
// the same interpolation factor as the distance blend.
func smoothUnion(da float32, ca ms3.Vec, db float32, cb ms3.Vec, k float32) (float32, ms3.Vec) {
	h := clampf(0.5+0.5*(db-da)/k, 0, 1)
	d := mixf(db, da, h) - k*h*(1-h)
	return d, mix3(cb, ca, h)
}

func smoothSubtract(da float32, ca ms3.Vec, db float32, cb ms3.Vec, k float32) (float32, ms3.Vec) {
	h := clampf(0.5-0.5*(da+db)/k, 0, 1)
	d := mixf(da, -db, h) + k*h*(1-h)
	return d, mix3(ca, cb, h)
}

func mix3(x, y ms3.Vec, a float32) ms3.Vec {
	return ms3.Vec{X: mixf(x.X, y.X, a), Y: mixf(x.Y, y.Y, a), Z: mixf(x.Z, y.Z, a)}
}

// rotatePoint rotates p by rad radians about the dominant component of
// axis. Axis dominance follows the generator: first component whose
// absolute value exceeds 0.9 wins in x,y,z order, defaulting to z.
func rotatePoint(p, axis ms3.Vec, rad float32) ms3.Vec {
	s, c := math32.Sincos(rad)
	switch {
	case math32.Abs(axis.X) > 0.9:
		return ms3.Vec{X: p.X, Y: c*p.Y - s*p.Z, Z: s*p.Y + c*p.Z}
	case math32.Abs(axis.Y) > 0.9:
		return ms3.Vec{X: c*p.X + s*p.Z, Y: p.Y, Z: -s*p.X + c*p.Z}
	default:
		return ms3.Vec{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y, Z: p.Z}
	}
}
