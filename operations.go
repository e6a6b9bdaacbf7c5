package wgsdf

import "github.com/soypat/geometry/ms3"

// Union joins the shapes of n and other into one. Is exact.
func (n Node) Union(other Node) Node {
	return Node{op: Union{A: n, B: other}}
}

// SmoothUnion joins n and other with a rounded transition of width k.
// k <= 0 degenerates to the crisp [Node.Union].
func (n Node) SmoothUnion(other Node, k float32) Node {
	return Node{op: Union{A: n, B: other, Blend: k}}
}

// Subtract removes the shape of other from n. Does not produce an exact SDF.
func (n Node) Subtract(other Node) Node {
	return Node{op: Subtract{A: n, B: other}}
}

// SmoothSubtract removes other from n with a rounded transition of width k.
func (n Node) SmoothSubtract(other Node, k float32) Node {
	return Node{op: Subtract{A: n, B: other, Blend: k}}
}

// Intersect keeps only the overlap of n and other. Does not produce an
// exact SDF.
func (n Node) Intersect(other Node) Node {
	return Node{op: Intersect{A: n, B: other}}
}

// Translate moves n by x,y,z in world space.
func (n Node) Translate(x, y, z float32) Node {
	return Node{op: Translate{Child: n, Offset: ms3.Vec{X: x, Y: y, Z: z}}}
}

// Rotate rotates n about axis by deg degrees. The axis must be one of the
// coordinate unit vectors; prefer [Node.RotateX] and siblings which
// guarantee that.
func (n Node) Rotate(axis ms3.Vec, deg float32) Node {
	return Node{op: Rotate{Child: n, Axis: axis, AngleDeg: deg}}
}

// RotateX rotates n about the x axis by deg degrees.
func (n Node) RotateX(deg float32) Node {
	return n.Rotate(ms3.Vec{X: 1}, deg)
}

// RotateY rotates n about the y axis by deg degrees.
func (n Node) RotateY(deg float32) Node {
	return n.Rotate(ms3.Vec{Y: 1}, deg)
}

// RotateZ rotates n about the z axis by deg degrees.
func (n Node) RotateZ(deg float32) Node {
	return n.Rotate(ms3.Vec{Z: 1}, deg)
}

// Mirror reflects n across the coordinate planes flagged by the arguments.
// Flagging several axes folds several planes at once for quadrant or octant
// symmetry.
func (n Node) Mirror(x, y, z bool) Node {
	return Node{op: Mirror{Child: n, Axes: NewXYZBits(x, y, z)}}
}

// MirrorX reflects n across the x=0 plane.
func (n Node) MirrorX() Node { return n.Mirror(true, false, false) }

// MirrorY reflects n across the y=0 plane.
func (n Node) MirrorY() Node { return n.Mirror(false, true, false) }

// MirrorZ reflects n across the z=0 plane.
func (n Node) MirrorZ() Node { return n.Mirror(false, false, true) }

// Color paints the whole subtree below n with an r,g,b color, overriding
// colors set deeper in the tree.
func (n Node) Color(r, g, b float32) Node {
	return Node{op: Color{Child: n, RGB: ms3.Vec{X: r, Y: g, Z: b}}}
}
