package wgsdf

import "github.com/soypat/geometry/ms3"

// NewSphere creates a sphere centered at the origin of radius r.
func NewSphere(r float32) Node {
	return Node{op: Sphere{Radius: r}}
}

// NewBox creates a box centered at the origin extending x,y,z from the
// origin along each axis.
func NewBox(x, y, z float32) Node {
	return Node{op: Box{HalfExtents: ms3.Vec{X: x, Y: y, Z: z}}}
}

// NewCylinder creates a cylinder centered at the origin with given radius
// and full height. The cylinder's axis points in the y direction.
func NewCylinder(r, h float32) Node {
	return Node{op: Cylinder{Radius: r, Height: h}}
}

// NewTorus creates a torus in the XZ plane given the radius across
// (majorRadius) and the "solid" tube radius (minorRadius).
func NewTorus(majorRadius, minorRadius float32) Node {
	return Node{op: Torus{MajorRadius: majorRadius, MinorRadius: minorRadius}}
}
