// Package wgslgen compiles wgsdf scene trees into complete WGSL shader
// source. The generator walks the tree once, emitting a single nested
// expression that evaluates to a (distance, color) pair, wraps it in a map
// function plus a fragment entry point shaped by the anti-aliasing level,
// and splices the result into a fixed boilerplate template.
package wgslgen

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/wgslforge/wgsdf"
)

//go:embed shader_template.wgsl
var shaderTemplate string

// placeholder is the single designated splice point inside the template.
const placeholder = "// {{MAP_FUNCTION_HERE}}"

// defaultColor is the placeholder mid-blue paired with unpainted
// primitives. Mirrors wgsdf.DefaultColor.
const defaultColor = "vec3<f32>(0.2, 0.55, 1.0)"

// AntiAliasing selects the supersampling grid baked into the fragment entry
// point. It is an explicit compile parameter, never ambient state.
type AntiAliasing int

const (
	// AAOff evaluates the scene once per pixel.
	AAOff AntiAliasing = iota
	// AAGrid2x2 averages 4 samples per pixel.
	AAGrid2x2
	// AAGrid4x4 averages 16 samples per pixel.
	AAGrid4x4
	// AAGrid8x8 averages 64 samples per pixel.
	AAGrid8x8
)

// GridSize returns the sample grid side length: total samples per pixel is
// the square of it. Unknown values behave as AAOff.
func (aa AntiAliasing) GridSize() int {
	switch aa {
	case AAGrid2x2:
		return 2
	case AAGrid4x4:
		return 4
	case AAGrid8x8:
		return 8
	default:
		return 1
	}
}

func (aa AntiAliasing) String() string {
	n := aa.GridSize()
	if n == 1 {
		return "off"
	}
	return fmt.Sprintf("%dx%d", n, n)
}

// Generator compiles scene trees to WGSL. The zero value is ready to use; a
// Generator retains a scratch buffer across calls to avoid regrowing it on
// every recompile.
type Generator struct {
	scratch []byte
}

// New returns a Generator with a preallocated scratch buffer.
func New() *Generator {
	return &Generator{scratch: make([]byte, 0, 4096)}
}

// Generate compiles the scene tree rooted at root into complete WGSL shader
// source. The same tree and level always produce byte-identical output.
//
// Generation is total over well-formed trees: the only failure is a scene
// containing the zero Node, which is the surface a broken scripting front
// end shows up on.
func (g *Generator) Generate(root wgsdf.Node, aa AntiAliasing) (string, error) {
	err := checkComplete(root)
	if err != nil {
		return "", err
	}
	b := g.scratch[:0]
	b = append(b, "struct SdfResult {\n\tdist: f32,\n\tcolor: vec3<f32>,\n}\n\n"...)
	b = append(b, "fn map(p_in: vec3<f32>) -> SdfResult {\n\treturn "...)
	b = appendExpr(b, root, "p_in")
	b = append(b, ";\n}\n\n"...)
	b = appendFragmentMain(b, aa.GridSize())
	g.scratch = b
	return strings.Replace(shaderTemplate, placeholder, string(b), 1), nil
}

// checkComplete walks the tree rejecting zero Nodes so that expression
// emission below never has to fail.
func checkComplete(n wgsdf.Node) error {
	switch op := n.Op().(type) {
	case wgsdf.Sphere, wgsdf.Box, wgsdf.Cylinder, wgsdf.Torus:
		return nil
	case wgsdf.Union:
		return errors.Join(checkComplete(op.A), checkComplete(op.B))
	case wgsdf.Subtract:
		return errors.Join(checkComplete(op.A), checkComplete(op.B))
	case wgsdf.Intersect:
		return errors.Join(checkComplete(op.A), checkComplete(op.B))
	case wgsdf.Translate:
		return checkComplete(op.Child)
	case wgsdf.Rotate:
		return checkComplete(op.Child)
	case wgsdf.Mirror:
		return checkComplete(op.Child)
	case wgsdf.Color:
		return checkComplete(op.Child)
	case nil:
		return errors.New("wgslgen: scene contains empty node; script did not produce a shape")
	default:
		return fmt.Errorf("wgslgen: unknown operation %T", op)
	}
}

// appendExpr appends the WGSL expression evaluating n's (distance, color)
// at the point denoted by pExpr. Transform variants recurse with a
// rewritten point expression instead of emitting code of their own.
func appendExpr(b []byte, n wgsdf.Node, pExpr string) []byte {
	switch op := n.Op().(type) {
	case wgsdf.Sphere:
		b = append(b, "SdfResult(sd_sphere("...)
		b = append(b, pExpr...)
		b = append(b, ", "...)
		b = appendFloat(b, op.Radius)
		b = append(b, "), "...)
		b = append(b, defaultColor...)
		b = append(b, ')')
	case wgsdf.Box:
		b = append(b, "SdfResult(sd_box("...)
		b = append(b, pExpr...)
		b = append(b, ", vec3<f32>("...)
		b = appendFloat(b, op.HalfExtents.X)
		b = append(b, ", "...)
		b = appendFloat(b, op.HalfExtents.Y)
		b = append(b, ", "...)
		b = appendFloat(b, op.HalfExtents.Z)
		b = append(b, ")), "...)
		b = append(b, defaultColor...)
		b = append(b, ')')
	case wgsdf.Cylinder:
		b = append(b, "SdfResult(sd_cylinder("...)
		b = append(b, pExpr...)
		b = append(b, ", "...)
		b = appendFloat(b, op.Radius)
		b = append(b, ", "...)
		b = appendFloat(b, op.Height)
		b = append(b, "), "...)
		b = append(b, defaultColor...)
		b = append(b, ')')
	case wgsdf.Torus:
		b = append(b, "SdfResult(sd_torus("...)
		b = append(b, pExpr...)
		b = append(b, ", vec2<f32>("...)
		b = appendFloat(b, op.MajorRadius)
		b = append(b, ", "...)
		b = appendFloat(b, op.MinorRadius)
		b = append(b, ")), "...)
		b = append(b, defaultColor...)
		b = append(b, ')')

	case wgsdf.Union:
		b = appendCombinatorCall(b, "op_union", op.A, op.B, op.Blend, pExpr)
	case wgsdf.Subtract:
		b = appendCombinatorCall(b, "op_subtract", op.A, op.B, op.Blend, pExpr)
	case wgsdf.Intersect:
		// Intersect has no smooth form; Blend is never consulted.
		b = appendCombinatorCall(b, "op_intersect", op.A, op.B, 0, pExpr)

	case wgsdf.Translate:
		newP := "(" + pExpr + " - vec3<f32>(" + ftoa(op.Offset.X) + ", " +
			ftoa(op.Offset.Y) + ", " + ftoa(op.Offset.Z) + "))"
		b = appendExpr(b, op.Child, newP)
	case wgsdf.Rotate:
		// Rotating the query point by the negative angle rotates the shape
		// by the requested positive angle.
		rad := -op.AngleDeg * (math32.Pi / 180)
		newP := "rotate_" + axisName(op.Axis) + "(" + pExpr + ", " + ftoa(rad) + ")"
		b = appendExpr(b, op.Child, newP)
	case wgsdf.Mirror:
		px, py, pz := pExpr+".x", pExpr+".y", pExpr+".z"
		if op.Axes.X() {
			px = "abs(" + px + ")"
		}
		if op.Axes.Y() {
			py = "abs(" + py + ")"
		}
		if op.Axes.Z() {
			pz = "abs(" + pz + ")"
		}
		b = appendExpr(b, op.Child, "vec3<f32>("+px+", "+py+", "+pz+")")

	case wgsdf.Color:
		b = append(b, "set_color("...)
		b = appendExpr(b, op.Child, pExpr)
		b = append(b, ", vec3<f32>("...)
		b = appendFloat(b, op.RGB.X)
		b = append(b, ", "...)
		b = appendFloat(b, op.RGB.Y)
		b = append(b, ", "...)
		b = appendFloat(b, op.RGB.Z)
		b = append(b, "))"...)

	default:
		panic("unreachable: operation set is sealed and checked before emission")
	}
	return b
}

func appendCombinatorCall(dst []byte, name string, a, b wgsdf.Node, blend float32, pExpr string) []byte {
	dst = append(dst, name...)
	if blend > 0 {
		dst = append(dst, "_smooth"...)
	}
	dst = append(dst, '(')
	dst = appendExpr(dst, a, pExpr)
	dst = append(dst, ", "...)
	dst = appendExpr(dst, b, pExpr)
	if blend > 0 {
		dst = append(dst, ", "...)
		dst = appendFloat(dst, blend)
	}
	dst = append(dst, ')')
	return dst
}

// axisName picks the dominant coordinate axis: first component whose
// absolute value exceeds 0.9 wins, in x,y,z order. Off-axis vectors fall
// through to z silently; generation never rejects them.
func axisName(axis ms3.Vec) string {
	if math32.Abs(axis.X) > 0.9 {
		return "x"
	} else if math32.Abs(axis.Y) > 0.9 {
		return "y"
	}
	return "z"
}

// All numeric literals are emitted with exactly 4 decimal digits. Fixed
// precision keeps output byte-stable for golden comparisons.
func appendFloat(b []byte, v float32) []byte {
	return strconv.AppendFloat(b, float64(v), 'f', 4, 32)
}

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 4, 32)
}

// appendFragmentMain emits the fragment entry point. The shape of the code,
// not just its parameters, depends on the grid size: the sampling loop
// bounds and averaging divisor are baked in as literals so the target
// execution unit never branches on an anti-aliasing setting at runtime.
func appendFragmentMain(b []byte, n int) []byte {
	const prologue = `@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	let pixel_pos = in.clip_position.xy;
	let rect_min = uniforms.rect_data.xy;
	let rect_size = uniforms.rect_data.zw;
	let aspect = rect_size.x / rect_size.y;
`
	b = append(b, prologue...)
	if n <= 1 {
		b = append(b, `	let uv = (((pixel_pos - rect_min) / rect_size) * 2.0 - 1.0) * vec2<f32>(aspect, -1.0);
	return vec4<f32>(render_scene(uv), 1.0);
}
`...)
		return b
	}
	nLit := strconv.Itoa(n)
	b = append(b, "\tvar total_color = vec3<f32>(0.0);\n"...)
	b = append(b, "\tfor (var iy: i32 = 0; iy < "+nLit+"; iy = iy + 1) {\n"...)
	b = append(b, "\t\tfor (var ix: i32 = 0; ix < "+nLit+"; ix = ix + 1) {\n"...)
	b = append(b, "\t\t\tlet offset = (vec2<f32>(f32(ix), f32(iy)) + 0.5) / "+nLit+".0 - 0.5;\n"...)
	b = append(b, "\t\t\tlet uv = (((pixel_pos + offset - rect_min) / rect_size) * 2.0 - 1.0) * vec2<f32>(aspect, -1.0);\n"...)
	b = append(b, "\t\t\ttotal_color += render_scene(uv);\n"...)
	b = append(b, "\t\t}\n\t}\n"...)
	b = append(b, "\treturn vec4<f32>(total_color / "+strconv.Itoa(n*n)+".0, 1.0);\n}\n"...)
	return b
}
