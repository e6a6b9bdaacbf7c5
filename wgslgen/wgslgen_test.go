package wgslgen_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wgslforge/wgsdf"
	"github.com/wgslforge/wgsdf/wgslgen"
)

func compile(t *testing.T, n wgsdf.Node, aa wgslgen.AntiAliasing) string {
	t.Helper()
	src, err := wgslgen.New().Generate(n, aa)
	require.NoError(t, err)
	return src
}

// generated returns the spliced-in portion of the source: the map function
// and the fragment entry point. The template itself defines helpers with
// the same names, so substring assertions about emitted calls must not see
// it.
func generated(t *testing.T, src string) string {
	t.Helper()
	i := strings.Index(src, "fn map(")
	require.GreaterOrEqual(t, i, 0, "no map function in output")
	return src[i:]
}

func TestSphereLiteral(t *testing.T) {
	src := compile(t, wgsdf.NewSphere(1), wgslgen.AAOff)
	m := generated(t, src)
	assert.Contains(t, m, "sd_sphere(p_in, 1.0000)")
	assert.Contains(t, m, "return SdfResult(sd_sphere(p_in, 1.0000), vec3<f32>(0.2, 0.55, 1.0));")
}

func TestPrimitiveLiterals(t *testing.T) {
	for _, tc := range []struct {
		name string
		n    wgsdf.Node
		want string
	}{
		{"box", wgsdf.NewBox(1, 0.2, 0.5), "sd_box(p_in, vec3<f32>(1.0000, 0.2000, 0.5000))"},
		{"cylinder", wgsdf.NewCylinder(0.5, 2), "sd_cylinder(p_in, 0.5000, 2.0000)"},
		{"torus", wgsdf.NewTorus(0.4, 0.1), "sd_torus(p_in, vec2<f32>(0.4000, 0.1000))"},
		{"negative offset", wgsdf.NewSphere(1).Translate(-2.5, 0, 0), "(p_in - vec3<f32>(-2.5000, 0.0000, 0.0000))"},
		{"rounded literal", wgsdf.NewSphere(1.23456), "sd_sphere(p_in, 1.2346)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, generated(t, compile(t, tc.n, wgslgen.AAOff)), tc.want)
		})
	}
}

func TestUnionCrispEmission(t *testing.T) {
	u := wgsdf.NewBox(1, 1, 1).Union(wgsdf.NewSphere(0.5))
	m := generated(t, compile(t, u, wgslgen.AAOff))
	assert.Contains(t, m, "op_union(SdfResult(sd_box(")
	assert.NotContains(t, m, "op_union_smooth")
}

func TestSmoothEmission(t *testing.T) {
	su := wgsdf.NewBox(1, 1, 1).SmoothUnion(wgsdf.NewSphere(0.5), 0.25)
	m := generated(t, compile(t, su, wgslgen.AAOff))
	assert.Contains(t, m, "op_union_smooth(")
	assert.Contains(t, m, ", 0.2500)")

	ss := wgsdf.NewBox(1, 1, 1).SmoothSubtract(wgsdf.NewSphere(0.5), 0.1)
	m = generated(t, compile(t, ss, wgslgen.AAOff))
	assert.Contains(t, m, "op_subtract_smooth(")
	assert.Contains(t, m, ", 0.1000)")
}

func TestSubtractCrispEmission(t *testing.T) {
	s := wgsdf.NewBox(1, 1, 1).Subtract(wgsdf.NewSphere(0.5))
	m := generated(t, compile(t, s, wgslgen.AAOff))
	assert.Contains(t, m, "op_subtract(")
	assert.NotContains(t, m, "op_subtract_smooth")
}

func TestIntersectNeverSmooth(t *testing.T) {
	// Intersect's blend field exists but is never consulted.
	i := wgsdf.NewSphere(1).Intersect(wgsdf.NewBox(1, 1, 1))
	m := generated(t, compile(t, i, wgslgen.AAOff))
	assert.Contains(t, m, "op_intersect(")
	assert.NotContains(t, m, "op_intersect_smooth")
}

func TestRotateEmission(t *testing.T) {
	base := wgsdf.NewSphere(1)
	// 90 degrees becomes the negative angle in radians.
	m := generated(t, compile(t, base.RotateX(90), wgslgen.AAOff))
	assert.Contains(t, m, "rotate_x(p_in, -1.5708)")

	m = generated(t, compile(t, base.RotateY(-45), wgslgen.AAOff))
	assert.Contains(t, m, "rotate_y(p_in, 0.7854)")

	m = generated(t, compile(t, base.RotateZ(180), wgslgen.AAOff))
	assert.Contains(t, m, "rotate_z(p_in, -3.1416)")

	// Negative unit axes still pick their own axis.
	m = generated(t, compile(t, base.Rotate(ms3.Vec{Y: -1}, 10), wgslgen.AAOff))
	assert.Contains(t, m, "rotate_y(")

	// Off-axis vectors fall back to z silently.
	m = generated(t, compile(t, base.Rotate(ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 10), wgslgen.AAOff))
	assert.Contains(t, m, "rotate_z(")
}

func TestMirrorEmission(t *testing.T) {
	base := wgsdf.NewSphere(1)
	m := generated(t, compile(t, base.MirrorX(), wgslgen.AAOff))
	assert.Contains(t, m, "vec3<f32>(abs(p_in.x), p_in.y, p_in.z)")

	m = generated(t, compile(t, base.Mirror(true, false, true), wgslgen.AAOff))
	assert.Contains(t, m, "vec3<f32>(abs(p_in.x), p_in.y, abs(p_in.z))")
}

func TestTransformsCompose(t *testing.T) {
	// The mirrored point expression feeds the translation rewrite.
	n := wgsdf.NewSphere(0.2).Translate(1, 0, 0).MirrorX()
	m := generated(t, compile(t, n, wgslgen.AAOff))
	assert.Contains(t, m, "sd_sphere((vec3<f32>(abs(p_in.x), p_in.y, p_in.z) - vec3<f32>(1.0000, 0.0000, 0.0000)), 0.2000)")
}

func TestColorEmissionOutermostWins(t *testing.T) {
	n := wgsdf.NewSphere(1).Color(0, 0, 1).Color(0.9, 0.1, 0.1)
	m := generated(t, compile(t, n, wgslgen.AAOff))
	assert.Contains(t, m, "set_color(set_color(")
	inner := strings.Index(m, "vec3<f32>(0.0000, 0.0000, 1.0000)")
	outer := strings.Index(m, "vec3<f32>(0.9000, 0.1000, 0.1000)")
	require.GreaterOrEqual(t, inner, 0)
	require.GreaterOrEqual(t, outer, 0)
	assert.Greater(t, outer, inner, "outer color wraps, and so trails, the inner expression")
}

func TestAntiAliasingShapes(t *testing.T) {
	scene := wgsdf.NewSphere(1)

	m := generated(t, compile(t, scene, wgslgen.AAOff))
	assert.NotContains(t, m, "for (")
	assert.Contains(t, m, "let uv = (((pixel_pos - rect_min) / rect_size) * 2.0 - 1.0) * vec2<f32>(aspect, -1.0);")

	for _, tc := range []struct {
		aa      wgslgen.AntiAliasing
		n       string
		divisor string
	}{
		{wgslgen.AAGrid2x2, "2", "4.0"},
		{wgslgen.AAGrid4x4, "4", "16.0"},
		{wgslgen.AAGrid8x8, "8", "64.0"},
	} {
		t.Run(tc.aa.String(), func(t *testing.T) {
			m := generated(t, compile(t, scene, tc.aa))
			assert.Contains(t, m, "iy < "+tc.n+";")
			assert.Contains(t, m, "ix < "+tc.n+";")
			assert.Contains(t, m, "+ 0.5) / "+tc.n+".0 - 0.5;")
			assert.Contains(t, m, "total_color / "+tc.divisor+", 1.0)")
		})
	}
}

func TestGridSizes(t *testing.T) {
	assert.Equal(t, 1, wgslgen.AAOff.GridSize())
	assert.Equal(t, 2, wgslgen.AAGrid2x2.GridSize())
	assert.Equal(t, 4, wgslgen.AAGrid4x4.GridSize())
	assert.Equal(t, 8, wgslgen.AAGrid8x8.GridSize())
}

func TestTemplateMerge(t *testing.T) {
	src := compile(t, wgsdf.NewSphere(1), wgslgen.AAGrid4x4)
	assert.Contains(t, src, "fn vs_main(")
	assert.Contains(t, src, "@group(0) @binding(0) var<uniform> uniforms")
	assert.Contains(t, src, "fn render_scene(")
	assert.NotContains(t, src, "{{MAP_FUNCTION_HERE}}")
	assert.Equal(t, 1, strings.Count(src, "fn map("))
	assert.Equal(t, 1, strings.Count(src, "fn fs_main("))
}

func TestDeterminism(t *testing.T) {
	scene := wgsdf.NewBox(1, 0.2, 0.5).Color(0.8, 0.8, 0.8).
		Union(wgsdf.NewTorus(0.4, 0.1).RotateX(90).Color(0.2, 0.2, 0.2).
			Translate(1, 0, 0.6).MirrorX().MirrorZ())
	g := wgslgen.New()
	first, err := g.Generate(scene, wgslgen.AAGrid2x2)
	require.NoError(t, err)
	second, err := g.Generate(scene, wgslgen.AAGrid2x2)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same tree and level must be byte-identical")

	// A fresh generator agrees too; output does not depend on scratch state.
	third, err := wgslgen.New().Generate(scene, wgslgen.AAGrid2x2)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestEmptySceneError(t *testing.T) {
	_, err := wgslgen.New().Generate(wgsdf.Node{}, wgslgen.AAOff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty node")

	// A zero Node anywhere in the tree is caught before emission.
	bad := wgsdf.NewSphere(1).Union(wgsdf.Node{})
	_, err = wgslgen.New().Generate(bad, wgslgen.AAOff)
	require.Error(t, err)
}

func TestPublished(t *testing.T) {
	var p wgslgen.Published
	src, gen := p.Load()
	assert.Empty(t, src)
	assert.Zero(t, gen)

	gen = p.Swap("shader-1")
	assert.EqualValues(t, 1, gen)
	src, gen = p.Load()
	assert.Equal(t, "shader-1", src)
	assert.EqualValues(t, 1, gen)

	// Concurrent readers never observe a half-swapped pair.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				src, gen := p.Load()
				if gen == 1 {
					assert.Equal(t, "shader-1", src)
				} else {
					assert.Equal(t, "shader-2", src)
				}
			}
		}()
	}
	p.Swap("shader-2")
	wg.Wait()
	src, gen = p.Load()
	assert.Equal(t, "shader-2", src)
	assert.EqualValues(t, 2, gen)
}
