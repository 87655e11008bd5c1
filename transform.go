package morphic

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrSingularTransform is returned (or panicked with) when a transform with a
// near-zero determinant is inverted.
var ErrSingularTransform = errors.New("morphic: singular transform")

// singularThreshold is the smallest |determinant| considered invertible.
const singularThreshold = 1e-12

// Transform is an immutable 2D affine transformation.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Transforms are always handled by pointer. The inverse is computed on first
// use and cached; the two transforms then point at each other.
type Transform struct {
	m   [6]float64
	inv atomic.Pointer[Transform]
}

// Identity is the shared identity transform.
var Identity = &Transform{m: [6]float64{1, 0, 0, 1, 0, 0}}

func init() {
	Identity.inv.Store(Identity)
}

// NewTransform builds a transform from its six matrix entries.
func NewTransform(a, b, c, d, tx, ty float64) *Transform {
	return &Transform{m: [6]float64{a, b, c, d, tx, ty}}
}

// Translation returns a pure translation by (dx, dy).
func Translation(dx, dy float64) *Transform {
	return NewTransform(1, 0, 0, 1, dx, dy)
}

// Rotation returns a counter-clockwise rotation by theta radians around the origin.
func Rotation(theta float64) *Transform {
	sin, cos := math.Sincos(theta)
	return NewTransform(cos, sin, -sin, cos, 0, 0)
}

// Scaling returns a non-uniform scale.
func Scaling(sx, sy float64) *Transform {
	return NewTransform(sx, 0, 0, sy, 0, 0)
}

// UniformScaling returns a scale by s on both axes.
func UniformScaling(s float64) *Transform {
	return Scaling(s, s)
}

// Shear returns a shear with the given x and y factors.
func Shear(shx, shy float64) *Transform {
	return NewTransform(1, shy, shx, 1, 0, 0)
}

// Reflection returns the point reflection through the origin.
func Reflection() *Transform {
	return NewTransform(-1, 0, 0, -1, 0, 0)
}

// ReflectionAt returns the reflection matrix [cos θ, sin θ, sin θ, -cos θ],
// a mirror across the line through the origin at angle θ/2.
func ReflectionAt(theta float64) *Transform {
	sin, cos := math.Sincos(theta)
	return NewTransform(cos, sin, sin, -cos, 0, 0)
}

// multiplyAffine multiplies two affine matrices: result = p * c, meaning
// "apply c, then p".
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// With returns the composition t∘u: the result applies u first, then t.
// Composition is not commutative. Identity operands short-circuit.
func (t *Transform) With(u *Transform) *Transform {
	if t == Identity {
		return u
	}
	if u == Identity {
		return t
	}
	return &Transform{m: multiplyAffine(t.m, u.m)}
}

// Determinant returns ad - bc.
func (t *Transform) Determinant() float64 {
	return t.m[0]*t.m[3] - t.m[1]*t.m[2]
}

// Invert returns the inverse of t, or ErrSingularTransform.
func (t *Transform) Invert() (*Transform, error) {
	if inv := t.inv.Load(); inv != nil {
		return inv, nil
	}
	det := t.Determinant()
	if math.Abs(det) <= singularThreshold || math.IsNaN(det) {
		return nil, fmt.Errorf("%w: %v", ErrSingularTransform, t)
	}
	m := t.m
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	inv := &Transform{m: [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}}
	inv.inv.Store(t)
	if !t.inv.CompareAndSwap(nil, inv) {
		return t.inv.Load(), nil
	}
	return inv, nil
}

// Inverse is Invert for callers that treat a singular transform as a
// programmer error. It panics with an error wrapping ErrSingularTransform.
func (t *Transform) Inverse() *Transform {
	inv, err := t.Invert()
	if err != nil {
		panic(err)
	}
	return inv
}

// TranslatedBy returns t followed by a translation of (dx, dy).
func (t *Transform) TranslatedBy(dx, dy float64) *Transform {
	m := t.m
	return NewTransform(m[0], m[1], m[2], m[3], m[4]+dx, m[5]+dy)
}

// ScaledBy returns t.With(UniformScaling(s)).
func (t *Transform) ScaledBy(s float64) *Transform {
	return t.With(Scaling(s, s))
}

// ScaledByXY returns t.With(Scaling(sx, sy)).
func (t *Transform) ScaledByXY(sx, sy float64) *Transform {
	return t.With(Scaling(sx, sy))
}

// RotatedBy returns t.With(Rotation(theta)).
func (t *Transform) RotatedBy(theta float64) *Transform {
	return t.With(Rotation(theta))
}

// Interpolate blends the six matrix entries of t and target linearly.
// This is not a decomposed interpolation: large rotation deltas visibly
// shear and shrink halfway through. Transitions rely on exactly this.
func (t *Transform) Interpolate(target *Transform, lambda float64) *Transform {
	var out [6]float64
	for i := range out {
		out[i] = t.m[i]*(1-lambda) + target.m[i]*lambda
	}
	return &Transform{m: out}
}

// Apply maps p through t.
func (t *Transform) Apply(p Point) Point {
	x, y := t.ApplyXY(p.X, p.Y)
	return Point{x, y}
}

// ApplyXY maps (x, y) through t.
func (t *Transform) ApplyXY(x, y float64) (float64, float64) {
	m := &t.m
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyAll maps every point and returns a new slice.
func (t *Transform) ApplyAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

// ApplyRect returns the bounding box of r's four mapped corners.
func (t *Transform) ApplyRect(r Rect) Rect {
	return mapRect(r, t.Apply)
}

// Translation returns the translation part (tx, ty).
func (t *Transform) Translation() Point {
	return Point{t.m[4], t.m[5]}
}

// Linear returns t without its translation part.
func (t *Transform) Linear() *Transform {
	return t.TranslatedBy(-t.m[4], -t.m[5])
}

// Matrix returns a copy of the six matrix entries.
func (t *Transform) Matrix() [6]float64 {
	return t.m
}

// IsIdentity reports whether t maps every point to itself.
func (t *Transform) IsIdentity() bool {
	return t == Identity || t.m == Identity.m
}

func (t *Transform) String() string {
	return fmt.Sprintf("Transform{%g, %g, %g, %g, %g, %g}",
		t.m[0], t.m[1], t.m[2], t.m[3], t.m[4], t.m[5])
}
