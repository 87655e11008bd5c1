package morphic

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// --- Point ---

// Point is an immutable 2D coordinate pair.
// Equality with == compares floats exactly and is numerically fragile.
type Point struct {
	X, Y float64
}

// Origin is the point (0, 0).
var Origin = Point{}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// FromPolar returns the point at distance r and angle theta from the origin.
func FromPolar(r, theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{X: r * cos, Y: r * sin}
}

// RandomPoint returns a point uniformly distributed in [-1,1)x[-1,1).
func RandomPoint() Point {
	return Point{X: rand.Float64()*2 - 1, Y: rand.Float64()*2 - 1}
}

// IsInf reports whether either coordinate is infinite.
func (p Point) IsInf() bool {
	return math.IsInf(p.X, 0) || math.IsInf(p.Y, 0)
}

// IsNaN reports whether either coordinate is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Translate returns p moved by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// ScaleXY returns p scaled component-wise by q.
func (p Point) ScaleXY(q Point) Point {
	return Point{p.X * q.X, p.Y * q.Y}
}

// Rotate returns p rotated by theta radians around the origin.
func (p Point) Rotate(theta float64) Point {
	sin, cos := math.Sincos(theta)
	return Point{cos*p.X - sin*p.Y, sin*p.X + cos*p.Y}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{math.Min(p.X, q.X), math.Min(p.Y, q.Y)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{math.Max(p.X, q.X), math.Max(p.Y, q.Y)}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance2 returns the squared distance between p and q.
func (p Point) Distance2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Sqrt(p.Distance2(q))
}

// Norm2 returns the squared length of p.
func (p Point) Norm2() float64 {
	return p.X*p.X + p.Y*p.Y
}

// Norm returns the length of p.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Radius is the polar radius of p. Same as Norm.
func (p Point) Radius() float64 {
	return p.Norm()
}

// Angle is the polar angle of p in radians, in (-π, π].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// To returns the rectangle spanned by p and corner.
func (p Point) To(corner Point) Rect {
	return Encompassing(p, corner)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// --- Rect ---

// Rect is an immutable axis-aligned rectangle. Y grows downward in device
// space but nothing in the geometry itself depends on that.
type Rect struct {
	X, Y, Width, Height float64
}

var (
	// UnitRect bounds the unit disk; it is the default node bounds.
	UnitRect = Rect{X: -1, Y: -1, Width: 2, Height: 2}

	// InfiniteRect covers the whole plane.
	InfiniteRect = Rect{
		X: math.Inf(-1), Y: math.Inf(-1),
		Width: math.Inf(1), Height: math.Inf(1),
	}
)

// Encompassing returns the smallest rectangle containing every point.
// Panics when no points are given.
func Encompassing(pts ...Point) Rect {
	if len(pts) == 0 {
		panic("morphic: Encompassing needs at least one point")
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return Rect{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsInf reports whether r extends to infinity on any side.
func (r Rect) IsInf() bool {
	return math.IsInf(r.X, 0) || math.IsInf(r.Y, 0) ||
		math.IsInf(r.Width, 0) || math.IsInf(r.Height, 0)
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 {
	if math.IsInf(r.Width, 1) {
		return math.Inf(1)
	}
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	if math.IsInf(r.Height, 1) {
		return math.Inf(1)
	}
	return r.Y + r.Height
}

// Contains reports whether p lies in r. The left and top edges are inclusive,
// the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X-r.X < r.Width && p.Y-r.Y < r.Height
}

// Intersection returns the overlap of r and o. Disjoint rectangles yield a
// rectangle with zero width or height.
func (r Rect) Intersection(o Rect) Rect {
	left := math.Max(r.X, o.X)
	top := math.Max(r.Y, o.Y)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	out := Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
	if right < left {
		out.X, out.Width = 0, 0
	}
	if bottom < top {
		out.Y, out.Height = 0, 0
	}
	return out
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersection(o).Empty()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	left := math.Min(r.X, o.X)
	top := math.Min(r.Y, o.Y)
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.Width, r.Height}
}

// TranslateBack returns r moved by -d.
func (r Rect) TranslateBack(d Point) Rect {
	return Rect{r.X - d.X, r.Y - d.Y, r.Width, r.Height}
}

// Inset shrinks r by delta on every side. Negative delta grows it.
func (r Rect) Inset(delta float64) Rect {
	return Rect{r.X + delta, r.Y + delta, r.Width - 2*delta, r.Height - 2*delta}
}

func (r Rect) TopLeft() Point      { return Point{r.X, r.Y} }
func (r Rect) TopRight() Point     { return Point{r.Right(), r.Y} }
func (r Rect) BottomLeft() Point   { return Point{r.X, r.Bottom()} }
func (r Rect) BottomRight() Point  { return Point{r.Right(), r.Bottom()} }
func (r Rect) TopCenter() Point    { return Point{r.X + r.Width/2, r.Y} }
func (r Rect) BottomCenter() Point { return Point{r.X + r.Width/2, r.Bottom()} }
func (r Rect) CenterLeft() Point   { return Point{r.X, r.Y + r.Height/2} }
func (r Rect) CenterRight() Point  { return Point{r.Right(), r.Y + r.Height/2} }
func (r Rect) Center() Point       { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// Corners returns top-left, top-right, bottom-left and bottom-right.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.TopLeft(), r.TopRight(), r.BottomLeft(), r.BottomRight()}
}

// mapRect converts r corner by corner and returns the bounding box of the
// results. Under rotation or non-linear mappings the result is larger than
// the exact image of r.
func mapRect(r Rect, f func(Point) Point) Rect {
	c := r.Corners()
	return Encompassing(f(c[0]), f(c[1]), f(c[2]), f(c[3]))
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g, %g, %g x %g]", r.X, r.Y, r.Width, r.Height)
}
