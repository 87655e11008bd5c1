package morphic

import "math"

// CoordinateSystem maps a node's local coordinates to its canonical space
// ([-1,1]x[-1,1]) and back. Implementations are stateless and the two
// directions are near-inverses away from their singular points.
type CoordinateSystem interface {
	ToCanonical(local Point) Point
	ToLocal(canonical Point) Point
}

// Cartesian linearly maps the canonical square onto the box
// (MinX, MinY)-(MaxX, MaxY). A box with MaxX < MinX or MaxY < MinY flips
// the corresponding axis.
type Cartesian struct {
	MinX, MinY, MaxX, MaxY float64
}

var (
	// Canonical is the identity mapping.
	Canonical = Cartesian{-1, -1, 1, 1}

	// UpsideDown flips the Y axis so that Y grows upward.
	UpsideDown = Cartesian{-1, 1, 1, -1}

	// Mirror flips the X axis.
	Mirror = Cartesian{1, -1, -1, 1}

	// Geographic maps longitude/latitude degrees (equirectangular).
	Geographic = Cartesian{-180, -90, 180, 90}
)

func (c Cartesian) ToCanonical(local Point) Point {
	return Point{
		X: (local.X-c.MinX)/(c.MaxX-c.MinX)*2 - 1,
		Y: (local.Y-c.MinY)/(c.MaxY-c.MinY)*2 - 1,
	}
}

func (c Cartesian) ToLocal(canonical Point) Point {
	return Point{
		X: (canonical.X+1)*(c.MaxX-c.MinX)/2 + c.MinX,
		Y: (canonical.Y+1)*(c.MaxY-c.MinY)/2 + c.MinY,
	}
}

// Polar reads local points as (radius, angle) pairs. The unit disk maps to
// [0,1]x(-π,π]. At the origin the angle is reported as 0.
type Polar struct{}

func (Polar) ToCanonical(local Point) Point {
	return FromPolar(local.X, local.Y)
}

func (Polar) ToLocal(canonical Point) Point {
	return Point{X: canonical.Radius(), Y: canonical.Angle()}
}

// Beltrami is the Beltrami-Klein model of the hyperbolic plane applied
// per axis: canonical = tanh(local). Points on the boundary of the canonical
// square map to infinity.
type Beltrami struct{}

func (Beltrami) ToCanonical(local Point) Point {
	return Point{X: math.Tanh(local.X), Y: math.Tanh(local.Y)}
}

func (Beltrami) ToLocal(canonical Point) Point {
	return Point{X: math.Atanh(canonical.X), Y: math.Atanh(canonical.Y)}
}

// Poincare is the Poincaré disk model. A local point at hyperbolic distance
// d from the origin lands at Euclidean radius tanh(d/2) of the unit disk.
// The boundary circle is singular.
type Poincare struct{}

func (Poincare) ToCanonical(local Point) Point {
	// Klein coordinates first, then project onto the Poincaré disk.
	k := FromPolar(math.Tanh(local.Radius()), local.Angle())
	t := 1 + math.Sqrt(1-k.Norm2())
	return k.Scale(1 / t)
}

func (Poincare) ToLocal(canonical Point) Point {
	n2 := canonical.Norm2()
	if n2 == 0 {
		return Origin
	}
	k := canonical.Scale(2 / (1 + n2))
	return FromPolar(math.Atanh(k.Norm()), canonical.Angle())
}
