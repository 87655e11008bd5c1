package morphic

import (
	"image"
	"math"
)

// Canvas is an abstract drawing surface. Coordinates passed to primitives are
// in the canonical space of the node currently being drawn; the current
// Transform maps that space onto the surface's view.
//
// Full draws save and restore transform, clip and alpha around every node,
// so implementations only need plain setters and getters.
type Canvas interface {
	DrawPoint(p Point)
	DrawLine(p1, p2 Point)
	DrawRect(r Rect)
	FillRect(r Rect)
	DrawEllipse(r Rect)
	FillEllipse(r Rect)
	DrawPolygon(pts []Point)
	FillPolygon(pts []Point)
	DrawPolyline(pts []Point)
	DrawText(s string, p Point)
	// DrawImage blits the src region of img (in image pixels) into dst.
	// An empty src means the whole image.
	DrawImage(img image.Image, src, dst Rect)
	// DrawNode performs a full draw of n onto this canvas.
	DrawNode(n *Node)

	Color() Color
	SetColor(c Color)
	FillColor() Color
	SetFillColor(c Color)
	Alpha() float64
	SetAlpha(a float64)
	Font() Font
	SetFont(f Font)
	Transform() *Transform
	SetTransform(t *Transform)
	Clip() Rect
	SetClip(r Rect)

	// IsVisible reports whether r covers at least a pixel and intersects
	// the clip.
	IsVisible(r Rect) bool
	// Scale is the square root of the view area a canonical unit square
	// currently occupies. Useful for level-of-detail decisions.
	Scale() float64
	// Viewport is the part of the current canonical space that is visible.
	Viewport() Rect
}

// ImageRect returns the pixel bounds of img as a Rect.
func ImageRect(img image.Image) Rect {
	b := img.Bounds()
	return Rect{float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy())}
}

// StateCanvas holds the mutable state every Canvas needs and answers the
// derived queries. Backends embed it and add primitives plus DrawNode.
//
// The transform maps node canonical space to view space, where the visible
// area is the unit rectangle. The clip is stored in view space.
type StateCanvas struct {
	// Resolution is the number of device pixels per view unit. Zero
	// disables the minimum-size test in IsVisible.
	Resolution float64

	transform *Transform
	clip      Rect
	color     Color
	fill      Color
	alpha     float64
	font      Font
}

// NewStateCanvas returns a reset StateCanvas for the given resolution.
func NewStateCanvas(resolution float64) StateCanvas {
	s := StateCanvas{Resolution: resolution}
	s.Reset()
	return s
}

// Reset restores identity transform, full clip, opaque alpha, black stroke,
// white fill and the default font.
func (s *StateCanvas) Reset() {
	s.transform = Identity
	s.clip = UnitRect
	s.color = Black
	s.fill = White
	s.alpha = 1
	s.font = DefaultFont
}

func (s *StateCanvas) Color() Color          { return s.color }
func (s *StateCanvas) SetColor(c Color)      { s.color = c }
func (s *StateCanvas) FillColor() Color      { return s.fill }
func (s *StateCanvas) SetFillColor(c Color)  { s.fill = c }
func (s *StateCanvas) Font() Font            { return s.font }
func (s *StateCanvas) SetFont(f Font)        { s.font = f }
func (s *StateCanvas) Alpha() float64        { return s.alpha }
func (s *StateCanvas) SetAlpha(a float64)    { s.alpha = clamp01(a) }
func (s *StateCanvas) Transform() *Transform { return s.transform }

func (s *StateCanvas) SetTransform(t *Transform) {
	if t == nil {
		t = Identity
	}
	s.transform = t
}

// Clip returns the clip rectangle in the current canonical space.
func (s *StateCanvas) Clip() Rect {
	inv, err := s.transform.Invert()
	if err != nil {
		return Rect{}
	}
	return inv.ApplyRect(s.clip)
}

// SetClip replaces the clip with r, given in the current canonical space.
func (s *StateCanvas) SetClip(r Rect) {
	if r.IsInf() {
		s.clip = UnitRect
		return
	}
	s.clip = s.transform.ApplyRect(r)
}

// ViewClip returns the clip in view space.
func (s *StateCanvas) ViewClip() Rect { return s.clip }

// SetViewClip replaces the clip with r, given in view space.
func (s *StateCanvas) SetViewClip(r Rect) { s.clip = r }

func (s *StateCanvas) IsVisible(r Rect) bool {
	if r.IsInf() {
		return true
	}
	v := s.transform.ApplyRect(r)
	if s.Resolution > 0 && (v.Width*s.Resolution < 1 || v.Height*s.Resolution < 1) {
		return false
	}
	return v.Intersects(s.clip)
}

func (s *StateCanvas) Scale() float64 {
	return math.Sqrt(math.Abs(s.transform.Determinant()))
}

func (s *StateCanvas) Viewport() Rect {
	inv, err := s.transform.Invert()
	if err != nil {
		return Rect{}
	}
	return inv.ApplyRect(UnitRect)
}

// ErrorMarker draws the marker used in place of a node whose draw hook
// failed: a red rectangle with a yellow outline and both diagonals.
func ErrorMarker(c Canvas, bounds Rect) {
	c.SetColor(Yellow)
	c.SetFillColor(Red)
	c.FillRect(bounds)
	c.DrawRect(bounds)
	c.DrawLine(bounds.TopLeft(), bounds.BottomRight())
	c.DrawLine(bounds.BottomLeft(), bounds.TopRight())
}
