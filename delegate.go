package morphic

import "image"

// Delegate is a pass-through Canvas. The optional hooks remap geometry on
// its way to Target: MapPoint for points and point lists, MapRect for
// rectangles, UnmapRect for rectangles reported back (clip, viewport).
type Delegate struct {
	Target    Canvas
	MapPoint  func(Point) Point
	MapRect   func(Rect) Rect
	UnmapRect func(Rect) Rect
}

// NewLocalCanvas returns a canvas on which n's local coordinates can be
// used directly; they are converted to canonical through n's coordinate
// system before reaching c.
func NewLocalCanvas(c Canvas, n *Node) *Delegate {
	return &Delegate{
		Target:    c,
		MapPoint:  n.ToCanonical,
		MapRect:   n.RectToCanonical,
		UnmapRect: n.RectToLocal,
	}
}

func (d *Delegate) point(p Point) Point {
	if d.MapPoint == nil {
		return p
	}
	return d.MapPoint(p)
}

func (d *Delegate) points(pts []Point) []Point {
	if d.MapPoint == nil {
		return pts
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = d.MapPoint(p)
	}
	return out
}

func (d *Delegate) rect(r Rect) Rect {
	if d.MapRect == nil {
		return r
	}
	return d.MapRect(r)
}

func (d *Delegate) unrect(r Rect) Rect {
	if d.UnmapRect == nil {
		return r
	}
	return d.UnmapRect(r)
}

func (d *Delegate) DrawPoint(p Point)        { d.Target.DrawPoint(d.point(p)) }
func (d *Delegate) DrawLine(p1, p2 Point)    { d.Target.DrawLine(d.point(p1), d.point(p2)) }
func (d *Delegate) DrawRect(r Rect)          { d.Target.DrawRect(d.rect(r)) }
func (d *Delegate) FillRect(r Rect)          { d.Target.FillRect(d.rect(r)) }
func (d *Delegate) DrawEllipse(r Rect)       { d.Target.DrawEllipse(d.rect(r)) }
func (d *Delegate) FillEllipse(r Rect)       { d.Target.FillEllipse(d.rect(r)) }
func (d *Delegate) DrawPolygon(pts []Point)  { d.Target.DrawPolygon(d.points(pts)) }
func (d *Delegate) FillPolygon(pts []Point)  { d.Target.FillPolygon(d.points(pts)) }
func (d *Delegate) DrawPolyline(pts []Point) { d.Target.DrawPolyline(d.points(pts)) }
func (d *Delegate) DrawText(s string, p Point) {
	d.Target.DrawText(s, d.point(p))
}

func (d *Delegate) DrawImage(img image.Image, src, dst Rect) {
	d.Target.DrawImage(img, src, d.rect(dst))
}

func (d *Delegate) DrawNode(n *Node) { n.FullDraw(d) }

func (d *Delegate) Color() Color              { return d.Target.Color() }
func (d *Delegate) SetColor(c Color)          { d.Target.SetColor(c) }
func (d *Delegate) FillColor() Color          { return d.Target.FillColor() }
func (d *Delegate) SetFillColor(c Color)      { d.Target.SetFillColor(c) }
func (d *Delegate) Alpha() float64            { return d.Target.Alpha() }
func (d *Delegate) SetAlpha(a float64)        { d.Target.SetAlpha(a) }
func (d *Delegate) Font() Font                { return d.Target.Font() }
func (d *Delegate) SetFont(f Font)            { d.Target.SetFont(f) }
func (d *Delegate) Transform() *Transform     { return d.Target.Transform() }
func (d *Delegate) SetTransform(t *Transform) { d.Target.SetTransform(t) }
func (d *Delegate) Clip() Rect                { return d.unrect(d.Target.Clip()) }
func (d *Delegate) SetClip(r Rect)            { d.Target.SetClip(d.rect(r)) }

func (d *Delegate) ViewClip() Rect {
	if vc, ok := d.Target.(viewClipper); ok {
		return vc.ViewClip()
	}
	return d.Clip()
}

func (d *Delegate) SetViewClip(r Rect) {
	if vc, ok := d.Target.(viewClipper); ok {
		vc.SetViewClip(r)
		return
	}
	d.SetClip(r)
}

func (d *Delegate) IsVisible(r Rect) bool { return d.Target.IsVisible(d.rect(r)) }
func (d *Delegate) Scale() float64        { return d.Target.Scale() }
func (d *Delegate) Viewport() Rect        { return d.unrect(d.Target.Viewport()) }

// --- Shadow ---

const (
	// ShadowAlphaScale multiplies every alpha set through a ShadowCanvas.
	ShadowAlphaScale = 0.3
)

// ShadowOffset is the translation applied to shadows, in the canonical
// space of the node whose children cast them.
var ShadowOffset = Point{0.05, 0.05}

// ShadowCanvas paints flat black silhouettes offset by ShadowOffset.
// Color changes are ignored and images become filled rectangles.
//
// NewShadowCanvas changes the target's transform, alpha and colors; callers
// restore them afterwards.
type ShadowCanvas struct {
	Delegate
}

func NewShadowCanvas(c Canvas) *ShadowCanvas {
	c.SetTransform(c.Transform().With(Translation(ShadowOffset.X, ShadowOffset.Y)))
	c.SetAlpha(c.Alpha() * ShadowAlphaScale)
	c.SetColor(Black)
	c.SetFillColor(Black)
	return &ShadowCanvas{Delegate{Target: c}}
}

func (s *ShadowCanvas) DrawImage(_ image.Image, _, dst Rect) { s.FillRect(dst) }
func (s *ShadowCanvas) SetColor(Color)                       {}
func (s *ShadowCanvas) SetFillColor(Color)                   {}
func (s *ShadowCanvas) SetAlpha(a float64)                   { s.Target.SetAlpha(a * ShadowAlphaScale) }
func (s *ShadowCanvas) Alpha() float64                       { return s.Target.Alpha() / ShadowAlphaScale }
func (s *ShadowCanvas) DrawNode(n *Node)                     { n.FullDraw(s) }

// --- X-ray ---

// XRayCanvas halves every alpha it is given and reports it doubled, so that
// layers drawn through nested x-ray canvases compound multiplicatively.
type XRayCanvas struct {
	Delegate
}

func NewXRayCanvas(c Canvas) *XRayCanvas {
	return &XRayCanvas{Delegate{Target: c}}
}

func (x *XRayCanvas) SetAlpha(a float64) { x.Target.SetAlpha(a / 2) }
func (x *XRayCanvas) Alpha() float64     { return x.Target.Alpha() * 2 }
func (x *XRayCanvas) DrawNode(n *Node)   { n.FullDraw(x) }

// --- Eye filter ---

// eyeFilter forwards full draws until it meets eye; everything after that
// in the same pass is in front of the eye and is dropped.
type eyeFilter struct {
	Delegate
	eye     *Node
	reached bool
}

func (f *eyeFilter) DrawNode(n *Node) {
	if n == f.eye {
		f.reached = true
		return
	}
	if !f.reached {
		n.FullDraw(f)
	}
}
