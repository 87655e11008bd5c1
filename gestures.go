package morphic

import "math"

// EditingGesture lets a hand rearrange the tree: pressing button 1 on a
// node grabs it, with shift picks it up, with ctrl picks up a clone.
// Releasing the button lets go of everything.
type EditingGesture struct{}

func (EditingGesture) HandleMouse(h *Hand, e *MouseEvent) bool {
	switch e.Type {
	case EventMouseDown:
		if e.Button != 1 {
			return false
		}
		target := h.owner.PickBelow(e.Position, h.Node)
		if target == nil {
			return false
		}
		switch {
		case e.Modifiers.Has(ModCtrl):
			h.PickUp(target.Clone())
		case e.Modifiers.Has(ModShift):
			h.PickUp(target)
		default:
			h.Grab(target)
		}
		return true
	case EventMouseUp:
		if len(h.grabbed) == 0 && len(h.children) == 0 {
			return false
		}
		h.UngrabAll()
		h.DropAll()
		return true
	}
	return false
}

type navigationMode uint8

const (
	navIdle navigationMode = iota
	navPan
	navZoom
)

// Wheel zoom factor per notch and shift+wheel rotation per notch.
const (
	WheelZoomStep     = 1.1
	WheelRotationStep = math.Pi / 50
)

// NavigationGesture moves an eye over the world the hand lives in: dragging
// empty space with button 1 pans, dragging with button 3 zooms about the eye
// centre, the wheel zooms about the pointer and shift+wheel rotates.
type NavigationGesture struct {
	Eye *Eye

	mode   navigationMode
	anchor Point // owner canonical point held under the pointer
	start  *Transform
}

// NewNavigationGesture returns a gesture navigating eye.
func NewNavigationGesture(eye *Eye) *NavigationGesture {
	return &NavigationGesture{Eye: eye}
}

func (g *NavigationGesture) HandleMouse(h *Hand, e *MouseEvent) bool {
	canonical := h.owner.ToCanonical(e.Position)
	switch e.Type {
	case EventMouseDown:
		switch e.Button {
		case 1:
			if h.owner.PickBelow(e.Position, h.Node) != nil {
				return false
			}
			g.mode = navPan
		case 3:
			g.mode = navZoom
		default:
			return false
		}
		g.anchor = canonical
		g.start = g.Eye.Transform()
		return true
	case EventMouseMove:
		switch g.mode {
		case navPan:
			g.pan(canonical)
			return true
		case navZoom:
			g.zoom(canonical)
			return true
		}
	case EventMouseUp:
		if g.mode != navIdle {
			g.mode = navIdle
			return true
		}
	case EventMouseWheel:
		if e.Count == 0 {
			return false
		}
		screen := g.Eye.ToInner(canonical)
		var step *Transform
		if e.Modifiers.Has(ModShift) {
			step = Rotation(float64(e.Count) * WheelRotationStep)
		} else {
			step = UniformScaling(math.Pow(WheelZoomStep, -float64(e.Count)))
		}
		g.Eye.TransformBy(about(screen, step))
		return true
	}
	return false
}

// pan keeps the anchor under the pointer.
func (g *NavigationGesture) pan(canonical Point) {
	screen := g.Eye.ToInner(canonical)
	d := g.anchor.Sub(g.start.Apply(screen))
	g.Eye.SetTransform(g.start.TranslatedBy(d.X, d.Y))
}

// zoom scales about the eye centre by the ratio of the pointer's distance
// from it now and at the press.
func (g *NavigationGesture) zoom(canonical Point) {
	inv := g.start.Inverse()
	from := inv.Apply(g.anchor).Norm()
	to := g.Eye.ToInner(canonical).Norm()
	if from == 0 || to == 0 {
		return
	}
	g.Eye.SetTransform(g.start.With(UniformScaling(from / to)))
}

// about returns t applied about the point p.
func about(p Point, t *Transform) *Transform {
	return Translation(p.X, p.Y).With(t).With(Translation(-p.X, -p.Y))
}
