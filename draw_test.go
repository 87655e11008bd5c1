package morphic

import (
	"slices"
	"strings"
	"testing"
)

// drawLogger returns an OnDraw hook that records name on rc.
func drawLogger(rc *recordingCanvas, name string) func(*Node, Canvas) {
	return func(*Node, Canvas) { rc.log("draw %s", name) }
}

func TestFullDrawBackToFront(t *testing.T) {
	rc := newRecordingCanvas()
	root := NewNode("root")
	root.OnDraw = drawLogger(rc, "root")
	for _, s := range []string{"a", "b", "c"} {
		n := NewNode(s)
		n.ScaleBy(0.5)
		n.OnDraw = drawLogger(rc, s)
		root.AddChild(n)
	}
	deep := NewNode("deep")
	deep.OnDraw = drawLogger(rc, "deep")
	root.ChildAt(0).AddChild(deep)

	root.FullDraw(rc)

	want := []string{"draw root", "draw a", "draw deep", "draw b", "draw c"}
	if !slices.Equal(rc.calls, want) {
		t.Errorf("calls = %v, want %v", rc.calls, want)
	}
	if rc.Transform() != Identity {
		t.Errorf("transform not restored: %v", rc.Transform())
	}
}

func TestFullDrawComposesTransform(t *testing.T) {
	rc := newRecordingCanvas()
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)
	root.ScaleBy(0.5)
	child.TranslateBy(0.5, 0)
	child.OnDraw = func(_ *Node, c Canvas) {
		assertMatrix(t, "inner", c.Transform().Matrix(), root.Transform().With(child.Transform()).Matrix())
		c.FillRect(Rect{0, 0, 0.5, 0.5})
	}
	root.FullDraw(rc)
	if len(rc.rects) != 1 {
		t.Fatalf("rects = %v", rc.rects)
	}
	assertRect(t, "view rect", rc.rects[0], Rect{0.25, 0, 0.25, 0.25})
}

func TestFullDrawIsolatesFailures(t *testing.T) {
	rc := newRecordingCanvas()
	root := NewNode("root")
	bad := NewNode("bad")
	bad.ScaleBy(0.5)
	bad.OnDraw = func(_ *Node, c Canvas) {
		c.SetAlpha(0.1)
		c.SetTransform(Translation(9, 9))
		panic("boom")
	}
	good := NewNode("good")
	good.OnDraw = drawLogger(rc, "good")
	root.AddChild(bad)
	root.AddChild(good)

	before := DrawFailures()
	root.FullDraw(rc)

	if DrawFailures() != before+1 {
		t.Errorf("DrawFailures = %d, want %d", DrawFailures(), before+1)
	}
	want := []string{"fillrect alpha=1.00", "rect", "line", "line", "draw good"}
	if len(rc.calls) != len(want) {
		t.Fatalf("calls = %v", rc.calls)
	}
	for i, w := range want {
		if !strings.HasPrefix(rc.calls[i], w) {
			t.Errorf("call %d = %q, want prefix %q", i, rc.calls[i], w)
		}
	}
	assertRect(t, "marker", rc.rects[0], Rect{-0.5, -0.5, 1, 1})
	if rc.FillColor() != Red {
		t.Errorf("marker fill = %v, want red", rc.FillColor())
	}
	if rc.Transform() != Identity || rc.Alpha() != 1 {
		t.Errorf("state not restored: transform %v alpha %v", rc.Transform(), rc.Alpha())
	}
}

func TestFullDrawCulls(t *testing.T) {
	rc := newRecordingCanvas()
	rc.Resolution = 100
	root := NewNode("root")
	root.OnDraw = drawLogger(rc, "root")

	far := NewNode("far")
	far.TranslateBy(5, 0)
	far.OnDraw = drawLogger(rc, "far")
	tiny := NewNode("tiny")
	tiny.ScaleBy(0.001)
	tiny.OnDraw = drawLogger(rc, "tiny")
	free := NewNode("free")
	free.SetUnbounded()
	free.TranslateBy(50, 50)
	free.OnDraw = drawLogger(rc, "free")
	root.AddChild(far)
	root.AddChild(tiny)
	root.AddChild(free)

	root.FullDraw(rc)

	want := []string{"draw root", "draw free"}
	if !slices.Equal(rc.calls, want) {
		t.Errorf("calls = %v, want %v", rc.calls, want)
	}
}

func TestFullDrawDrawsChildrenOfInvisibleOwner(t *testing.T) {
	rc := newRecordingCanvas()
	// The owner's own bounds lie outside the clip, but its child's do not.
	owner := NewNode("owner")
	owner.TranslateBy(2.5, 0)
	owner.OnDraw = drawLogger(rc, "owner")
	child := NewNode("child")
	child.TranslateBy(-2.5, 0)
	child.OnDraw = drawLogger(rc, "child")
	owner.AddChild(child)

	owner.FullDraw(rc)
	if !slices.Equal(rc.calls, []string{"draw child"}) {
		t.Errorf("calls = %v", rc.calls)
	}
}

func TestFullDrawRestoresAlphaAndClip(t *testing.T) {
	rc := newRecordingCanvas()
	root := NewNode("root")
	root.ScaleBy(0.5)
	var clipInDraw Rect
	root.OnDraw = func(_ *Node, c Canvas) {
		clipInDraw = rc.ViewClip()
		c.SetAlpha(0.2)
		c.SetClip(Rect{0, 0, 0.1, 0.1})
	}
	var childAlpha float64
	child := NewNode("child")
	child.OnDraw = func(_ *Node, c Canvas) { childAlpha = c.Alpha() }
	root.AddChild(child)

	root.FullDraw(rc)

	assertRect(t, "clip during draw", clipInDraw, Rect{-0.5, -0.5, 1, 1})
	assertNear(t, "child alpha", childAlpha, 1)
	assertNear(t, "alpha after", rc.Alpha(), 1)
	assertRect(t, "clip after", rc.ViewClip(), UnitRect)
}

// --- Decorators ---

func TestHandChildrenCastShadows(t *testing.T) {
	rc := newRecordingCanvas()
	h := NewHand("hand")
	carried := NewNode("carried")
	carried.ScaleBy(0.25)
	carried.OnDraw = func(n *Node, c Canvas) {
		c.SetFillColor(Blue)
		c.FillRect(n.Bounds())
	}
	h.AddChild(carried)

	h.FullDraw(rc)

	want := []string{"fillrect alpha=0.30", "fillrect alpha=1.00"}
	if !slices.Equal(rc.calls, want) {
		t.Fatalf("calls = %v, want %v", rc.calls, want)
	}
	assertRect(t, "shadow", rc.rects[0], Rect{-0.2, -0.2, 0.5, 0.5})
	assertRect(t, "body", rc.rects[1], Rect{-0.25, -0.25, 0.5, 0.5})
	if rc.FillColor() != Blue {
		t.Errorf("fill = %v, want the node's own color after the shadow pass", rc.FillColor())
	}
}

func TestShadowCanvasIgnoresColorsAndFlattensImages(t *testing.T) {
	rc := newRecordingCanvas()
	s := NewShadowCanvas(rc)
	s.SetColor(Red)
	s.SetFillColor(Red)
	if rc.Color() != Black || rc.FillColor() != Black {
		t.Errorf("colors = %v/%v, want black", rc.Color(), rc.FillColor())
	}
	s.DrawImage(nil, Rect{}, Rect{0, 0, 0.5, 0.5})
	if len(rc.calls) != 1 || !strings.HasPrefix(rc.calls[0], "fillrect") {
		t.Errorf("calls = %v, want a single fill", rc.calls)
	}
	s.SetAlpha(0.5)
	assertNear(t, "target alpha", rc.Alpha(), 0.5*ShadowAlphaScale)
	assertNear(t, "reported alpha", s.Alpha(), 0.5)
}

func TestXRayCanvasCompoundsAlpha(t *testing.T) {
	rc := newRecordingCanvas()
	outer := NewXRayCanvas(rc)
	inner := NewXRayCanvas(outer)

	inner.SetAlpha(1)
	assertNear(t, "target alpha", rc.Alpha(), 0.25)
	assertNear(t, "outer alpha", outer.Alpha(), 0.5)
	assertNear(t, "inner alpha", inner.Alpha(), 1)
}

func TestLocalCanvasMapsThroughCoordinateSystem(t *testing.T) {
	rc := newRecordingCanvas()
	n := NewNode("map")
	n.SetCoordinateSystem(Geographic)
	lc := NewLocalCanvas(rc, n)

	lc.FillRect(Rect{-180, -90, 360, 180})
	assertRect(t, "canonical", rc.rects[0], UnitRect)
	assertRect(t, "clip in local space", lc.Clip(), Rect{-180, -90, 360, 180})

	lc.DrawLine(Pt(0, 0), Pt(90, 45))
	if got := rc.calls[len(rc.calls)-1]; got != "line (0, 0) (0.5, 0.5)" {
		t.Errorf("line = %q", got)
	}
}

func TestStateCanvasQueries(t *testing.T) {
	s := NewStateCanvas(100)
	s.SetTransform(UniformScaling(0.5).TranslatedBy(0.25, 0))
	assertNear(t, "scale", s.Scale(), 0.5)
	assertRect(t, "viewport", s.Viewport(), Rect{-2.5, -2, 4, 4})
	if !s.IsVisible(UnitRect) {
		t.Error("unit rect should be visible")
	}
	if s.IsVisible(Rect{0, 0, 0.001, 0.001}) {
		t.Error("sub-pixel rect should not be visible")
	}
	if !s.IsVisible(InfiniteRect) {
		t.Error("infinite rect is always visible")
	}

	s.SetClip(Rect{0, 0, 1, 1})
	assertRect(t, "view clip", s.ViewClip(), Rect{0.25, 0, 0.5, 0.5})
	assertRect(t, "clip", s.Clip(), Rect{0, 0, 1, 1})
	if s.IsVisible(Rect{-1, -1, 0.5, 0.5}) {
		t.Error("rect outside the clip should not be visible")
	}
}

func BenchmarkFullDraw(b *testing.B) {
	rc := newRecordingCanvas()
	root := NewNode("root")
	for i := 0; i < 100; i++ {
		n := NewNode("n")
		n.ScaleBy(0.1)
		n.OnDraw = func(n *Node, c Canvas) { c.FillRect(n.Bounds()) }
		root.AddChild(n)
	}
	for i := 0; i < b.N; i++ {
		rc.calls = rc.calls[:0]
		rc.rects = rc.rects[:0]
		root.FullDraw(rc)
	}
}
