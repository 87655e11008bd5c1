package morphic

import (
	"fmt"
	"image"
	"os"
	"testing"
	"time"

	mlog "github.com/phanxgames/morphic/internal/log"
)

func TestMain(m *testing.M) {
	mlog.Discard()
	os.Exit(m.Run())
}

// --- Recording canvas ---

// recordingCanvas logs primitive calls together with the transform in
// effect, so tests can check where things were drawn.
type recordingCanvas struct {
	StateCanvas
	calls []string
	rects []Rect // view-space rects of FillRect/DrawRect calls
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{StateCanvas: NewStateCanvas(0)}
}

func (r *recordingCanvas) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingCanvas) DrawPoint(p Point)        { r.log("point %v", p) }
func (r *recordingCanvas) DrawLine(p1, p2 Point)    { r.log("line %v %v", p1, p2) }
func (r *recordingCanvas) DrawEllipse(b Rect)       { r.log("ellipse %v", b) }
func (r *recordingCanvas) FillEllipse(b Rect)       { r.log("fillellipse %v", b) }
func (r *recordingCanvas) DrawPolygon(pts []Point)  { r.log("polygon %d", len(pts)) }
func (r *recordingCanvas) FillPolygon(pts []Point)  { r.log("fillpolygon %d", len(pts)) }
func (r *recordingCanvas) DrawPolyline(pts []Point) { r.log("polyline %d", len(pts)) }

func (r *recordingCanvas) DrawText(s string, p Point) {
	r.log("text %q", s)
}

func (r *recordingCanvas) DrawImage(_ image.Image, _, dst Rect) {
	r.log("image %v", dst)
}

func (r *recordingCanvas) DrawRect(b Rect) {
	r.log("rect")
	r.rects = append(r.rects, r.Transform().ApplyRect(b))
}

func (r *recordingCanvas) FillRect(b Rect) {
	r.log("fillrect alpha=%.2f", r.Alpha())
	r.rects = append(r.rects, r.Transform().ApplyRect(b))
}

func (r *recordingCanvas) DrawNode(n *Node) { n.FullDraw(r) }

// --- Fake clock ---

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestWorld(c *fakeClock) *World {
	return NewWorld(WithClock(c.Now))
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	assertNear(t, name+".X", got.X, want.X)
	assertNear(t, name+".Y", got.Y, want.Y)
	assertNear(t, name+".Width", got.Width, want.Width)
	assertNear(t, name+".Height", got.Height, want.Height)
}

// hitNode returns a node hit everywhere inside its unit bounds.
func hitNode(name string) *Node {
	n := NewNode(name)
	n.HitShape = HitRect(UnitRect)
	return n
}
