package ebitenhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/morphic"
	mlog "github.com/phanxgames/morphic/internal/log"
)

// newTestGame builds a 200x200 game whose eye sees the world at half size
// shifted right, with one small target at world (0.75, 0.25).
func newTestGame(t *testing.T) (*Game, *morphic.Node) {
	t.Helper()
	mlog.Discard()

	w := morphic.NewWorld()
	e := morphic.NewEye("eye")
	e.SetTransform(morphic.Translation(0.5, 0).ScaledBy(0.5))
	w.AddChild(e.Node)

	target := morphic.NewNode("target")
	target.SetTransform(morphic.Translation(0.75, 0.25).ScaledBy(0.1))
	target.HitShape = morphic.HitAll
	w.AddChild(target)

	h := morphic.NewHand("hand")
	w.AddChild(h.Node)

	g := NewGame(w, e, h)
	g.Layout(200, 200)
	return g, target
}

func TestGameLayout(t *testing.T) {
	g, _ := newTestGame(t)
	w, h := g.Layout(640, 480)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, viewport{640, 480}, g.vp)
}

func TestGameHandPosition(t *testing.T) {
	g, _ := newTestGame(t)
	p := g.handPosition(morphic.Pt(0.5, 0.5))
	assert.InDelta(t, 0.75, p.X, 1e-9)
	assert.InDelta(t, 0.25, p.Y, 1e-9)
}

func TestGameDispatchesWindowInput(t *testing.T) {
	g, target := newTestGame(t)

	var at morphic.Point
	var downs int
	target.OnMouseDown = func(_ *morphic.Node, e *morphic.MouseEvent) bool {
		downs++
		at = e.Position
		return true
	}
	var keys []rune
	target.OnKeyDown = func(_ *morphic.Node, e *morphic.KeyEvent) bool {
		keys = append(keys, e.Char)
		return true
	}

	// Device (150, 150) is view (0.5, 0.5), which the eye sees at the target.
	g.in = frameInput{x: 150, y: 150}
	g.in.held[0], g.in.justPressed[0] = true, true
	g.World.Do(g.update)

	require.Equal(t, 1, downs)
	assert.InDelta(t, 0, at.X, 1e-9)
	assert.InDelta(t, 0, at.Y, 1e-9)

	g.Hand.SetKeyboardFocus(target)
	g.in = frameInput{x: 150, y: 150, chars: []rune{'x'}}
	g.World.Do(g.update)
	assert.Equal(t, []rune{'x'}, keys)
}

func TestGameInjectedInputReplacesWindowInput(t *testing.T) {
	g, target := newTestGame(t)

	var got []morphic.EventType
	record := func(_ *morphic.Node, e *morphic.MouseEvent) bool {
		got = append(got, e.Type)
		return true
	}
	target.OnMouseDown = record
	target.OnMouseUp = record
	target.OnMouseClick = record

	s, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 0.75, "y": 0.25}]}`))
	require.NoError(t, err)
	g.SetScript(s)

	// A window press elsewhere is ignored while the script's events play.
	g.in = frameInput{x: 0, y: 0}
	g.in.justPressed[0] = true
	for range 3 {
		g.World.Do(g.update)
	}
	assert.Equal(t, []morphic.EventType{morphic.EventMouseDown, morphic.EventMouseUp, morphic.EventMouseClick}, got)
	assert.False(t, s.Done())

	g.in = frameInput{}
	g.World.Do(g.update)
	assert.True(t, s.Done())
}

func TestGameScreenshotQueues(t *testing.T) {
	g, _ := newTestGame(t)
	g.Screenshot("one")
	g.Screenshot("two")
	assert.Equal(t, []string{"one", "two"}, g.screenshotQueue)
	assert.Equal(t, "screenshots", g.ScreenshotDir)
}
