package ebitenhost

import (
	"context"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/morphic"
	mlog "github.com/phanxgames/morphic/internal/log"
)

// Game is an ebiten.Game showing what an eye sees and feeding window input
// to a hand. The eye and the hand must both live under the world.
//
// Update and Draw take the world lock, so the world's scheduler may run
// concurrently in another goroutine.
type Game struct {
	World *morphic.World
	Eye   *morphic.Eye
	Hand  *morphic.Hand

	// ShowFPS draws frame rate, tick rate and redraw count in the corner.
	ShowFPS bool
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string

	ctx    context.Context
	log    *slog.Logger
	vp     viewport
	frame  *ebiten.Image
	canvas *Canvas
	in     frameInput
	ptr    pointer
	script *Script
	fps    fpsOverlay

	screenshotQueue []string
	redraws         int
}

// NewGame returns a game showing eye's view and driving hand. The eye is
// made transparent so that it does not cover the scene for the hand.
func NewGame(w *morphic.World, eye *morphic.Eye, hand *morphic.Hand) *Game {
	eye.Transparent = true
	return &Game{
		World:         w,
		Eye:           eye,
		Hand:          hand,
		ScreenshotDir: "screenshots",
		ctx:           context.Background(),
		log:           mlog.WithComponent("ebitenhost"),
	}
}

// SetScript attaches an input script. It is stepped once per Update,
// before real input is read.
func (g *Game) SetScript(s *Script) {
	g.script = s
}

// Redraws returns how many frames repainted damaged areas.
func (g *Game) Redraws() int { return g.redraws }

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	readInput(&g.in)
	g.World.Do(g.update)
	return nil
}

// update dispatches one frame of input. Injected events replace real input
// for the frame they are processed in.
func (g *Game) update() {
	if g.script != nil {
		g.script.step(g.Hand, g.Screenshot)
	}
	if g.Hand.ProcessInjected() {
		return
	}
	for _, e := range g.ptr.mouseEvents(&g.in, g.vp) {
		e.Position = g.handPosition(e.Position)
		g.Hand.DispatchMouse(e)
	}
	for _, e := range keyEvents(&g.in) {
		g.Hand.DispatchKey(e)
	}
}

// handPosition converts a point in the eye's view into the local space of
// the hand's owner.
func (g *Game) handPosition(view morphic.Point) morphic.Point {
	root := g.World.Node
	canonical := g.Eye.ToOuterUpTo(view, root)
	owner := g.Hand.Owner()
	if owner == nil {
		return canonical
	}
	return owner.ToLocal(owner.ToInnerFrom(canonical, root))
}

func (g *Game) Draw(screen *ebiten.Image) {
	var activities int
	g.World.Do(func() {
		g.redraw(screen.Bounds())
		activities = g.World.NumActivities()
	})
	screen.DrawImage(g.frame, nil)
	if g.ShowFPS {
		g.fps.draw(screen, g.redraws, activities)
	}
	g.flushScreenshots(screen)
}

// redraw repaints the part of the frame the eye reports as changed. A new
// frame size repaints the whole view.
func (g *Game) redraw(b image.Rectangle) {
	full := false
	if g.frame == nil || g.frame.Bounds().Size() != b.Size() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
		g.canvas = NewCanvas(g.frame)
		full = true
	}
	r, ok := g.Eye.DrainChanged()
	if full {
		r, ok = morphic.UnitRect, true
	}
	if !ok {
		return
	}
	c := g.canvas
	c.Reset()
	c.SetViewClip(r.Intersection(morphic.UnitRect))
	c.target().Clear()
	g.Eye.DrawWorld(c)
	g.redraws++
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.vp = viewport{w: outsideWidth, h: outsideHeight}
	return outsideWidth, outsideHeight
}
