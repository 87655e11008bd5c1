// physics fills a bounded simulation with particles held together by an
// all-pairs spring and pushed apart by n-body repulsion. Click empty space
// inside the disk to add a particle; drag particles around with the left
// button.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/phanxgames/morphic"
	"github.com/phanxgames/morphic/ebitenhost"
	"github.com/phanxgames/morphic/internal/config"
	mlog "github.com/phanxgames/morphic/internal/log"
	"github.com/phanxgames/morphic/physics"
)

const (
	particleCount = 12
	particleSize  = 0.05
)

var palette = []morphic.Color{morphic.Red, morphic.Orange, morphic.Cyan, morphic.Magenta, morphic.Lime, morphic.Navy}

func particle(i int, at morphic.Point) *morphic.Node {
	n := morphic.NewNode(fmt.Sprintf("p%d", i))
	n.SetTransform(morphic.Translation(at.X, at.Y).ScaledBy(particleSize))
	n.HitShape = morphic.HitCircle{Radius: 1}
	fill := palette[i%len(palette)]
	n.OnDraw = func(n *morphic.Node, c morphic.Canvas) {
		c.SetFillColor(fill)
		c.FillEllipse(n.Bounds())
		c.SetColor(morphic.Black)
		c.DrawEllipse(n.Bounds())
	}
	return n
}

func run() error {
	cfg, err := config.Load(os.Getenv("MORPHIC_CONFIG"))
	if err != nil {
		return err
	}
	mlog.Init(mlog.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	morphic.SetDebugMode(cfg.Debug)

	w := morphic.NewWorld(ebitenhost.WorldOptions(cfg)...)
	eye := morphic.NewEye("eye")
	w.AddChild(eye.Node)

	sim := physics.NewSimulationNode("sim")
	sim.SetEnforceBounds(true)
	sim.SetTransform(morphic.Scaling(0.9, 0.9))
	sim.HitShape = morphic.HitCircle{Radius: 1}
	sim.OnDraw = func(n *morphic.Node, c morphic.Canvas) {
		c.SetFillColor(morphic.Azure)
		c.FillEllipse(n.Bounds())
		c.SetColor(morphic.DarkGray)
		c.DrawEllipse(n.Bounds())
	}
	sim.AddForce(physics.NewNSpring())
	sim.AddForce(physics.NewNBody())
	sim.AddForce(physics.NewDrag())
	w.AddChild(sim.Node)

	count := 0
	add := func(at morphic.Point) {
		sim.AddParticle(particle(count, at))
		count++
	}
	for range particleCount {
		add(morphic.Pt(rand.Float64()-0.5, rand.Float64()-0.5))
	}
	sim.OnMouseClick = func(n *morphic.Node, e *morphic.MouseEvent) bool {
		add(n.ToCanonical(e.Position))
		return true
	}

	hand := morphic.NewHand("hand")
	hand.AddGesture(morphic.EditingGesture{})
	w.AddChild(hand.Node)

	g := ebitenhost.NewGame(w, eye, hand)
	g.ShowFPS = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return ebitenhost.Run(ctx, cfg, g)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "physics:", err)
		os.Exit(1)
	}
}
