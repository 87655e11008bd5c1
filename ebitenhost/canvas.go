// Package ebitenhost runs a morphic world in an Ebitengine window: a Canvas
// backed by an *ebiten.Image, a Game that turns mouse and keyboard input
// into hand events and redraws the damaged part of an eye's view, and Run,
// which drives the scheduler and the window together.
package ebitenhost

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/morphic"
)

// ellipseSegments is the number of polygon edges used for ellipses.
const ellipseSegments = 48

// basicFontHeight is the pixel height of basicfont.Face7x13.
const basicFontHeight = 13

var (
	whiteOnce sync.Once
	whiteSub  *ebiten.Image
)

// white returns a 1x1 white sub-image with a one pixel border, used as the
// source for solid-colored triangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSub = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSub
}

// viewport maps between device pixels and view coordinates. The view's unit
// square is centred in the target and fills its shorter side.
type viewport struct {
	w, h int
}

// scale is the number of pixels per view unit.
func (v viewport) scale() float64 {
	return float64(min(v.w, v.h)) / 2
}

func (v viewport) toDevice(p morphic.Point) (float64, float64) {
	s := v.scale()
	return p.X*s + float64(v.w)/2, p.Y*s + float64(v.h)/2
}

func (v viewport) toView(x, y float64) morphic.Point {
	s := v.scale()
	if s == 0 {
		return morphic.Origin
	}
	return morphic.Pt((x-float64(v.w)/2)/s, (y-float64(v.h)/2)/s)
}

// visible returns the whole target in view coordinates.
func (v viewport) visible() morphic.Rect {
	return v.toView(0, 0).To(v.toView(float64(v.w), float64(v.h)))
}

// pixelRect returns the device pixels covering r, clamped to the target.
func (v viewport) pixelRect(r morphic.Rect) image.Rectangle {
	x0, y0 := v.toDevice(r.TopLeft())
	x1, y1 := v.toDevice(r.BottomRight())
	pr := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)))
	return pr.Intersect(image.Rect(0, 0, v.w, v.h))
}

// Canvas draws on an *ebiten.Image. The view is the image's inscribed
// square; clipping is done with sub-images.
type Canvas struct {
	morphic.StateCanvas

	img    *ebiten.Image
	vp     viewport
	face   *text.GoXFace
	images map[image.Image]*ebiten.Image

	verts []ebiten.Vertex
	inds  []uint16
}

// NewCanvas returns a canvas drawing on img.
func NewCanvas(img *ebiten.Image) *Canvas {
	b := img.Bounds()
	vp := viewport{w: b.Dx(), h: b.Dy()}
	return &Canvas{
		StateCanvas: morphic.NewStateCanvas(vp.scale()),
		img:         img,
		vp:          vp,
		face:        text.NewGoXFace(basicfont.Face7x13),
		images:      make(map[image.Image]*ebiten.Image),
	}
}

// Image returns the image being drawn on.
func (c *Canvas) Image() *ebiten.Image { return c.img }

// target is the part of the image inside the clip.
func (c *Canvas) target() *ebiten.Image {
	return c.img.SubImage(c.vp.pixelRect(c.ViewClip())).(*ebiten.Image)
}

func (c *Canvas) device(p morphic.Point) (float32, float32) {
	x, y := c.vp.toDevice(c.Transform().Apply(p))
	return float32(x), float32(y)
}

// faded returns col with the canvas alpha applied.
func (c *Canvas) faded(col morphic.Color) morphic.Color {
	return col.WithAlpha(col.A * c.Alpha())
}

func (c *Canvas) path(pts []morphic.Point, closed bool) *vector.Path {
	var p vector.Path
	for i, pt := range pts {
		x, y := c.device(pt)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	if closed {
		p.Close()
	}
	return &p
}

func (c *Canvas) fill(p *vector.Path, col morphic.Color) {
	c.verts, c.inds = p.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.triangles(col, ebiten.FillRuleNonZero)
}

func (c *Canvas) stroke(p *vector.Path, col morphic.Color) {
	c.verts, c.inds = p.AppendVerticesAndIndicesForStroke(c.verts[:0], c.inds[:0], &vector.StrokeOptions{
		Width:    1,
		LineJoin: vector.LineJoinRound,
	})
	c.triangles(col, ebiten.FillRuleFillAll)
}

func (c *Canvas) triangles(col morphic.Color, rule ebiten.FillRule) {
	col = c.faded(col)
	if col.A <= 0 || len(c.inds) == 0 {
		return
	}
	a := float32(col.A)
	for i := range c.verts {
		v := &c.verts[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(col.R) * a
		v.ColorG = float32(col.G) * a
		v.ColorB = float32(col.B) * a
		v.ColorA = a
	}
	c.target().DrawTriangles(c.verts, c.inds, white(), &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		FillRule:       rule,
		AntiAlias:      true,
	})
}

func (c *Canvas) DrawPoint(p morphic.Point) {
	x, y := c.device(p)
	vector.DrawFilledRect(c.target(), x, y, 1, 1, c.faded(c.Color()), false)
}

func (c *Canvas) DrawLine(p1, p2 morphic.Point) {
	x0, y0 := c.device(p1)
	x1, y1 := c.device(p2)
	vector.StrokeLine(c.target(), x0, y0, x1, y1, 1, c.faded(c.Color()), true)
}

// outline returns the corners of r in drawing order.
func outline(r morphic.Rect) []morphic.Point {
	return []morphic.Point{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()}
}

func (c *Canvas) DrawRect(r morphic.Rect) {
	c.stroke(c.path(outline(r), true), c.Color())
}

func (c *Canvas) FillRect(r morphic.Rect) {
	c.fill(c.path(outline(r), true), c.FillColor())
}

func ellipsePoints(r morphic.Rect) []morphic.Point {
	pts := make([]morphic.Point, ellipseSegments)
	ctr := r.Center()
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = morphic.Pt(ctr.X+math.Cos(a)*r.Width/2, ctr.Y+math.Sin(a)*r.Height/2)
	}
	return pts
}

func (c *Canvas) DrawEllipse(r morphic.Rect) {
	c.stroke(c.path(ellipsePoints(r), true), c.Color())
}

func (c *Canvas) FillEllipse(r morphic.Rect) {
	c.fill(c.path(ellipsePoints(r), true), c.FillColor())
}

func (c *Canvas) DrawPolygon(pts []morphic.Point) {
	if len(pts) < 2 {
		return
	}
	c.stroke(c.path(pts, true), c.Color())
}

func (c *Canvas) FillPolygon(pts []morphic.Point) {
	if len(pts) < 3 {
		return
	}
	c.fill(c.path(pts, true), c.FillColor())
}

func (c *Canvas) DrawPolyline(pts []morphic.Point) {
	if len(pts) < 2 {
		return
	}
	c.stroke(c.path(pts, false), c.Color())
}

// DrawText draws s with its top-left corner at p. The bitmap face is scaled
// so that its line height matches the current font height.
func (c *Canvas) DrawText(s string, p morphic.Point) {
	px := c.Font().Height * c.Scale() * c.vp.scale()
	if px < 1 {
		return
	}
	x, y := c.device(p)
	op := &text.DrawOptions{}
	k := px / basicFontHeight
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c.faded(c.Color()))
	text.Draw(c.target(), s, c.face, op)
}

// DrawImage draws the src region of img into dst. Images that are not
// already *ebiten.Image are uploaded once and cached by identity.
func (c *Canvas) DrawImage(img image.Image, src, dst morphic.Rect) {
	ei, ok := img.(*ebiten.Image)
	if !ok {
		if ei, ok = c.images[img]; !ok {
			ei = ebiten.NewImageFromImage(img)
			c.images[img] = ei
		}
	}
	if src.Empty() {
		src = morphic.ImageRect(ei)
	}
	if src.Empty() || dst.Empty() {
		return
	}
	sub := ei.SubImage(image.Rect(
		int(src.X), int(src.Y), int(src.Right()), int(src.Bottom()))).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(dst.Width/src.Width, dst.Height/src.Height)
	op.GeoM.Translate(dst.X, dst.Y)
	op.GeoM.Concat(geoM(c.Transform()))
	s := c.vp.scale()
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(c.vp.w)/2, float64(c.vp.h)/2)
	op.ColorScale.ScaleAlpha(float32(c.Alpha()))
	op.Filter = ebiten.FilterLinear
	c.target().DrawImage(sub, &op)
}

func (c *Canvas) DrawNode(n *morphic.Node) { n.FullDraw(c) }

// geoM converts t to an ebiten.GeoM.
func geoM(t *morphic.Transform) ebiten.GeoM {
	m := t.Matrix()
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
