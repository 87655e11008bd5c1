package ebitenhost

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the overlay text is re-rendered.
const fpsRefresh = 500 * time.Millisecond

// fpsOverlay displays the current FPS and TPS plus redraw and activity
// counts in the top-left corner.
type fpsOverlay struct {
	img  *ebiten.Image
	last time.Time
}

func (f *fpsOverlay) draw(screen *ebiten.Image, redraws, activities int) {
	if f.img == nil {
		// Enough for four lines of the debug font.
		f.img = ebiten.NewImage(140, 64)
	}
	if now := time.Now(); now.Sub(f.last) >= fpsRefresh {
		f.last = now
		f.img.Clear()
		// Semi-transparent background for readability.
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nRedraws: %d\nActivities: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), redraws, activities))
	}
	screen.DrawImage(f.img, nil)
}
