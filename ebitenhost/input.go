package ebitenhost

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/morphic"
)

// clickDeadZone is how far, in pixels, the pointer may travel between press
// and release for the release to also count as a click.
const clickDeadZone = 4.0

// buttons maps ebiten mouse buttons to morphic button numbers.
var buttons = [...]struct {
	eb     ebiten.MouseButton
	number int
}{
	{ebiten.MouseButtonLeft, 1},
	{ebiten.MouseButtonMiddle, 2},
	{ebiten.MouseButtonRight, 3},
}

// frameInput is one frame's worth of raw input.
type frameInput struct {
	x, y         float64
	held         [3]bool
	justPressed  [3]bool
	justReleased [3]bool
	wheel        float64
	mods         morphic.Modifiers
	chars        []rune
	keysDown     []ebiten.Key
	keysUp       []ebiten.Key
}

// readInput samples ebiten's input state. buf is reused for key and
// character slices.
func readInput(buf *frameInput) {
	mx, my := ebiten.CursorPosition()
	buf.x, buf.y = float64(mx), float64(my)
	for i, b := range buttons {
		buf.held[i] = ebiten.IsMouseButtonPressed(b.eb)
		buf.justPressed[i] = inpututil.IsMouseButtonJustPressed(b.eb)
		buf.justReleased[i] = inpututil.IsMouseButtonJustReleased(b.eb)
	}
	_, buf.wheel = ebiten.Wheel()
	buf.mods = readModifiers()
	buf.chars = ebiten.AppendInputChars(buf.chars[:0])
	buf.keysDown = inpututil.AppendJustPressedKeys(buf.keysDown[:0])
	buf.keysUp = inpututil.AppendJustReleasedKeys(buf.keysUp[:0])
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() morphic.Modifiers {
	var mods morphic.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= morphic.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= morphic.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= morphic.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= morphic.ModCommand
	}
	return mods
}

// pointer turns successive frames of raw input into hand events.
type pointer struct {
	lastX, lastY float64
	seen         bool
	pressX       [3]float64
	pressY       [3]float64
}

// wheelCount converts a wheel offset to whole notches, rounding away from
// zero so that small trackpad deltas still register.
func wheelCount(dy float64) int {
	switch {
	case dy > 0:
		return int(math.Ceil(dy))
	case dy < 0:
		return int(math.Floor(dy))
	}
	return 0
}

// mouseEvents returns the events for in, with positions in view space.
// Moves come first, then presses, releases with their clicks, and the wheel.
func (p *pointer) mouseEvents(in *frameInput, vp viewport) []*morphic.MouseEvent {
	var out []*morphic.MouseEvent
	mods := in.mods
	for i, b := range buttons {
		if in.held[i] {
			mods |= morphic.ButtonModifier(b.number)
		}
	}
	at := vp.toView(in.x, in.y)
	ev := func(t morphic.EventType, button, count int) *morphic.MouseEvent {
		return &morphic.MouseEvent{Type: t, Position: at, Button: button, Modifiers: mods, Count: count}
	}

	if !p.seen || in.x != p.lastX || in.y != p.lastY {
		out = append(out, ev(morphic.EventMouseMove, 0, 0))
	}
	p.seen, p.lastX, p.lastY = true, in.x, in.y

	for i, b := range buttons {
		if in.justPressed[i] {
			p.pressX[i], p.pressY[i] = in.x, in.y
			out = append(out, ev(morphic.EventMouseDown, b.number, 1))
		}
	}
	for i, b := range buttons {
		if !in.justReleased[i] {
			continue
		}
		out = append(out, ev(morphic.EventMouseUp, b.number, 1))
		if math.Hypot(in.x-p.pressX[i], in.y-p.pressY[i]) <= clickDeadZone {
			out = append(out, ev(morphic.EventMouseClick, b.number, 1))
		}
	}
	if n := wheelCount(in.wheel); n != 0 {
		out = append(out, ev(morphic.EventMouseWheel, 0, n))
	}
	return out
}

// keyEvents returns key downs for typed characters and non-character keys,
// then key ups.
func keyEvents(in *frameInput) []*morphic.KeyEvent {
	var out []*morphic.KeyEvent
	for _, r := range in.chars {
		out = append(out, &morphic.KeyEvent{Type: morphic.EventKeyDown, Char: r, KeyCode: int(r), Modifiers: in.mods})
	}
	for _, k := range in.keysDown {
		if len(in.chars) > 0 && isCharKey(k) {
			continue
		}
		out = append(out, &morphic.KeyEvent{Type: morphic.EventKeyDown, KeyCode: int(k), Modifiers: in.mods})
	}
	for _, k := range in.keysUp {
		out = append(out, &morphic.KeyEvent{Type: morphic.EventKeyUp, KeyCode: int(k), Modifiers: in.mods})
	}
	return out
}

// isCharKey reports whether k usually produces a character, which is then
// delivered through the input characters instead.
func isCharKey(k ebiten.Key) bool {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ,
		k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9,
		k == ebiten.KeySpace:
		return true
	}
	return false
}
