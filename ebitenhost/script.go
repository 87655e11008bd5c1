package ebitenhost

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/morphic"
)

// scriptStep is a single action of an input script. Positions are in the
// local space of the hand's owner.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Text   string  `yaml:"text,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// ErrEmptyScript is returned by LoadScript for a script without steps.
var ErrEmptyScript = errors.New("no steps")

// Script sequences injected hand input and screenshots across frames, for
// automated visual checks and demos. Attach it with Game.SetScript.
//
// Actions: click (x, y), drag (fromX, fromY, toX, toY, frames), type
// (text), wait (frames) and screenshot (label).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML or JSON script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "drag", "type", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has been executed.
func (s *Script) Done() bool {
	return s.done
}

// step advances the script by one frame.
func (s *Script) step(h *morphic.Hand, screenshot func(label string)) {
	if s.done {
		return
	}
	// Let pending injections drain first.
	if h.Pending() > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "screenshot":
		screenshot(st.Label)
	case "click":
		h.InjectClick(morphic.Pt(st.X, st.Y))
	case "drag":
		h.InjectDrag(morphic.Pt(st.FromX, st.FromY), morphic.Pt(st.ToX, st.ToY), max(st.Frames, 2))
	case "type":
		for _, r := range st.Text {
			h.InjectKey(r)
		}
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && h.Pending() == 0 {
		s.done = true
	}
}
