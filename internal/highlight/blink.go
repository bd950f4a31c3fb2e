// Package highlight builds the blinking overlay over the correct answer.
package highlight

import (
	"image"
	"math"

	"github.com/ivlev/quiz2video/internal/card"
	"github.com/ivlev/quiz2video/internal/frame"
)

// Target is the answer box to highlight. An empty Box means the answer
// could not be resolved and the sequence stays transparent.
type Target struct {
	Box   image.Rectangle
	Label string
	Text  string
}

// Pattern describes the blink cycle in output frames.
type Pattern struct {
	Duration float64
	FPS      float64
	On       int
	Off      int
}

// DefaultPattern blinks 4 frames on, 4 off for 3 seconds at 24 fps.
var DefaultPattern = Pattern{Duration: 3, FPS: 24, On: 4, Off: 4}

// Len returns the number of frames in the sequence.
func (p Pattern) Len() int {
	n := int(math.Round(p.Duration * p.FPS))
	if n < 1 {
		n = 1
	}
	return n
}

// IsOn reports whether frame i of the cycle shows the highlight.
func (p Pattern) IsOn(i int) bool {
	period := p.On + p.Off
	if p.On <= 0 || period <= 0 {
		return false
	}
	return i%period < p.On
}

// Index maps time t to the frame index of the sequence.
func (p Pattern) Index(t float64) int {
	i := int(math.Floor(t*p.FPS)) % p.Len()
	if i < 0 {
		i += p.Len()
	}
	return i
}

// Sequence is a periodic overlay source. Only two rasters exist: the
// highlighted one and a transparent one.
type Sequence struct {
	pattern Pattern
	bounds  image.Rectangle
	on      *image.NRGBA
	off     *image.NRGBA
}

// New renders the highlighted raster once. A target whose box cannot be
// drawn produces an all-transparent sequence.
func New(canvas image.Rectangle, target Target, pattern Pattern, painter card.Painter) *Sequence {
	s := &Sequence{
		pattern: pattern,
		bounds:  canvas,
		off:     frame.Transparent(canvas),
	}
	s.on = s.off
	if target.Box.Empty() || !target.Box.In(canvas) || pattern.On <= 0 {
		return s
	}
	on := frame.Transparent(canvas)
	if err := painter.Highlight(on, target.Box, target.Label, target.Text); err != nil {
		return s
	}
	s.on = on
	return s
}

func (s *Sequence) Duration() float64       { return s.pattern.Duration }
func (s *Sequence) Bounds() image.Rectangle { return s.bounds }
func (s *Sequence) Pattern() Pattern        { return s.pattern }

// Visible reports whether the sequence ever shows the highlight.
func (s *Sequence) Visible() bool { return s.on != s.off }

// FrameAt returns frame i of the sequence.
func (s *Sequence) FrameAt(i int) image.Image {
	if s.pattern.IsOn(i % s.pattern.Len()) {
		return s.on
	}
	return s.off
}

func (s *Sequence) Frame(t float64) (image.Image, error) {
	return s.FrameAt(s.pattern.Index(t)), nil
}
