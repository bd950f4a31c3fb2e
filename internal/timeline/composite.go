// Package timeline composes timed frame sources into clips and joins clips
// end to end.
package timeline

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ivlev/quiz2video/internal/frame"
)

var (
	// ErrEmptyInput is returned when there is nothing to sequence.
	ErrEmptyInput = errors.New("empty input")
	// ErrOutOfRange is returned for timestamps outside [0, duration).
	ErrOutOfRange = errors.New("time out of range")
	// ErrAudioConflict is returned when two layers would play audio at once.
	ErrAudioConflict = errors.New("overlapping audio layers")
)

// Layer places a source on the composite timeline. Offset moves the
// source's origin on the canvas.
type Layer struct {
	Source   frame.Source
	Start    float64
	Duration float64
	Offset   image.Point
}

// Active reports whether the layer is visible at composite time t.
func (l Layer) Active(t float64) bool {
	return t >= l.Start && t < l.Start+l.Duration
}

// Composite stacks layers bottom to top. Its duration is fixed and does
// not depend on the layers.
type Composite struct {
	bounds   image.Rectangle
	duration float64
	layers   []Layer
	audio    []frame.AudioSpan
}

// NewComposite validates the layers and collects their audio.
func NewComposite(bounds image.Rectangle, duration float64, layers ...Layer) (*Composite, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("composite: empty bounds %v", bounds)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("composite: non-positive duration %v", duration)
	}

	c := &Composite{bounds: bounds, duration: duration}
	owner := []int{}
	for i, l := range layers {
		if l.Source == nil {
			return nil, fmt.Errorf("composite: layer %d has no source", i)
		}
		if l.Duration <= 0 {
			l.Duration = l.Source.Duration()
		}
		c.layers = append(c.layers, l)

		end := min(l.Duration, duration-l.Start)
		for _, s := range frame.Spans(l.Source) {
			clipped, ok := s.Clip(0, end, l.Start)
			if !ok {
				continue
			}
			for j, other := range c.audio {
				if owner[j] != i && clipped.At < other.End() && other.At < clipped.End() {
					return nil, fmt.Errorf("%w: layers %d and %d between %.2fs and %.2fs",
						ErrAudioConflict, owner[j], i, max(clipped.At, other.At), min(clipped.End(), other.End()))
				}
			}
			c.audio = append(c.audio, clipped)
			owner = append(owner, i)
		}
	}
	return c, nil
}

func (c *Composite) Duration() float64       { return c.duration }
func (c *Composite) Bounds() image.Rectangle { return c.bounds }
func (c *Composite) Layers() []Layer         { return c.layers }

// AudioSpans returns the audio of all layers in composite time.
func (c *Composite) AudioSpans() []frame.AudioSpan {
	out := make([]frame.AudioSpan, len(c.audio))
	copy(out, c.audio)
	return out
}

func (c *Composite) Frame(t float64) (image.Image, error) {
	dst := image.NewRGBA(c.bounds)
	if err := c.FrameInto(dst, t); err != nil {
		return nil, err
	}
	return dst, nil
}

// FrameInto clears dst to opaque black and draws every active layer over it.
func (c *Composite) FrameInto(dst *image.RGBA, t float64) error {
	if t < 0 || t >= c.duration {
		return fmt.Errorf("%w: %.3fs not in [0, %.3fs)", ErrOutOfRange, t, c.duration)
	}
	if dst.Rect != c.bounds {
		return fmt.Errorf("composite: buffer %v, canvas %v", dst.Rect, c.bounds)
	}
	draw.Draw(dst, dst.Rect, image.Black, image.Point{}, draw.Src)

	for i, l := range c.layers {
		if !l.Active(t) {
			continue
		}
		img, err := l.Source.Frame(t - l.Start)
		if err != nil {
			return fmt.Errorf("layer %d at %.3fs: %w", i, t, err)
		}
		sb := img.Bounds()
		r := sb.Sub(sb.Min).Add(c.bounds.Min).Add(l.Offset)
		draw.Draw(dst, r, img, sb.Min, draw.Over)
	}
	return nil
}
