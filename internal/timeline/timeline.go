package timeline

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"

	"github.com/ivlev/quiz2video/internal/frame"
)

// Timeline plays clips back to back. Clip k starts at the sum of the
// durations of clips 0..k-1.
type Timeline struct {
	clips  []frame.Source
	starts []float64
	total  float64
}

// Concatenate joins clips in order. All clips must share the same bounds.
func Concatenate(clips ...frame.Source) (*Timeline, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("concatenate: %w", ErrEmptyInput)
	}
	tl := &Timeline{
		clips:  clips,
		starts: make([]float64, len(clips)),
	}
	bounds := clips[0].Bounds()
	for i, c := range clips {
		if c.Bounds() != bounds {
			return nil, fmt.Errorf("concatenate: clip %d is %v, clip 0 is %v", i, c.Bounds(), bounds)
		}
		if c.Duration() <= 0 {
			return nil, fmt.Errorf("concatenate: clip %d has duration %v", i, c.Duration())
		}
		tl.starts[i] = tl.total
		tl.total += c.Duration()
	}
	return tl, nil
}

func (tl *Timeline) Duration() float64       { return tl.total }
func (tl *Timeline) Bounds() image.Rectangle { return tl.clips[0].Bounds() }
func (tl *Timeline) Len() int                { return len(tl.clips) }

// Start returns the global start time of clip i.
func (tl *Timeline) Start(i int) float64 { return tl.starts[i] }

// Locate maps a global time to a clip index and the clip's local time.
func (tl *Timeline) Locate(t float64) (index int, local float64, ok bool) {
	if t < 0 || t >= tl.total {
		return 0, 0, false
	}
	i := sort.Search(len(tl.clips), func(i int) bool {
		return tl.starts[i]+tl.clips[i].Duration() > t
	})
	if i == len(tl.clips) {
		return 0, 0, false
	}
	return i, t - tl.starts[i], true
}

func (tl *Timeline) Frame(t float64) (image.Image, error) {
	i, local, ok := tl.Locate(t)
	if !ok {
		return nil, fmt.Errorf("%w: %.3fs not in [0, %.3fs)", ErrOutOfRange, t, tl.total)
	}
	return tl.clips[i].Frame(local)
}

func (tl *Timeline) FrameInto(dst *image.RGBA, t float64) error {
	i, local, ok := tl.Locate(t)
	if !ok {
		return fmt.Errorf("%w: %.3fs not in [0, %.3fs)", ErrOutOfRange, t, tl.total)
	}
	if r, ok := tl.clips[i].(frame.Renderer); ok {
		return r.FrameInto(dst, local)
	}
	img, err := tl.clips[i].Frame(local)
	if err != nil {
		return err
	}
	draw.Draw(dst, dst.Rect, img, img.Bounds().Min, draw.Src)
	return nil
}

// AudioSpans returns the audio of every clip shifted by its start.
func (tl *Timeline) AudioSpans() []frame.AudioSpan {
	var out []frame.AudioSpan
	for i, c := range tl.clips {
		for _, s := range frame.Spans(c) {
			s.At += tl.starts[i]
			out = append(out, s)
		}
	}
	return out
}
