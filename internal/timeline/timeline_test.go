package timeline

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ivlev/quiz2video/internal/frame"
)

var canvas = image.Rect(0, 0, 64, 36)

// solidClip is an opaque clip of one colour.
func solidClip(c color.Color, d float64) *frame.Still {
	return frame.NewStill(frame.Solid(canvas, c), d)
}

// blinker is a translucent overlay that is "on" for even 1/24 s frames.
type blinker struct {
	on, off *image.NRGBA
	dur     float64
}

func newBlinker(d float64) *blinker {
	on := image.NewNRGBA(canvas)
	for i := 0; i < len(on.Pix); i += 4 {
		on.Pix[i+1], on.Pix[i+3] = 255, 200
	}
	return &blinker{on: on, off: image.NewNRGBA(canvas), dur: d}
}

func (b *blinker) Duration() float64       { return b.dur }
func (b *blinker) Bounds() image.Rectangle { return canvas }
func (b *blinker) Frame(t float64) (image.Image, error) {
	if int(math.Floor(t*24))%2 == 0 {
		return b.on, nil
	}
	return b.off, nil
}

type withAudio struct {
	frame.Source
	spans []frame.AudioSpan
}

func (w withAudio) AudioSpans() []frame.AudioSpan { return w.spans }

func TestConcatenateLocate(t *testing.T) {
	tl, err := Concatenate(solidClip(color.Black, 13), solidClip(color.White, 13), solidClip(color.Black, 13))
	if err != nil {
		t.Fatalf("Concatenate failed: %v", err)
	}
	if tl.Duration() != 39 {
		t.Errorf("Duration = %v, want 39", tl.Duration())
	}

	tests := []struct {
		t     float64
		index int
		local float64
		ok    bool
	}{
		{0, 0, 0, true},
		{12.99, 0, 12.99, true},
		{13, 1, 0, true},
		{14.5, 1, 1.5, true},
		{38.5, 2, 12.5, true},
		{39, 0, 0, false},
		{-0.1, 0, 0, false},
	}
	for _, tt := range tests {
		i, local, ok := tl.Locate(tt.t)
		if ok != tt.ok || i != tt.index || math.Abs(local-tt.local) > 1e-9 {
			t.Errorf("Locate(%v) = %d,%v,%v want %d,%v,%v", tt.t, i, local, ok, tt.index, tt.local, tt.ok)
		}
	}

	img, err := tl.Frame(14.5)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r != 0xffff {
		t.Error("t=14.5 should sample the white clip")
	}
	if _, err := tl.Frame(39); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestConcatenateEmpty(t *testing.T) {
	if _, err := Concatenate(); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestConcatenateBoundsMismatch(t *testing.T) {
	other := frame.NewStill(frame.Solid(image.Rect(0, 0, 10, 10), color.Black), 13)
	if _, err := Concatenate(solidClip(color.Black, 13), other); err == nil {
		t.Error("expected an error for clips of different size")
	}
}

func TestTimelineAudioShift(t *testing.T) {
	span := frame.AudioSpan{Track: frame.Track{Path: "timer.mp4", Duration: 11.56}}
	a := withAudio{solidClip(color.Black, 13), []frame.AudioSpan{span}}
	tl, err := Concatenate(a, a)
	if err != nil {
		t.Fatal(err)
	}
	spans := tl.AudioSpans()
	if len(spans) != 2 || spans[0].At != 0 || spans[1].At != 13 {
		t.Errorf("AudioSpans = %+v", spans)
	}
}

func TestCompositeHighlightWindow(t *testing.T) {
	bg := solidClip(color.RGBA{27, 42, 144, 255}, 13)
	hl := newBlinker(3)
	c, err := NewComposite(canvas, 13,
		Layer{Source: bg, Start: 0, Duration: 13},
		Layer{Source: hl, Start: 10, Duration: 3},
	)
	if err != nil {
		t.Fatalf("NewComposite failed: %v", err)
	}

	before, err := c.Frame(9.9)
	if err != nil {
		t.Fatal(err)
	}
	if got := before.(*image.RGBA).RGBAAt(5, 5); got != (color.RGBA{27, 42, 144, 255}) {
		t.Errorf("t=9.9 = %v, want plain background", got)
	}

	// t=11 -> local 1.0 -> frame 24, even, so the overlay is on.
	during, err := c.Frame(11)
	if err != nil {
		t.Fatal(err)
	}
	got := during.(*image.RGBA).RGBAAt(5, 5)
	// 200/255 green over the background.
	want := color.RGBA{R: 5, G: 209, B: 31, A: 255}
	if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 || got.A != 255 {
		t.Errorf("t=11 = %v, want about %v", got, want)
	}

	// Past the blink window only the background remains.
	if _, err := c.Frame(12.99); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Frame(13); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange at t=13, got %v", err)
	}
}

func TestCompositeLayerOffset(t *testing.T) {
	small := frame.NewStill(frame.Solid(image.Rect(0, 0, 4, 4), color.White), 5)
	c, err := NewComposite(canvas, 13,
		Layer{Source: solidClip(color.Black, 13)},
		Layer{Source: small, Duration: 5, Offset: image.Pt(10, 20)},
	)
	if err != nil {
		t.Fatal(err)
	}
	img, _ := c.Frame(1)
	rgba := img.(*image.RGBA)
	if rgba.RGBAAt(11, 21).R != 255 {
		t.Error("offset layer not drawn at its position")
	}
	if rgba.RGBAAt(9, 21).R != 0 || rgba.RGBAAt(14, 21).R != 0 {
		t.Error("offset layer drawn outside its rectangle")
	}
	// The small layer has ended by t=6.
	img, _ = c.Frame(6)
	if img.(*image.RGBA).RGBAAt(11, 21).R != 0 {
		t.Error("layer visible after its duration")
	}
}

func TestCompositeAudio(t *testing.T) {
	timer := withAudio{solidClip(color.Black, 11.56), []frame.AudioSpan{{Track: frame.Track{Path: "timer.mp4", Duration: 11.56}}}}
	c, err := NewComposite(canvas, 13,
		Layer{Source: solidClip(color.Black, 13)},
		Layer{Source: timer, Start: 0.5, Duration: 11.56},
	)
	if err != nil {
		t.Fatal(err)
	}
	spans := c.AudioSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %+v", spans)
	}
	if spans[0].At != 0.5 || math.Abs(spans[0].Duration-11.56) > 1e-9 {
		t.Errorf("span = %+v", spans[0])
	}

	// Layer cut by the composite end: 13 - 2 = 11 seconds remain.
	c, err = NewComposite(canvas, 13, Layer{Source: timer, Start: 2, Duration: 11.56})
	if err != nil {
		t.Fatal(err)
	}
	if d := c.AudioSpans()[0].Duration; math.Abs(d-11) > 1e-9 {
		t.Errorf("clipped duration = %v, want 11", d)
	}
}

func TestCompositeAudioConflict(t *testing.T) {
	timer := withAudio{solidClip(color.Black, 5), []frame.AudioSpan{{Track: frame.Track{Path: "a.mp4", Duration: 5}}}}
	_, err := NewComposite(canvas, 13,
		Layer{Source: timer, Start: 0},
		Layer{Source: timer, Start: 4},
	)
	if !errors.Is(err, ErrAudioConflict) {
		t.Errorf("expected ErrAudioConflict, got %v", err)
	}

	// Back to back is fine.
	if _, err := NewComposite(canvas, 13, Layer{Source: timer, Start: 0}, Layer{Source: timer, Start: 5}); err != nil {
		t.Errorf("sequential audio layers rejected: %v", err)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
