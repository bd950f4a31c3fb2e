package highlight

import (
	"image"
	"testing"

	"github.com/ivlev/quiz2video/internal/card"
	"github.com/ivlev/quiz2video/internal/text"
)

func painter() card.Painter {
	return card.Painter{Font: text.DefaultFont(), Style: card.DefaultStyle()}
}

func TestPatternPeriodicity(t *testing.T) {
	p := DefaultPattern
	if p.Len() != 72 {
		t.Fatalf("Len = %d, want 72", p.Len())
	}
	for i := 0; i < p.Len(); i++ {
		want := i%8 < 4
		if got := p.IsOn(i); got != want {
			t.Errorf("frame %d: IsOn = %v, want %v", i, got, want)
		}
	}
}

func TestPatternIndex(t *testing.T) {
	p := DefaultPattern
	tests := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{0.04, 0},
		{0.042, 1},
		{1.0, 24},
		{2.99, 71},
		{3.0, 0},
	}
	for _, tt := range tests {
		if got := p.Index(tt.t); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestSequenceFrames(t *testing.T) {
	canvas := image.Rect(0, 0, 1280, 720)
	target := Target{Box: image.Rect(50, 290, 615, 350), Label: "A:", Text: "Paris"}
	s := New(canvas, target, DefaultPattern, painter())
	if !s.Visible() {
		t.Fatal("expected a visible highlight")
	}

	on, _ := s.Frame(0.0)
	off, _ := s.Frame(0.25)
	if on.(*image.NRGBA).NRGBAAt(600, 320).A == 0 {
		t.Error("on frame is transparent inside the answer box")
	}
	if off.(*image.NRGBA).NRGBAAt(600, 320).A != 0 {
		t.Error("off frame is not transparent")
	}

	a, _ := s.Frame(1.5)
	b, _ := s.Frame(1.5)
	if a != b {
		t.Error("repeated queries at the same time return different frames")
	}
	if s.Duration() != 3 {
		t.Errorf("Duration = %v, want 3", s.Duration())
	}
}

func TestSequenceUnresolvedAnswer(t *testing.T) {
	canvas := image.Rect(0, 0, 320, 240)
	s := New(canvas, Target{}, DefaultPattern, painter())
	if s.Visible() {
		t.Fatal("unresolved answer must not be visible")
	}
	for i := 0; i < DefaultPattern.Len(); i++ {
		img := s.FrameAt(i).(*image.NRGBA)
		for _, p := range img.Pix {
			if p != 0 {
				t.Fatalf("frame %d is not transparent", i)
			}
		}
	}
}
