package chroma

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/quiz2video/internal/frame"
)

func TestHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"yellow", 255, 255, 0, 30, 255, 255},
		{"dark green", 0, 128, 0, 60, 255, 128},
		{"grey", 128, 128, 128, 0, 0, 128},
	}
	for _, tt := range tests {
		h, s, v := HSV(tt.r, tt.g, tt.b)
		if h != tt.h || s != tt.s || v != tt.v {
			t.Errorf("%s: HSV = (%d,%d,%d), want (%d,%d,%d)", tt.name, h, s, v, tt.h, tt.s, tt.v)
		}
	}
}

func TestKeyOutMask(t *testing.T) {
	src := frame.NewRGB(image.Rect(0, 0, 4, 1))
	src.Set(0, 0, color.RGBA{0, 255, 0, 255})   // pure green: keyed
	src.Set(1, 0, color.RGBA{30, 180, 40, 255}) // screen green: keyed
	src.Set(2, 0, color.RGBA{255, 255, 255, 255})
	src.Set(3, 0, color.RGBA{200, 30, 30, 255})

	out, err := Green.KeyOut(src)
	if err != nil {
		t.Fatalf("KeyOut failed: %v", err)
	}
	wantAlpha := []uint8{0, 0, 255, 255}
	for x, want := range wantAlpha {
		c := out.NRGBAAt(x, 0)
		if c.A != want {
			t.Errorf("pixel %d alpha = %d, want %d", x, c.A, want)
		}
	}
	if c := out.NRGBAAt(3, 0); c.R != 200 || c.G != 30 || c.B != 30 {
		t.Errorf("colour channels not copied: %v", c)
	}
}

func TestKeyOutIdempotent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 16), uint8(255 - y*8), uint8(x * y), 255})
		}
	}
	once, err := Green.KeyOut(src)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Green.KeyOut(once)
	if err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(once.Pix); i += 4 {
		if once.Pix[i] != twice.Pix[i] {
			t.Fatalf("alpha differs at byte %d: %d vs %d", i, once.Pix[i], twice.Pix[i])
		}
	}
}

func TestKeyOutInvalidFrame(t *testing.T) {
	short := &frame.RGB{Pix: make([]uint8, 10), Stride: 12, Rect: image.Rect(0, 0, 4, 4)}
	if _, err := Green.KeyOut(short); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("short buffer: expected ErrInvalidFrame, got %v", err)
	}
	if _, err := Green.KeyOut(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("empty frame: expected ErrInvalidFrame, got %v", err)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if err := Green.KeyInto(dst, frame.NewRGB(image.Rect(0, 0, 3, 3))); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("size mismatch: expected ErrInvalidFrame, got %v", err)
	}
}

func TestNewKeyer(t *testing.T) {
	tests := []struct {
		preset  string
		wantErr bool
	}{
		{"green", false},
		{"", false},
		{"blue", false},
		{"magenta", true},
	}
	for _, tt := range tests {
		_, err := NewKeyer(tt.preset)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewKeyer(%q) error = %v, wantErr %v", tt.preset, err, tt.wantErr)
		}
	}
	blue, _ := NewKeyer("blue")
	if !blue.Masked(0, 0, 255) || blue.Masked(0, 255, 0) {
		t.Error("blue preset keys the wrong colour")
	}
}

func TestSourceForwardsAudio(t *testing.T) {
	base := &audible{Still: frame.NewStill(frame.NewRGB(image.Rect(0, 0, 2, 2)), 5)}
	s := NewSource(base, Green)
	if got := s.AudioSpans(); len(got) != 1 || got[0].Path != "timer.mp4" {
		t.Errorf("AudioSpans = %+v", got)
	}
	img, err := s.Frame(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := img.(*image.NRGBA); !ok {
		t.Errorf("keyed frame has type %T", img)
	}
}

type audible struct {
	*frame.Still
}

func (a *audible) AudioSpans() []frame.AudioSpan {
	return []frame.AudioSpan{{Track: frame.Track{Path: "timer.mp4", Duration: 5}}}
}
