package effects

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/quiz2video/internal/frame"
)

func TestFadeIn(t *testing.T) {
	bg := frame.Solid(image.Rect(0, 0, 8, 8), color.RGBA{200, 100, 50, 255})
	src := FadeIn{Duration: 1, From: color.RGBA{0, 0, 0, 255}}.Apply(frame.NewStill(bg, 13))

	tests := []struct {
		t    float64
		want color.RGBA
	}{
		{0, color.RGBA{0, 0, 0, 255}},
		{0.5, color.RGBA{100, 50, 25, 255}},
		{1, color.RGBA{200, 100, 50, 255}},
		{7, color.RGBA{200, 100, 50, 255}},
	}
	for _, tt := range tests {
		img, err := src.Frame(tt.t)
		if err != nil {
			t.Fatalf("Frame(%v): %v", tt.t, err)
		}
		if got := img.(*image.RGBA).RGBAAt(3, 3); got != tt.want {
			t.Errorf("Frame(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}

	// The source raster must stay untouched.
	if got := bg.RGBAAt(0, 0); got != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("fade modified the source frame: %v", got)
	}
	if src.Duration() != 13 {
		t.Errorf("Duration = %v, want 13", src.Duration())
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name    string
		none    bool
		wantErr bool
	}{
		{"", false, false},
		{"fade", false, false},
		{"None", true, false},
		{"off", true, false},
		{"wipe", false, true},
	}
	for _, tt := range tests {
		fx, err := FromName(tt.name, 1)
		if (err != nil) != tt.wantErr {
			t.Errorf("FromName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if _, ok := fx.(None); ok != tt.none {
			t.Errorf("FromName(%q) = %#v", tt.name, fx)
		}
		if f, ok := fx.(FadeIn); !tt.none && (!ok || f.Duration != 1) {
			t.Errorf("FromName(%q) = %#v, want 1s fade", tt.name, fx)
		}
	}
	still := frame.NewStill(image.NewRGBA(image.Rect(0, 0, 1, 1)), 2)
	if got := (FadeIn{}).Apply(still); got != frame.Source(still) {
		t.Error("zero duration fade should return the source itself")
	}
}
