package layout

import (
	"errors"
	"image"
	"testing"
)

func TestComputeDefaultCanvases(t *testing.T) {
	tests := []struct {
		o        Orientation
		question image.Rectangle
		optA     image.Rectangle
		optD     image.Rectangle
	}{
		{
			o:        Wide,
			question: image.Rect(50, 140, 1230, 260),
			optA:     image.Rect(50, 290, 615, 350),
			optD:     image.Rect(665, 380, 1230, 440),
		},
		{
			o:        Tall,
			question: image.Rect(40, 140, 680, 290),
			optA:     image.Rect(40, 320, 680, 380),
			optD:     image.Rect(40, 575, 680, 635),
		},
	}

	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			w, h := tt.o.Canvas()
			l, err := Compute(w, h, tt.o)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if l.Question != tt.question {
				t.Errorf("question box = %v, want %v", l.Question, tt.question)
			}
			if l.Options[0] != tt.optA {
				t.Errorf("option A = %v, want %v", l.Options[0], tt.optA)
			}
			if l.Options[3] != tt.optD {
				t.Errorf("option D = %v, want %v", l.Options[3], tt.optD)
			}
			if l.Timer.Min.Y != TimerTop || l.Timer.Dy() != TimerHeight {
				t.Errorf("timer band = %v", l.Timer)
			}
		})
	}
}

func TestComputeBoxesInsideAndDisjoint(t *testing.T) {
	for _, o := range []Orientation{Wide, Tall} {
		for w := 400; w <= 2000; w += 160 {
			for h := MinHeight(o); h <= 2200; h += 190 {
				l, err := Compute(w, h, o)
				if err != nil {
					if errors.Is(err, ErrInvalidGeometry) {
						continue
					}
					t.Fatalf("%s %dx%d: unexpected error %v", o, w, h, err)
				}
				boxes := append([]image.Rectangle{l.Question}, l.Options[:]...)
				for i, a := range boxes {
					if a.Empty() {
						t.Errorf("%s %dx%d: box %d is empty", o, w, h, i)
					}
					if !a.In(l.Canvas) {
						t.Errorf("%s %dx%d: box %d %v outside canvas", o, w, h, i, a)
					}
					for j := i + 1; j < len(boxes); j++ {
						if a.Overlaps(boxes[j]) {
							t.Errorf("%s %dx%d: boxes %d and %d overlap: %v %v", o, w, h, i, j, a, boxes[j])
						}
					}
				}
			}
		}
	}
}

func TestComputeRejectsSmallCanvas(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		o    Orientation
	}{
		{"wide too short", 1280, MinHeight(Wide) - 1, Wide},
		{"tall too short", 720, MinHeight(Tall) - 1, Tall},
		{"wide too narrow", 300, 720, Wide},
		{"tall too narrow", 150, 1280, Tall},
		{"zero", 0, 0, Wide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.w, tt.h, tt.o)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestMinHeightFits(t *testing.T) {
	if MinHeight(Wide) != 440 {
		t.Errorf("wide min height = %d, want 440", MinHeight(Wide))
	}
	if MinHeight(Tall) != 635 {
		t.Errorf("tall min height = %d, want 635", MinHeight(Tall))
	}
	if _, err := Compute(1280, MinHeight(Wide), Wide); err != nil {
		t.Errorf("canvas at min height rejected: %v", err)
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"16:9", Wide, false},
		{"wide", Wide, false},
		{"", Wide, false},
		{"9:16", Tall, false},
		{"TALL", Tall, false},
		{"4:5", Wide, true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrientation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimerOrigin(t *testing.T) {
	l, err := Compute(1280, 720, Wide)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.TimerOrigin(178); got != image.Pt(551, 20) {
		t.Errorf("TimerOrigin = %v, want (551,20)", got)
	}
}
