// Package layout computes the box geometry of a quiz clip for the two
// supported screen orientations.
package layout

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// ErrInvalidGeometry is returned when the canvas cannot hold the boxes of
// the chosen orientation.
var ErrInvalidGeometry = errors.New("invalid geometry")

type Orientation int

const (
	Wide Orientation = iota
	Tall
)

// ParseOrientation accepts the names used by the CLI and config file.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wide", "16:9", "landscape", "1":
		return Wide, nil
	case "tall", "9:16", "vertical", "portrait", "2":
		return Tall, nil
	default:
		return Wide, fmt.Errorf("unknown orientation %q", s)
	}
}

func (o Orientation) String() string {
	if o == Tall {
		return "tall"
	}
	return "wide"
}

// Canvas returns the default canvas size for the orientation.
func (o Orientation) Canvas() (width, height int) {
	if o == Tall {
		return 720, 1280
	}
	return 1280, 720
}

// Constants shared by both orientations.
const (
	TimerTop       = 20
	TimerHeight    = 100
	TimerGap       = 20
	QuestionGap    = 30
	OptionHeight   = 60
	Radius         = 20
	MinOptionWidth = 120
)

type params struct {
	margin         int
	questionHeight int
	rowGap         int
	grid           bool
}

var orientationParams = map[Orientation]params{
	Wide: {margin: 50, questionHeight: 120, rowGap: 30, grid: true},
	Tall: {margin: 40, questionHeight: 150, rowGap: 25, grid: false},
}

// Layout holds the regions of one clip. Options are ordered A..D.
type Layout struct {
	Orientation Orientation
	Canvas      image.Rectangle
	Margin      int
	Timer       image.Rectangle
	Question    image.Rectangle
	Options     [4]image.Rectangle
}

// Compute lays out the boxes top to bottom. Every box below the timer is
// placed relative to the bottom edge of the previous one.
func Compute(width, height int, o Orientation) (Layout, error) {
	p, ok := orientationParams[o]
	if !ok {
		return Layout{}, fmt.Errorf("%w: unknown orientation %d", ErrInvalidGeometry, o)
	}
	if width <= 0 || height <= 0 {
		return Layout{}, fmt.Errorf("%w: canvas %dx%d", ErrInvalidGeometry, width, height)
	}

	l := Layout{
		Orientation: o,
		Canvas:      image.Rect(0, 0, width, height),
		Margin:      p.margin,
	}
	l.Timer = image.Rect(p.margin, TimerTop, width-p.margin, TimerTop+TimerHeight)

	qTop := l.Timer.Max.Y + TimerGap
	l.Question = image.Rect(p.margin, qTop, width-p.margin, qTop+p.questionHeight)

	optTop := l.Question.Max.Y + QuestionGap
	if p.grid {
		optWidth := (width - 3*p.margin) / 2
		if optWidth < MinOptionWidth {
			return Layout{}, fmt.Errorf("%w: option width %d < %d on %dx%d", ErrInvalidGeometry, optWidth, MinOptionWidth, width, height)
		}
		row2 := optTop + OptionHeight + p.rowGap
		l.Options[0] = image.Rect(p.margin, optTop, p.margin+optWidth, optTop+OptionHeight)
		l.Options[1] = image.Rect(width-p.margin-optWidth, optTop, width-p.margin, optTop+OptionHeight)
		l.Options[2] = image.Rect(p.margin, row2, p.margin+optWidth, row2+OptionHeight)
		l.Options[3] = image.Rect(width-p.margin-optWidth, row2, width-p.margin, row2+OptionHeight)
	} else {
		if width-2*p.margin < MinOptionWidth {
			return Layout{}, fmt.Errorf("%w: option width %d < %d on %dx%d", ErrInvalidGeometry, width-2*p.margin, MinOptionWidth, width, height)
		}
		top := optTop
		for i := range l.Options {
			l.Options[i] = image.Rect(p.margin, top, width-p.margin, top+OptionHeight)
			top = l.Options[i].Max.Y + p.rowGap
		}
	}

	if bottom := l.Bottom(); bottom > height {
		return Layout{}, fmt.Errorf("%w: boxes need %d px, canvas height is %d", ErrInvalidGeometry, bottom, height)
	}
	return l, nil
}

// MinHeight returns the smallest canvas height the orientation fits into.
func MinHeight(o Orientation) int {
	p := orientationParams[o]
	h := TimerTop + TimerHeight + TimerGap + p.questionHeight + QuestionGap
	if p.grid {
		return h + 2*OptionHeight + p.rowGap
	}
	return h + 4*OptionHeight + 3*p.rowGap
}

// Bottom returns the lowest edge over all boxes.
func (l Layout) Bottom() int {
	b := l.Question.Max.Y
	for _, r := range l.Options {
		if r.Max.Y > b {
			b = r.Max.Y
		}
	}
	return b
}

// TimerOrigin centres an overlay of the given width horizontally on the
// canvas at the top of the timer band.
func (l Layout) TimerOrigin(overlayWidth int) image.Point {
	return image.Pt((l.Canvas.Dx()-overlayWidth)/2, l.Timer.Min.Y)
}

// Regions returns the boxes by name, in drawing order.
func (l Layout) Regions() []Region {
	out := []Region{{"timer", l.Timer}, {"question", l.Question}}
	for i, r := range l.Options {
		out = append(out, Region{"option" + string(rune('A'+i)), r})
	}
	return out
}

type Region struct {
	Name string
	Rect image.Rectangle
}
