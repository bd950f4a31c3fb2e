// Package card draws the question and option boxes of a quiz clip.
package card

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ivlev/quiz2video/internal/layout"
	"github.com/ivlev/quiz2video/internal/paint"
	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/text"
)

// Style holds colours and sizes of the cards.
type Style struct {
	Background   color.RGBA
	Foreground   color.RGBA
	Outline      color.RGBA
	Highlight    color.NRGBA
	Radius       int
	OutlineWidth int
	// HighlightWidth is the outline width of the blinking answer box.
	HighlightWidth int

	QuestionSize float64
	OptionSize   float64
	LabelSize    float64
	LabelMargin  int

	// QuestionPad is the inner padding of the question box (x, y).
	QuestionPad image.Point
	// FitSlack is subtracted from the question box before the size search.
	FitSlack int
}

func DefaultStyle() Style {
	return Style{
		Background:     color.RGBA{27, 42, 144, 255},
		Foreground:     color.RGBA{255, 255, 255, 255},
		Outline:        color.RGBA{255, 255, 255, 255},
		Highlight:      color.NRGBA{0, 255, 0, 200},
		Radius:         layout.Radius,
		OutlineWidth:   2,
		HighlightWidth: 3,
		QuestionSize:   45,
		OptionSize:     30,
		LabelSize:      30,
		LabelMargin:    15,
		QuestionPad:    image.Pt(15, 10),
		FitSlack:       20,
	}
}

// Painter draws cards with one font and style.
type Painter struct {
	Font  *text.Font
	Style Style
}

// LabelOrigin is the top-left corner of the label inside an option box.
func (p Painter) LabelOrigin(box image.Rectangle) image.Point {
	return image.Pt(box.Min.X+p.Style.LabelMargin, box.Min.Y+(box.Dy()-int(p.Style.LabelSize))/2)
}

// OptionTextRegion is the part of an option box to the right of its label.
func (p Painter) OptionTextRegion(box image.Rectangle) image.Rectangle {
	labelWidth, _ := p.Font.Measure("X:", p.Style.LabelSize)
	return image.Rect(box.Min.X+labelWidth+2*p.Style.LabelMargin, box.Min.Y, box.Max.X-p.Style.LabelMargin, box.Max.Y)
}

// Background renders the static part of a clip: the filled canvas, all box
// outlines, the question and the four options.
func (p Painter) Background(l layout.Layout, q quiz.Question) (*image.RGBA, error) {
	st := p.Style
	img := image.NewRGBA(l.Canvas)
	draw.Draw(img, img.Bounds(), image.NewUniform(st.Background), image.Point{}, draw.Src)

	boxes := append([]image.Rectangle{l.Question}, l.Options[:]...)
	for _, b := range boxes {
		paint.StrokeRounded(img, b, st.Radius, st.OutlineWidth, st.Outline, draw.Over)
	}

	if err := p.Question(img, l.Question, q.Text); err != nil {
		return nil, err
	}
	for i, box := range l.Options {
		if err := p.Option(img, box, quiz.Label(i), q.OptionText(i)); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// Question draws question text into its box at the fitted size.
func (p Painter) Question(dst draw.Image, box image.Rectangle, s string) error {
	st := p.Style
	size := text.FitFont(p.Font, s, st.QuestionSize, box.Dx()-st.FitSlack, box.Dy()-st.FitSlack)
	inner := image.Rect(box.Min.X+st.QuestionPad.X, box.Min.Y+st.QuestionPad.Y, box.Max.X-st.QuestionPad.X, box.Max.Y-st.QuestionPad.Y)
	return text.DrawCentered(dst, p.Font, size, inner, s, st.Foreground)
}

// Option draws the label and wrapped text of one option.
func (p Painter) Option(dst draw.Image, box image.Rectangle, label, s string) error {
	st := p.Style
	if err := text.DrawAt(dst, p.Font, st.LabelSize, p.LabelOrigin(box), label, st.Foreground); err != nil {
		return err
	}
	return text.DrawCentered(dst, p.Font, st.OptionSize, p.OptionTextRegion(box), s, st.Foreground)
}

// Highlight fills an answer box with the translucent highlight colour and
// redraws its label and text on top.
func (p Painter) Highlight(dst draw.Image, box image.Rectangle, label, s string) error {
	st := p.Style
	paint.FillRounded(dst, box, st.Radius, st.Highlight, draw.Src)
	paint.StrokeRounded(dst, box, st.Radius, st.HighlightWidth, st.Highlight, draw.Src)
	return p.Option(dst, box, label, s)
}
