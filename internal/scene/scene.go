// Package scene assembles one quiz clip from its layers: the background
// card, the countdown timer and the blinking answer highlight.
package scene

import (
	"fmt"
	"image"

	"github.com/ivlev/quiz2video/internal/card"
	"github.com/ivlev/quiz2video/internal/effects"
	"github.com/ivlev/quiz2video/internal/frame"
	"github.com/ivlev/quiz2video/internal/highlight"
	"github.com/ivlev/quiz2video/internal/layout"
	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/timeline"
)

// Params are the timings of a clip, in seconds unless noted.
type Params struct {
	Duration          float64 `yaml:"duration"`
	FadeIn            float64 `yaml:"fade_in"`
	HighlightStart    float64 `yaml:"highlight_start"`
	HighlightDuration float64 `yaml:"highlight_duration"`

	// BlinkOn and BlinkOff are counted in output frames.
	BlinkOn   int     `yaml:"blink_on"`
	BlinkOff  int     `yaml:"blink_off"`
	FPS       int     `yaml:"fps"`
	TimerTrim float64 `yaml:"timer_trim"`

	// Effect names the background transition: fade or none.
	Effect string `yaml:"effect"`
}

func DefaultParams() Params {
	return Params{
		Duration:          13,
		FadeIn:            1,
		HighlightStart:    10,
		HighlightDuration: 3,
		BlinkOn:           4,
		BlinkOff:          4,
		FPS:               24,
		TimerTrim:         11.56,
		Effect:            "fade",
	}
}

// Pattern returns the blink pattern of the highlight layer.
func (p Params) Pattern() highlight.Pattern {
	return highlight.Pattern{
		Duration: p.HighlightDuration,
		FPS:      float64(p.FPS),
		On:       p.BlinkOn,
		Off:      p.BlinkOff,
	}
}

// Builder turns questions into composites. It holds only shared read-only
// resources and may be used from several goroutines.
type Builder struct {
	Orientation layout.Orientation
	Painter     card.Painter

	// Timer is the keyed countdown. Nil renders clips without a timer.
	Timer  frame.Source
	Effect effects.Effect
	Params Params
}

func NewBuilder(o layout.Orientation, painter card.Painter, timer frame.Source, p Params) *Builder {
	// Имя проверяет config.Validate, неизвестное даёт fade.
	fx, _ := effects.FromName(p.Effect, p.FadeIn)
	return &Builder{
		Orientation: o,
		Painter:     painter,
		Timer:       timer,
		Effect:      fx,
		Params:      p,
	}
}

// Layout computes the regions for the builder's canvas.
func (b *Builder) Layout() (layout.Layout, error) {
	w, h := b.Orientation.Canvas()
	return layout.Compute(w, h, b.Orientation)
}

// Build renders the static background of q and stacks the timer and
// highlight layers over it.
func (b *Builder) Build(q quiz.Question) (*timeline.Composite, error) {
	l, err := b.Layout()
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", q.Number, err)
	}

	bg, err := b.Painter.Background(l, q)
	if err != nil {
		return nil, fmt.Errorf("question %d: background: %w", q.Number, err)
	}
	var background frame.Source = frame.NewStill(bg, b.Params.Duration)
	if b.Effect != nil {
		background = b.Effect.Apply(background)
	}

	layers := []timeline.Layer{{Source: background, Duration: b.Params.Duration}}
	if b.Timer != nil {
		layers = append(layers, b.timerLayer(l))
	}
	layers = append(layers, timeline.Layer{
		Source:   highlight.New(l.Canvas, Target(l, q), b.Params.Pattern(), b.Painter),
		Start:    b.Params.HighlightStart,
		Duration: b.Params.HighlightDuration,
	})

	c, err := timeline.NewComposite(l.Canvas, b.Params.Duration, layers...)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", q.Number, err)
	}
	return c, nil
}

func (b *Builder) timerLayer(l layout.Layout) timeline.Layer {
	d := b.Timer.Duration()
	if b.Params.TimerTrim > 0 && d > b.Params.TimerTrim {
		d = b.Params.TimerTrim
	}
	return timeline.Layer{
		Source:   b.Timer,
		Duration: d,
		Offset:   l.TimerOrigin(b.Timer.Bounds().Dx()),
	}
}

// Target returns the box to highlight for q. An unresolved answer gives an
// empty target.
func Target(l layout.Layout, q quiz.Question) highlight.Target {
	i, ok := q.AnswerIndex()
	if !ok {
		return highlight.Target{}
	}
	return highlight.Target{Box: l.Options[i], Label: quiz.Label(i), Text: q.OptionText(i)}
}

// Still renders the frame of q at time t, for previews.
func (b *Builder) Still(q quiz.Question, t float64) (*image.RGBA, error) {
	c, err := b.Build(q)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(c.Bounds())
	if err := c.FrameInto(dst, t); err != nil {
		return nil, err
	}
	return dst, nil
}
