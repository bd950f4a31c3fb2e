package effects

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/quiz2video/internal/frame"
)

// Effect оборачивает источник кадров, не меняя его длительность.
type Effect interface {
	Apply(src frame.Source) frame.Source
}

// None - эффект-заглушка.
type None struct{}

func (None) Apply(src frame.Source) frame.Source { return src }

// FadeIn - проявление из цвета From за Duration секунд:
// frame(t) = k*src(t) + (1-k)*From, k = t/Duration.
type FadeIn struct {
	Duration float64
	From     color.RGBA
}

func (e FadeIn) Apply(src frame.Source) frame.Source {
	if e.Duration <= 0 {
		return src
	}
	return &fadeSource{src: src, fx: e}
}

// FromName возвращает эффект фона по имени из конфига.
// Для неизвестного имени возвращается fade вместе с ошибкой.
func FromName(name string, duration float64) (Effect, error) {
	fade := FadeIn{Duration: duration, From: color.RGBA{0, 0, 0, 255}}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fade":
		return fade, nil
	case "none", "off":
		return None{}, nil
	default:
		return fade, fmt.Errorf("unknown effect %q", name)
	}
}

type fadeSource struct {
	src frame.Source
	fx  FadeIn
}

func (s *fadeSource) Duration() float64       { return s.src.Duration() }
func (s *fadeSource) Bounds() image.Rectangle { return s.src.Bounds() }

func (s *fadeSource) AudioSpans() []frame.AudioSpan { return frame.Spans(s.src) }

func (s *fadeSource) Frame(t float64) (image.Image, error) {
	img, err := s.src.Frame(t)
	if err != nil {
		return nil, err
	}
	if t >= s.fx.Duration {
		return img, nil
	}
	k := t / s.fx.Duration
	if k < 0 {
		k = 0
	}

	b := img.Bounds()
	out, ok := img.(*image.RGBA)
	if ok {
		out = &image.RGBA{Pix: append([]uint8(nil), out.Pix...), Stride: out.Stride, Rect: out.Rect}
	} else {
		out = image.NewRGBA(b)
		draw.Draw(out, b, img, b.Min, draw.Src)
	}

	// Работаем с премультиплицированными значениями: альфа смешивается так же, как цвет.
	from := [4]float64{float64(s.fx.From.R), float64(s.fx.From.G), float64(s.fx.From.B), float64(s.fx.From.A)}
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 4; c++ {
			out.Pix[i+c] = uint8(k*float64(out.Pix[i+c]) + (1-k)*from[c] + 0.5)
		}
	}
	return out, nil
}
