package chroma

import (
	"image"

	"github.com/ivlev/quiz2video/internal/frame"
)

// Source keys every frame of an underlying source. Audio passes through.
type Source struct {
	src   frame.Source
	keyer Keyer
}

func NewSource(src frame.Source, k Keyer) *Source {
	return &Source{src: src, keyer: k}
}

func (s *Source) Duration() float64       { return s.src.Duration() }
func (s *Source) Bounds() image.Rectangle { return s.src.Bounds() }

func (s *Source) Frame(t float64) (image.Image, error) {
	img, err := s.src.Frame(t)
	if err != nil {
		return nil, err
	}
	return s.keyer.KeyOut(img)
}

func (s *Source) AudioSpans() []frame.AudioSpan {
	return frame.Spans(s.src)
}
