package frame

import (
	"errors"
	"image"
	"image/color"
)

// ErrResourceLoad означает, что внешний ресурс (шрифт, видео таймера) не удалось загрузить.
// Без этих ресурсов рендер невозможен, поэтому ошибка фатальна для всего запуска.
var ErrResourceLoad = errors.New("resource load error")

// Source - источник кадров: чистая функция времени t в диапазоне [0, Duration()).
// Повторный вызов с тем же t возвращает эквивалентный кадр. Возвращаемое
// изображение нельзя изменять: источник может отдавать один и тот же буфер.
type Source interface {
	Duration() float64
	Bounds() image.Rectangle
	Frame(t float64) (image.Image, error)
}

// Renderer - источник, умеющий рисовать кадр в буфер вызывающей стороны.
// Энкодер использует его, чтобы не аллоцировать кадр на каждый тик.
type Renderer interface {
	FrameInto(dst *image.RGBA, t float64) error
}

// Still - неподвижный кадр заданной длительности.
type Still struct {
	Image image.Image
	Dur   float64
}

func NewStill(img image.Image, duration float64) *Still {
	return &Still{Image: img, Dur: duration}
}

func (s *Still) Duration() float64                  { return s.Dur }
func (s *Still) Bounds() image.Rectangle            { return s.Image.Bounds() }
func (s *Still) Frame(float64) (image.Image, error) { return s.Image, nil }

// Solid возвращает непрозрачный кадр, залитый одним цветом.
func Solid(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)
	cr, cg, cb, ca := c.RGBA()
	px := [4]uint8{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)}
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], px[:])
	}
	return img
}

// Transparent возвращает полностью прозрачный кадр.
func Transparent(r image.Rectangle) *image.NRGBA {
	return image.NewNRGBA(r)
}
