package frame

import (
	"image"
	"image/color"
)

// RGB is an opaque 3-channel raster stored as packed rgb24, the layout
// ffmpeg produces with -pix_fmt rgb24.
type RGB struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewRGB(r image.Rectangle) *RGB {
	w, h := r.Dx(), r.Dy()
	return &RGB{Pix: make([]uint8, 3*w*h), Stride: 3 * w, Rect: r}
}

// WrapRGB wraps an existing rgb24 buffer without copying it.
func WrapRGB(pix []uint8, w, h int) *RGB {
	return &RGB{Pix: pix, Stride: 3 * w, Rect: image.Rect(0, 0, w, h)}
}

func (p *RGB) ColorModel() color.Model { return color.RGBAModel }

func (p *RGB) Bounds() image.Rectangle { return p.Rect }

func (p *RGB) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{s[0], s[1], s[2], 0xff}
}

func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *RGB) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = c1.R, c1.G, c1.B
}

// Opaque reports true: RGB has no alpha channel.
func (p *RGB) Opaque() bool { return true }

// Valid reports whether the buffer is large enough for the declared bounds.
func (p *RGB) Valid() bool {
	if p.Rect.Empty() || p.Stride < 3*p.Rect.Dx() {
		return false
	}
	return len(p.Pix) >= p.Stride*(p.Rect.Dy()-1)+3*p.Rect.Dx()
}
