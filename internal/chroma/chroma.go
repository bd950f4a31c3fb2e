// Package chroma turns a green-screen frame into a frame with transparency.
package chroma

import (
	"errors"
	"fmt"
	"image"

	"github.com/ivlev/quiz2video/internal/frame"
)

// ErrInvalidFrame is returned for empty frames and buffers whose size does
// not match their declared dimensions.
var ErrInvalidFrame = errors.New("invalid frame")

// Range is an inclusive channel range.
type Range struct {
	Lo, Hi uint8
}

func (r Range) Contains(v uint8) bool { return v >= r.Lo && v <= r.Hi }

// Keyer masks pixels whose hue, saturation and value all fall in range.
// Hue uses the 8-bit half-degree scale (0..179), saturation and value 0..255.
type Keyer struct {
	Hue Range
	Sat Range
	Val Range
}

// Green is the default key of the countdown video.
var Green = Keyer{
	Hue: Range{40, 90},
	Sat: Range{40, 255},
	Val: Range{40, 255},
}

// Masked reports whether an RGB colour is keyed out.
func (k Keyer) Masked(r, g, b uint8) bool {
	h, s, v := HSV(r, g, b)
	return k.Hue.Contains(h) && k.Sat.Contains(s) && k.Val.Contains(v)
}

// KeyOut copies the colour channels of img and sets alpha to 0 where the
// pixel is masked and 255 elsewhere. The input alpha is ignored, so keying
// an already keyed frame gives the same mask.
func (k Keyer) KeyOut(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidFrame, b)
	}
	dst := image.NewNRGBA(b)
	if err := k.KeyInto(dst, img); err != nil {
		return nil, err
	}
	return dst, nil
}

// KeyInto keys img into dst. Both must have the same bounds.
func (k Keyer) KeyInto(dst *image.NRGBA, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty bounds %v", ErrInvalidFrame, b)
	}
	if dst.Rect != b {
		return fmt.Errorf("%w: destination %v, source %v", ErrInvalidFrame, dst.Rect, b)
	}

	switch src := img.(type) {
	case *frame.RGB:
		if !src.Valid() {
			return fmt.Errorf("%w: rgb24 buffer of %d bytes for %v", ErrInvalidFrame, len(src.Pix), b)
		}
		k.keyPacked(dst, src.Pix, src.Stride, 3, b)
	case *image.NRGBA:
		if len(src.Pix) < src.Stride*(b.Dy()-1)+4*b.Dx() {
			return fmt.Errorf("%w: nrgba buffer of %d bytes for %v", ErrInvalidFrame, len(src.Pix), b)
		}
		k.keyPacked(dst, src.Pix, src.Stride, 4, b)
	case *image.RGBA:
		if !src.Opaque() {
			k.keyGeneric(dst, img)
			return nil
		}
		if len(src.Pix) < src.Stride*(b.Dy()-1)+4*b.Dx() {
			return fmt.Errorf("%w: rgba buffer of %d bytes for %v", ErrInvalidFrame, len(src.Pix), b)
		}
		k.keyPacked(dst, src.Pix, src.Stride, 4, b)
	default:
		k.keyGeneric(dst, img)
	}
	return nil
}

func (k Keyer) keyPacked(dst *image.NRGBA, pix []uint8, stride, bpp int, b image.Rectangle) {
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*bpp]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, bl := row[x*bpp], row[x*bpp+1], row[x*bpp+2]
			o := out[x*4 : x*4+4 : x*4+4]
			o[0], o[1], o[2] = r, g, bl
			if k.Masked(r, g, bl) {
				o[3] = 0
			} else {
				o[3] = 255
			}
		}
	}
}

func (k Keyer) keyGeneric(dst *image.NRGBA, img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			// Colour channels are compared un-premultiplied.
			if a != 0 && a != 0xffff {
				r, g, bl = r*0xffff/a, g*0xffff/a, bl*0xffff/a
			}
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = r8, g8, b8
			if k.Masked(r8, g8, b8) {
				dst.Pix[i+3] = 0
			} else {
				dst.Pix[i+3] = 255
			}
		}
	}
}

// KeyOut keys img with explicit ranges.
func KeyOut(img image.Image, hue, sat, val Range) (*image.NRGBA, error) {
	return Keyer{Hue: hue, Sat: sat, Val: val}.KeyOut(img)
}
