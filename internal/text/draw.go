package text

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Draw renders laid-out lines onto dst.
func Draw(dst draw.Image, f *Font, size float64, lines []Line, c color.Color) error {
	if len(lines) == 0 {
		return nil
	}
	face, err := f.NewFace(size)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	for _, l := range lines {
		// X is the left edge of the ink box; shift the pen by the bearing.
		d.Dot = fixed.Point26_6{
			X: fixed.I(l.X) - f.inkLeft(l.Text, size),
			Y: fixed.I(l.Baseline),
		}
		d.DrawString(l.Text)
	}
	return nil
}

// DrawAt draws a single string with its top-left corner at p.
func DrawAt(dst draw.Image, f *Font, size float64, p image.Point, s string, c color.Color) error {
	return Draw(dst, f, size, []Line{{Text: s, X: p.X, Top: p.Y, Baseline: p.Y + f.Ascent(size)}}, c)
}

// DrawCentered wraps s into region and draws it.
func DrawCentered(dst draw.Image, f *Font, size float64, region image.Rectangle, s string, c color.Color) error {
	return Draw(dst, f, size, Layout(f, s, size, region), c)
}
