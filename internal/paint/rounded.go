// Package paint rasterizes the anti-aliased rounded boxes of the quiz cards.
package paint

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so that a quarter circle is approximated.
const kappa = 0.5522847498

// FillRounded fills r with rounded corners of the given radius.
// Boxes not fully inside dst are skipped.
func FillRounded(dst draw.Image, r image.Rectangle, radius int, c color.Color, op draw.Op) {
	if r.Empty() || !r.In(dst.Bounds()) {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = op
	roundedPath(z, 0, 0, float32(r.Dx()), float32(r.Dy()), float32(radius), false)
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

// StrokeRounded draws an outline of the given width inside r.
// The hole is an inner rounded path wound in the opposite direction.
func StrokeRounded(dst draw.Image, r image.Rectangle, radius, width int, c color.Color, op draw.Op) {
	if width <= 0 {
		return
	}
	if 2*width >= r.Dx() || 2*width >= r.Dy() {
		FillRounded(dst, r, radius, c, op)
		return
	}
	if r.Empty() || !r.In(dst.Bounds()) {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = op
	w, h, bw := float32(r.Dx()), float32(r.Dy()), float32(width)
	roundedPath(z, 0, 0, w, h, float32(radius), false)
	inner := float32(radius) - bw
	if inner < 0 {
		inner = 0
	}
	roundedPath(z, bw, bw, w-bw, h-bw, inner, true)
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

func roundedPath(z *vector.Rasterizer, x0, y0, x1, y1, rad float32, reverse bool) {
	if maxRad := min((x1-x0)/2, (y1-y0)/2); rad > maxRad {
		rad = maxRad
	}
	k := rad * kappa

	if !reverse {
		z.MoveTo(x0+rad, y0)
		z.LineTo(x1-rad, y0)
		z.CubeTo(x1-rad+k, y0, x1, y0+rad-k, x1, y0+rad)
		z.LineTo(x1, y1-rad)
		z.CubeTo(x1, y1-rad+k, x1-rad+k, y1, x1-rad, y1)
		z.LineTo(x0+rad, y1)
		z.CubeTo(x0+rad-k, y1, x0, y1-rad+k, x0, y1-rad)
		z.LineTo(x0, y0+rad)
		z.CubeTo(x0, y0+rad-k, x0+rad-k, y0, x0+rad, y0)
		z.ClosePath()
		return
	}

	z.MoveTo(x0+rad, y0)
	z.CubeTo(x0+rad-k, y0, x0, y0+rad-k, x0, y0+rad)
	z.LineTo(x0, y1-rad)
	z.CubeTo(x0, y1-rad+k, x0+rad-k, y1, x0+rad, y1)
	z.LineTo(x1-rad, y1)
	z.CubeTo(x1-rad+k, y1, x1, y1-rad+k, x1, y1-rad)
	z.LineTo(x1, y0+rad)
	z.CubeTo(x1, y0+rad-k, x1-rad+k, y0, x1-rad, y0)
	z.ClosePath()
}
