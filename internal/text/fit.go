// Package text chooses font sizes and wraps text into centred lines.
package text

import (
	"image"
	"strings"
)

const (
	// MinSize is the floor of the font size search.
	MinSize = 5
	// LineSpacing is the gap between wrapped lines, in pixels.
	LineSpacing = 5

	lineSample = "Ay"
)

// Metrics measures text at a given font size. Font implements it; tests
// use fixed-width fakes.
type Metrics interface {
	Measure(s string, size float64) (w, h int)
	LineHeight(size float64) int
	Ascent(size float64) int
}

// FitFont returns the largest size, stepping down by one from maxSize,
// at which the unwrapped text fits into w x h. The floor is returned when
// nothing fits.
func FitFont(m Metrics, s string, maxSize float64, w, h int) float64 {
	size := maxSize
	for size > MinSize {
		tw, th := m.Measure(s, size)
		if tw <= w && th <= h {
			return size
		}
		size--
	}
	return MinSize
}

// Wrap splits s into lines no wider than width. A word wider than the
// region is broken into the longest runs of characters that fit.
func Wrap(m Metrics, s string, size float64, width int) []string {
	var words []string
	for _, word := range strings.Fields(s) {
		if w, _ := m.Measure(word, size); w > width {
			words = append(words, breakWord(m, word, size, width)...)
			continue
		}
		words = append(words, word)
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := m.Measure(candidate, size); w <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func breakWord(m Metrics, word string, size float64, width int) []string {
	var segments []string
	current := ""
	for _, r := range word {
		candidate := current + string(r)
		if w, _ := m.Measure(candidate, size); w <= width {
			current = candidate
			continue
		}
		if current != "" {
			segments = append(segments, current)
		}
		current = string(r)
	}
	if current != "" {
		segments = append(segments, current)
	}
	return segments
}

// Line is one wrapped line placed inside a region. Top is the upper edge
// of the line box, Baseline is where the pen goes.
type Line struct {
	Text     string
	X        int
	Top      int
	Baseline int
}

// Layout wraps s and centres the block in region: vertically as a whole
// and each line horizontally on its own.
func Layout(m Metrics, s string, size float64, region image.Rectangle) []Line {
	wrapped := Wrap(m, s, size, region.Dx())
	if len(wrapped) == 0 {
		return nil
	}

	lineHeight := m.LineHeight(size)
	ascent := m.Ascent(size)
	total := len(wrapped)*lineHeight + (len(wrapped)-1)*LineSpacing
	y := region.Min.Y + floorDiv(region.Dy()-total, 2)

	lines := make([]Line, 0, len(wrapped))
	for _, l := range wrapped {
		w, _ := m.Measure(l, size)
		lines = append(lines, Line{
			Text:     l,
			X:        region.Min.X + floorDiv(region.Dx()-w, 2),
			Top:      y,
			Baseline: y + ascent,
		})
		y += lineHeight + LineSpacing
	}
	return lines
}

// floorDiv matches integer division rounding towards negative infinity,
// so blocks taller than the region are still centred symmetrically.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
