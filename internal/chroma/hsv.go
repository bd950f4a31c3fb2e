package chroma

// HSV converts an 8-bit RGB colour using the 8-bit convention of common
// vision libraries: hue in half degrees 0..179, saturation and value 0..255.
func HSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	maxc := max(ri, gi, bi)
	minc := min(ri, gi, bi)
	diff := maxc - minc

	v = uint8(maxc)
	if maxc == 0 {
		return 0, 0, v
	}
	s = uint8((255*diff + maxc/2) / maxc)
	if diff == 0 {
		return 0, s, v
	}

	var hue float64
	switch maxc {
	case ri:
		hue = 60 * float64(gi-bi) / float64(diff)
	case gi:
		hue = 120 + 60*float64(bi-ri)/float64(diff)
	default:
		hue = 240 + 60*float64(ri-gi)/float64(diff)
	}
	if hue < 0 {
		hue += 360
	}
	hh := int(hue/2 + 0.5)
	if hh >= 180 {
		hh -= 180
	}
	return uint8(hh), s, v
}
