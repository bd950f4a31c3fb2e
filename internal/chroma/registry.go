package chroma

import "fmt"

// NewKeyer returns a keyer for the named backdrop colour.
func NewKeyer(preset string) (Keyer, error) {
	switch preset {
	case "green", "":
		return Green, nil
	case "blue":
		return Keyer{Hue: Range{100, 130}, Sat: Range{60, 255}, Val: Range{40, 255}}, nil
	default:
		return Keyer{}, fmt.Errorf("unknown chroma key preset: %s", preset)
	}
}
