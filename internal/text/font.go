package text

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/quiz2video/internal/frame"
)

// Font is a parsed TrueType/OpenType font shared by all clips of a run.
// font.Face values are not safe for concurrent use, so measuring goes
// through a cache guarded by a mutex and drawing gets a fresh face.
type Font struct {
	name string
	sfnt *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// LoadFont reads and parses a font file.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", frame.ErrResourceLoad, path, err)
	}
	return ParseFont(path, data)
}

// DefaultFont returns the Go Regular face bundled with x/image.
func DefaultFont() *Font {
	f, err := ParseFont("goregular", goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}

func ParseFont(name string, data []byte) (*Font, error) {
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", frame.ErrResourceLoad, name, err)
	}
	return &Font{name: name, sfnt: sf, faces: make(map[float64]font.Face)}, nil
}

func (f *Font) Name() string { return f.name }

// NewFace returns a face owned by the caller.
func (f *Font) NewFace(size float64) (font.Face, error) {
	return opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (f *Font) faceLocked(size float64) font.Face {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face, err := f.NewFace(size)
	if err != nil {
		// opentype.NewFace fails only on invalid options.
		panic(err)
	}
	f.faces[size] = face
	return face
}

// Measure returns the ink bounding box of s at the given size.
func (f *Font) Measure(s string, size float64) (w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, _ := font.BoundString(f.faceLocked(size), s)
	return (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
}

func (f *Font) LineHeight(size float64) int {
	_, h := f.Measure(lineSample, size)
	return h
}

func (f *Font) Ascent(size float64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faceLocked(size).Metrics().Ascent.Ceil()
}

// inkLeft returns the horizontal offset of the first ink pixel from the pen position.
func (f *Font) inkLeft(s string, size float64) fixed.Int26_6 {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, _ := font.BoundString(f.faceLocked(size), s)
	return b.Min.X
}
