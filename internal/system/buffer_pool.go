package system

import (
	"image"
	"sync"
)

// ImagePool переиспользует кадровые буферы *image.RGBA между клипами,
// чтобы энкодер не аллоцировал по буферу на каждый клип.
// Буферы разбиты по размеру кадра.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Rectangle]*sync.Pool
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var frames = NewImagePool()

// GetImage возвращает буфер из общего пула. Содержимое буфера не очищено.
func GetImage(rect image.Rectangle) *image.RGBA {
	return frames.Get(rect)
}

// PutImage возвращает буфер в общий пул.
func PutImage(img *image.RGBA) {
	frames.Put(img)
}

func (p *ImagePool) pool(rect image.Rectangle, create bool) *sync.Pool {
	p.mu.RLock()
	pool := p.pools[rect]
	p.mu.RUnlock()
	if pool != nil || !create {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool = p.pools[rect]; pool == nil {
		pool = &sync.Pool{New: func() any { return image.NewRGBA(rect) }}
		p.pools[rect] = pool
	}
	return pool
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	return p.pool(rect, true).Get().(*image.RGBA)
}

// Put принимает только буферы размеров, которые пул уже выдавал.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	if pool := p.pool(img.Rect, false); pool != nil {
		pool.Put(img)
	}
}
