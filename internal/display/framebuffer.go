package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// Framebuffer is an in-memory matrix. Pixels are drawn into a back buffer
// and copied to the visible frame on Show.
type Framebuffer struct {
	mu     sync.RWMutex
	back   *image.RGBA
	front  *image.RGBA
	shows  int
	closed bool
}

// NewFramebuffer creates a new framebuffer of the given size
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	r := image.Rect(0, 0, width, height)
	fb := &Framebuffer{
		back:  image.NewRGBA(r),
		front: image.NewRGBA(r),
	}
	draw.Draw(fb.back, r, image.Black, image.Point{}, draw.Src)
	draw.Draw(fb.front, r, image.Black, image.Point{}, draw.Src)
	return fb, nil
}

// Clear clears the back buffer
func (f *Framebuffer) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	draw.Draw(f.back, f.back.Bounds(), image.Black, image.Point{}, draw.Src)
	return nil
}

// SetPixel sets a pixel at the given coordinates to the given color
func (f *Framebuffer) SetPixel(x, y int, c color.Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !image.Pt(x, y).In(f.back.Bounds()) {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	f.back.Set(x, y, c)
	return nil
}

// Show makes the back buffer visible
func (f *Framebuffer) Show() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("framebuffer is closed")
	}
	copy(f.front.Pix, f.back.Pix)
	f.shows++
	return nil
}

// GetDimensions returns the dimensions of the framebuffer
func (f *Framebuffer) GetDimensions() (width, height int) {
	b := f.back.Bounds()
	return b.Dx(), b.Dy()
}

// Close closes the framebuffer
func (f *Framebuffer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Snapshot returns a copy of the visible frame
func (f *Framebuffer) Snapshot() *image.RGBA {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := image.NewRGBA(f.front.Bounds())
	copy(out.Pix, f.front.Pix)
	return out
}

// Shows returns how many frames have been shown
func (f *Framebuffer) Shows() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.shows
}
