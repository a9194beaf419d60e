package display

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

const (
	// MinLogoSize and MaxLogoSize bound a configured logo size
	MinLogoSize = 8
	MaxLogoSize = 64
	// logoMargin is kept around the logo when the left half has room for it
	logoMargin = 2
)

// RenderConfig represents the settings the renderer draws with
type RenderConfig struct {
	TextColor color.Color
	// LogoSize is a fixed logo edge in pixels; zero fills the left half
	LogoSize int
}

// Renderer handles the display rendering logic
type Renderer struct {
	cfg   RenderConfig
	faces []Face
	logo  Logo
}

// NewRenderer creates a new renderer instance. A nil logo draws the rings.
func NewRenderer(cfg RenderConfig, logo Logo, faces []Face) *Renderer {
	if cfg.TextColor == nil {
		cfg.TextColor = color.White
	}
	if logo == nil {
		logo = RingsLogo{}
	}
	if len(faces) == 0 {
		faces = DefaultFaces()
	}
	return &Renderer{
		cfg:   cfg,
		faces: faces,
		logo:  logo,
	}
}

// DisplayLayout represents the layout for the display
type DisplayLayout struct {
	Width  int
	Height int
	Logo   LogoLayout
	Text   TextLayout
	Color  color.Color
}

// LogoLayout represents the layout for the logo
type LogoLayout struct {
	Box  image.Rectangle
	Logo Logo
}

// GetDisplayLayout returns the layout for a display of the given size:
// logo in the left half, text stacked in the right half
func (r *Renderer) GetDisplayLayout(state types.DisplayState, width, height int) DisplayLayout {
	left := image.Rect(0, 0, width/2, height)
	right := image.Rect(width/2, 0, width, height)

	return DisplayLayout{
		Width:  width,
		Height: height,
		Logo: LogoLayout{
			Box:  LogoBox(left, r.cfg.LogoSize),
			Logo: r.logo,
		},
		Text:  FitText(state.Lines(), right, r.faces),
		Color: r.cfg.TextColor,
	}
}

// LogoBox returns where the logo goes inside the left half. With size zero
// the whole half is used minus a margin, otherwise a centered square of
// size clamped to [MinLogoSize, MaxLogoSize] and to the half itself.
func LogoBox(left image.Rectangle, size int) image.Rectangle {
	box := left
	if box.Dx() > 4*logoMargin && box.Dy() > 4*logoMargin {
		box = box.Inset(logoMargin)
	}
	if size <= 0 {
		return box
	}

	size = min(max(size, MinLogoSize), MaxLogoSize, box.Dx(), box.Dy())
	x := box.Min.X + (box.Dx()-size)/2
	y := box.Min.Y + (box.Dy()-size)/2
	return image.Rect(x, y, x+size, y+size)
}

// Render draws the state into a new frame of the given size
func (r *Renderer) Render(state types.DisplayState, width, height int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(frame, frame.Bounds(), image.Black, image.Point{}, draw.Src)
	r.Draw(frame, r.GetDisplayLayout(state, width, height))
	return frame
}

// Draw draws a computed layout onto dst
func (r *Renderer) Draw(dst draw.Image, layout DisplayLayout) {
	if !layout.Logo.Box.Empty() {
		layout.Logo.Logo.Draw(dst, layout.Logo.Box)
	}

	text := layout.Text
	clipped := clip(dst, text.Box)
	for i, line := range text.Lines {
		text.Face.Draw(clipped, text.LineX(i), text.LineY(i), line, layout.Color)
	}
}

// clipImage restricts drawing to a rectangle of the wrapped image
type clipImage struct {
	draw.Image
	rect image.Rectangle
}

func clip(dst draw.Image, r image.Rectangle) draw.Image {
	return &clipImage{Image: dst, rect: r.Intersect(dst.Bounds())}
}

func (c *clipImage) Bounds() image.Rectangle { return c.rect }

func (c *clipImage) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.rect) {
		c.Image.Set(x, y, col)
	}
}
