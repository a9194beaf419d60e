package display

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Ring colors, left to right
var (
	RingBlue   = color.RGBA{R: 0, G: 129, B: 200, A: 255}
	RingYellow = color.RGBA{R: 255, G: 195, B: 0, A: 255}
	RingBlack  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	RingGreen  = color.RGBA{R: 0, G: 158, B: 96, A: 255}
	RingRed    = color.RGBA{R: 255, G: 20, B: 24, A: 255}
)

var ringColors = []color.RGBA{RingBlue, RingYellow, RingBlack, RingGreen, RingRed}

// Circle is one ring outline
type Circle struct {
	CX, CY float64
	R      float64
	Stroke float64
	Color  color.RGBA
}

// Rings lays out the five interlocking rings inside box. Rings alternate
// between the top row (blue, black, red) and the bottom row (yellow, green).
func Rings(box image.Rectangle) []Circle {
	w, h := float64(box.Dx()), float64(box.Dy())
	if w <= 0 || h <= 0 {
		return nil
	}

	// The figure spans 6.4r across and 3r down; the extra room keeps the
	// stroke inside the box.
	r := math.Min(w/6.6, h/3.2)
	stroke := math.Max(1, math.Floor(r/8))
	r = math.Max(r-stroke/2, 0.5)
	step := 1.1 * r

	cx := float64(box.Min.X) + w/2
	cy := float64(box.Min.Y) + h/2

	circles := make([]Circle, 0, len(ringColors))
	for i, c := range ringColors {
		y := cy - r/2
		if i%2 == 1 {
			y = cy + r/2
		}
		circles = append(circles, Circle{
			CX:     cx + float64(i-2)*step,
			CY:     y,
			R:      r,
			Stroke: stroke,
			Color:  c,
		})
	}
	return circles
}

// DrawCircles strokes each circle onto dst with anti-aliasing
func DrawCircles(dst draw.Image, circles []Circle) {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Max.X, b.Max.Y, dst, b)
	dasher := rasterx.NewDasher(b.Max.X, b.Max.Y, scanner)
	for _, c := range circles {
		dasher.Clear()
		dasher.SetStroke(fixed.Int26_6(c.Stroke*64), 4*64, rasterx.ButtCap, nil, rasterx.FlatGap, rasterx.Round, nil, 0)
		rasterx.AddCircle(c.CX, c.CY, c.R, dasher)
		dasher.SetColor(c.Color)
		dasher.Draw()
	}
}
