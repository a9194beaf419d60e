package display

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// LogoCandidates are the asset file names tried in order, relative to the
// asset directory
var LogoCandidates = []string{
	"olympics-logo.png",
	"olympics logo.png",
	"olympics-icon.png",
	"logo.png",
	"assets/olympics-logo.png",
	"assets/logo.png",
	"olympics-logo.svg",
	"assets/olympics-logo.svg",
}

// ErrNoLogoAsset is returned by FindLogo when no candidate file exists
var ErrNoLogoAsset = errors.New("no logo asset found")

// Logo draws itself scaled into a box
type Logo interface {
	Draw(dst draw.Image, box image.Rectangle)
}

// RingsLogo is the programmatic fallback
type RingsLogo struct{}

func (RingsLogo) Draw(dst draw.Image, box image.Rectangle) {
	DrawCircles(dst, Rings(box))
}

// ImageLogo is a decoded bitmap asset
type ImageLogo struct {
	Image image.Image
}

// Draw scales the image to fit box, keeping its aspect ratio, and centers it
func (l ImageLogo) Draw(dst draw.Image, box image.Rectangle) {
	target := fitRect(l.Image.Bounds().Size(), box)
	if target.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(dst, target, l.Image, l.Image.Bounds(), xdraw.Over, nil)
}

// SVGLogo is a vector asset
type SVGLogo struct {
	Icon *oksvg.SvgIcon
}

func (l SVGLogo) Draw(dst draw.Image, box image.Rectangle) {
	vb := l.Icon.ViewBox
	size := image.Pt(int(vb.W), int(vb.H))
	if size.X <= 0 || size.Y <= 0 {
		size = box.Size()
	}
	target := fitRect(size, box)
	if target.Empty() {
		return
	}
	l.Icon.SetTarget(float64(target.Min.X), float64(target.Min.Y), float64(target.Dx()), float64(target.Dy()))

	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Max.X, b.Max.Y, dst, b)
	scanner.SetClip(box)
	l.Icon.Draw(rasterx.NewDasher(b.Max.X, b.Max.Y, scanner), 1.0)
}

// FindLogo returns the path of the first candidate that exists in dir
func FindLogo(dir string) (string, error) {
	for _, name := range LogoCandidates {
		path := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}
		if info.IsDir() {
			continue
		}
		return path, nil
	}
	return "", ErrNoLogoAsset
}

// LoadLogo decodes a PNG or SVG logo asset
func LoadLogo(path string) (Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		icon, err := oksvg.ReadIconStream(f, oksvg.IgnoreErrorMode)
		if err != nil {
			return nil, fmt.Errorf("failed to decode svg %s: %w", path, err)
		}
		return SVGLogo{Icon: icon}, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return ImageLogo{Image: img}, nil
}

// fitRect returns the largest rectangle with the aspect ratio of size that
// fits box, centered in it
func fitRect(size image.Point, box image.Rectangle) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 || box.Empty() {
		return image.Rectangle{}
	}
	scale := min(float64(box.Dx())/float64(size.X), float64(box.Dy())/float64(size.Y))
	w := max(1, int(float64(size.X)*scale))
	h := max(1, int(float64(size.Y)*scale))
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
