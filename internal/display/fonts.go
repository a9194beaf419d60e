package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"unicode"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
)

// Face is a text face the layout can measure and draw with
type Face interface {
	// Name identifies the scale in logs and layout info
	Name() string
	// Measure returns the pixel width of s
	Measure(s string) int
	// Height returns the pixel height of one line of glyphs
	Height() int
	// Draw draws s with its top-left corner at (x, y)
	Draw(dst draw.Image, x, y int, s string, c color.Color)
}

// DefaultFaces returns the font scales from largest to smallest
func DefaultFaces() []Face {
	faces := make([]Face, 0, 3)
	if regular, err := NewTrueTypeFace("regular", 12); err == nil {
		faces = append(faces, regular)
	}
	return append(faces, Small, ExtraSmall)
}

// TrueTypeFace adapts a font.Face to Face
type TrueTypeFace struct {
	name   string
	face   font.Face
	ascent int
	height int
}

// NewTrueTypeFace builds a Go Mono Bold face at the given pixel size
func NewTrueTypeFace(name string, size float64) (*TrueTypeFace, error) {
	f, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m := face.Metrics()
	return &TrueTypeFace{
		name:   name,
		face:   face,
		ascent: m.Ascent.Ceil(),
		height: m.Ascent.Ceil() + m.Descent.Ceil(),
	}, nil
}

func (f *TrueTypeFace) Name() string { return f.name }

func (f *TrueTypeFace) Height() int { return f.height }

func (f *TrueTypeFace) Measure(s string) int {
	return font.MeasureString(f.face, s).Ceil()
}

func (f *TrueTypeFace) Draw(dst draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(x, y+f.ascent),
	}
	d.DrawString(s)
}

// BitmapFace is a fixed-width pixel font with one pixel between glyphs
type BitmapFace struct {
	name    string
	width   int
	height  int
	spacing int
	// pixel reports whether the glyph pixel at column col, row row is lit
	pixel func(glyph []byte, col, row int) bool
	glyphs map[rune][]byte
}

func (f *BitmapFace) Name() string { return f.name }

func (f *BitmapFace) Height() int { return f.height }

func (f *BitmapFace) Measure(s string) int {
	n := len([]rune(s))
	if n == 0 {
		return 0
	}
	return n*(f.width+f.spacing) - f.spacing
}

func (f *BitmapFace) Draw(dst draw.Image, x, y int, s string, c color.Color) {
	bounds := dst.Bounds()
	cursorX := x
	for _, r := range s {
		glyph, ok := f.glyphs[unicode.ToUpper(r)]
		if !ok {
			glyph = f.glyphs[' ']
		}
		for col := 0; col < f.width; col++ {
			for row := 0; row < f.height; row++ {
				if !f.pixel(glyph, col, row) {
					continue
				}
				p := image.Pt(cursorX+col, y+row)
				if p.In(bounds) {
					dst.Set(p.X, p.Y, c)
				}
			}
		}
		cursorX += f.width + f.spacing
	}
}

// Small is a 5x7 font. Each glyph is five column bytes, bit 0 at the top.
var Small = &BitmapFace{
	name:    "small",
	width:   5,
	height:  7,
	spacing: 1,
	pixel: func(glyph []byte, col, row int) bool {
		return col < len(glyph) && glyph[col]&(1<<row) != 0
	},
	glyphs: font5x7,
}

// ExtraSmall is a 3x5 font. Each glyph is five row bytes, bit 2 at the left.
var ExtraSmall = &BitmapFace{
	name:    "extra-small",
	width:   3,
	height:  5,
	spacing: 1,
	pixel: func(glyph []byte, col, row int) bool {
		return row < len(glyph) && glyph[row]&(0b100>>col) != 0
	},
	glyphs: font3x5,
}

var font5x7 = map[rune][]byte{
	'A': {0x7E, 0x09, 0x09, 0x09, 0x7E},
	'B': {0x7F, 0x49, 0x49, 0x49, 0x36},
	'C': {0x3E, 0x41, 0x41, 0x41, 0x22},
	'D': {0x7F, 0x41, 0x41, 0x22, 0x1C},
	'E': {0x7F, 0x49, 0x49, 0x49, 0x41},
	'F': {0x7F, 0x09, 0x09, 0x09, 0x01},
	'G': {0x3E, 0x41, 0x49, 0x49, 0x3A},
	'H': {0x7F, 0x08, 0x08, 0x08, 0x7F},
	'I': {0x00, 0x41, 0x7F, 0x41, 0x00},
	'J': {0x20, 0x40, 0x41, 0x3F, 0x01},
	'K': {0x7F, 0x08, 0x14, 0x22, 0x41},
	'L': {0x7F, 0x40, 0x40, 0x40, 0x40},
	'M': {0x7F, 0x02, 0x0C, 0x02, 0x7F},
	'N': {0x7F, 0x04, 0x08, 0x10, 0x7F},
	'O': {0x3E, 0x41, 0x41, 0x41, 0x3E},
	'P': {0x7F, 0x09, 0x09, 0x09, 0x06},
	'Q': {0x3E, 0x41, 0x51, 0x21, 0x5E},
	'R': {0x7F, 0x09, 0x19, 0x29, 0x46},
	'S': {0x26, 0x49, 0x49, 0x49, 0x32},
	'T': {0x01, 0x01, 0x7F, 0x01, 0x01},
	'U': {0x3F, 0x40, 0x40, 0x40, 0x3F},
	'V': {0x1F, 0x20, 0x40, 0x20, 0x1F},
	'W': {0x3F, 0x40, 0x30, 0x40, 0x3F},
	'X': {0x63, 0x14, 0x08, 0x14, 0x63},
	'Y': {0x07, 0x08, 0x70, 0x08, 0x07},
	'Z': {0x61, 0x51, 0x49, 0x45, 0x43},
	'0': {0x3E, 0x51, 0x49, 0x45, 0x3E},
	'1': {0x00, 0x42, 0x7F, 0x40, 0x00},
	'2': {0x42, 0x61, 0x51, 0x49, 0x46},
	'3': {0x21, 0x41, 0x45, 0x4B, 0x31},
	'4': {0x18, 0x14, 0x12, 0x7F, 0x10},
	'5': {0x27, 0x45, 0x45, 0x45, 0x39},
	'6': {0x3C, 0x4A, 0x49, 0x49, 0x30},
	'7': {0x01, 0x71, 0x09, 0x05, 0x03},
	'8': {0x36, 0x49, 0x49, 0x49, 0x36},
	'9': {0x06, 0x49, 0x49, 0x29, 0x1E},
	' ': {0x00, 0x00, 0x00, 0x00, 0x00},
	'!': {0x00, 0x00, 0x5F, 0x00, 0x00},
	'.': {0x00, 0x60, 0x60, 0x00, 0x00},
	':': {0x00, 0x36, 0x36, 0x00, 0x00},
	'-': {0x08, 0x08, 0x08, 0x08, 0x08},
}

var font3x5 = map[rune][]byte{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b111, 0b101, 0b101},
	'N': {0b110, 0b101, 0b101, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b111, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b110, 0b001, 0b010, 0b100, 0b111},
	'3': {0b110, 0b001, 0b010, 0b001, 0b110},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b110, 0b001, 0b110},
	'6': {0b011, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b010, 0b100, 0b100},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b110},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
	'!': {0b010, 0b010, 0b010, 0b000, 0b010},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	':': {0b000, 0b010, 0b000, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
}
