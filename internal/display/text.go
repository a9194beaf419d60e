package display

import (
	"image"
	"strings"
)

// TextLayout is the placement of the countdown text
type TextLayout struct {
	Box        image.Rectangle
	Face       Face
	Lines      []string
	LineHeight int
	StartY     int
	// Overflow is set when no face fits and the smallest one is clipped
	Overflow bool
}

// Height returns the stacked height of the lines
func (l TextLayout) Height() int {
	return stackedHeight(len(l.Lines), l.LineHeight)
}

// LineX returns the x position that centers line i in the box
func (l TextLayout) LineX(i int) int {
	w := l.Face.Measure(l.Lines[i])
	return l.Box.Min.X + (l.Box.Dx()-w)/2
}

// LineY returns the top of line i
func (l TextLayout) LineY(i int) int {
	return l.StartY + i*l.LineHeight
}

// FitText picks the largest face, faces ordered largest first, for which the
// word-wrapped lines fit box. Without a fit it falls back to the last face.
func FitText(lines []string, box image.Rectangle, faces []Face) TextLayout {
	if len(faces) == 0 {
		faces = []Face{ExtraSmall}
	}

	for _, face := range faces {
		wrapped := wrapLines(lines, face, box.Dx())
		if fits(wrapped, face, box) {
			return placeText(box, face, wrapped, false)
		}
	}

	smallest := faces[len(faces)-1]
	return placeText(box, smallest, wrapLines(lines, smallest, box.Dx()), true)
}

func placeText(box image.Rectangle, face Face, lines []string, overflow bool) TextLayout {
	l := TextLayout{
		Box:        box,
		Face:       face,
		Lines:      lines,
		LineHeight: face.Height() + 1,
		Overflow:   overflow,
	}
	l.StartY = box.Min.Y + (box.Dy()-l.Height())/2
	if l.StartY < box.Min.Y {
		l.StartY = box.Min.Y
	}
	return l
}

func fits(lines []string, face Face, box image.Rectangle) bool {
	for _, line := range lines {
		if face.Measure(line) > box.Dx() {
			return false
		}
	}
	return stackedHeight(len(lines), face.Height()+1) <= box.Dy()
}

// stackedHeight leaves out the gap below the last line
func stackedHeight(n, lineHeight int) int {
	if n == 0 {
		return 0
	}
	return n*lineHeight - 1
}

// wrapLines breaks each line greedily at spaces so that every piece fits
// width. A single word wider than width is kept on its own line.
func wrapLines(lines []string, face Face, width int) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if face.Measure(candidate) <= width {
				current = candidate
				continue
			}
			out = append(out, current)
			current = word
		}
		out = append(out, current)
	}
	return out
}
