// Package cropper plans face-anchored crop areas and renders them to
// DPI-exact pixel dimensions.
//
// The planner expands a detected face box into an ID-style portrait
// framing (head and hair above, shoulders below, breathing room on the
// sides), forces the target aspect ratio, and keeps the face centered
// even when the expansion would run past the image edges.
package cropper

import (
	"image"
	"math"
)

// Framing margins relative to the face box dimensions.
const (
	sideMargin  = 0.8
	aboveMargin = 1.5
	belowMargin = 1.0
)

// Rect is an axis-aligned rectangle in pixel coordinates. Width and
// height are kept as floats until rendering so the aspect-ratio
// invariant survives intermediate math.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// AspectRatio returns the width/height ratio of the rectangle.
func (r Rect) AspectRatio() float64 {
	return r.Width / r.Height
}

// Contains reports whether the point lies within the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Bounds converts the rectangle to integer pixel bounds.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

// PlanFromFace computes the crop area for a detected face box. The crop
// is anchored on the face center, expanded by the framing margins,
// forced to the target aspect ratio by growing the narrower dimension,
// and shrunk symmetrically around the anchor if it would exceed the
// image bounds. The returned rectangle always has the requested aspect
// ratio and always contains the clamped face center.
func PlanFromFace(face image.Rectangle, aspect float64, imgWidth, imgHeight int) Rect {
	fw := float64(face.Dx())
	fh := float64(face.Dy())
	w := float64(imgWidth)
	h := float64(imgHeight)

	anchorX := clamp(float64(face.Min.X)+fw/2, 0, w)
	anchorY := clamp(float64(face.Min.Y)+fh/2, 0, h)

	expandedW := fw * (1 + 2*sideMargin)
	expandedH := fh * (1 + aboveMargin + belowMargin)

	cropW, cropH := growToAspect(expandedW, expandedH, aspect)
	area := centeredAt(anchorX, anchorY, cropW, cropH)

	if area.X < 0 || area.Y < 0 || area.X+area.Width > w || area.Y+area.Height > h {
		// The naive expansion runs off-image. Re-derive the maximum
		// symmetric rectangle around the anchor that fits within
		// bounds and fit the aspect ratio inside it, keeping the face
		// centered at the cost of a tighter head/shoulder margin.
		maxW := math.Min(2*anchorX, 2*(w-anchorX))
		maxH := math.Min(2*anchorY, 2*(h-anchorY))
		cropW = math.Min(maxW, aspect*maxH)
		cropH = cropW / aspect
		area = centeredAt(anchorX, anchorY, cropW, cropH)
	}

	return area
}

// growToAspect forces the exact target aspect ratio by growing the
// narrower dimension, never shrinking, so no captured content is lost.
func growToAspect(width, height, aspect float64) (float64, float64) {
	if width/height > aspect {
		return width, width / aspect
	}
	return height * aspect, height
}

func centeredAt(cx, cy, width, height float64) Rect {
	return Rect{
		X:      cx - width/2,
		Y:      cy - height/2,
		Width:  width,
		Height: height,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
