// Package facedet detects faces in portrait photos.
//
// The pipeline consumes the Detector interface; the default
// implementation wraps the pigo cascade classifier.
package facedet

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
)

// ErrModelNotLoaded is returned when detection runs without a cascade.
var ErrModelNotLoaded = errors.New("face detection model not loaded")

// Detector finds face bounding boxes in the coordinate space of the
// analyzed image.
type Detector interface {
	DetectFaces(img image.Image) ([]image.Rectangle, error)
}

// Options holds cascade detection parameters.
type Options struct {
	MinSize      int     // smallest face in pixels (on the detection-scaled image)
	ShiftFactor  float64 // detection window shift per step
	ScaleFactor  float64 // detection window growth per scale
	ClusterIoU   float64 // overlap threshold for merging raw detections
	MinScore     float32 // minimum classifier confidence
	MaxDimension int     // images larger than this are downscaled for detection
}

// DefaultOptions returns detection parameters suitable for portrait
// photos with one dominant face.
func DefaultOptions() Options {
	return Options{
		MinSize:      40,
		ShiftFactor:  0.1,
		ScaleFactor:  1.1,
		ClusterIoU:   0.2,
		MinScore:     5.0,
		MaxDimension: 1200,
	}
}

// Pigo is a Detector backed by the pigo cascade classifier.
type Pigo struct {
	classifier *pigo.Pigo
	opts       Options
}

// NewPigo loads a pigo cascade from file.
func NewPigo(cascadePath string, opts *Options) (*Pigo, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}
	return NewPigoFromBytes(data, opts)
}

// NewPigoFromBytes unpacks a pigo cascade from raw bytes.
func NewPigoFromBytes(cascade []byte, opts *Options) (*Pigo, error) {
	if opts == nil {
		def := DefaultOptions()
		opts = &def
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("%w: unpacking cascade: %v", ErrModelNotLoaded, err)
	}
	return &Pigo{classifier: classifier, opts: *opts}, nil
}

// DetectFaces runs the cascade over the image and returns the clustered
// face boxes in the coordinate space of img. Large images are downscaled
// for detection and the boxes are scaled back.
func (d *Pigo) DetectFaces(img image.Image) ([]image.Rectangle, error) {
	if d == nil || d.classifier == nil {
		return nil, ErrModelNotLoaded
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	if origW <= 0 || origH <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", origW, origH)
	}

	working := img
	scale := 1.0
	if longest := maxInt(origW, origH); longest > d.opts.MaxDimension {
		scale = float64(d.opts.MaxDimension) / float64(longest)
		working = imaging.Resize(img, int(float64(origW)*scale), int(float64(origH)*scale), imaging.Linear)
	}

	wb := working.Bounds()
	cols, rows := wb.Dx(), wb.Dy()
	pixels := pigo.RgbToGrayscale(working)

	params := pigo.CascadeParams{
		MinSize:     d.opts.MinSize,
		MaxSize:     minInt(cols, rows),
		ShiftFactor: d.opts.ShiftFactor,
		ScaleFactor: d.opts.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	detections := d.classifier.RunCascade(params, 0.0)
	detections = d.classifier.ClusterDetections(detections, d.opts.ClusterIoU)

	var faces []image.Rectangle
	for _, det := range detections {
		if det.Q < d.opts.MinScore {
			continue
		}
		half := float64(det.Scale) / 2
		x0 := int((float64(det.Col) - half) / scale)
		y0 := int((float64(det.Row) - half) / scale)
		x1 := int((float64(det.Col) + half) / scale)
		y1 := int((float64(det.Row) + half) / scale)
		face := image.Rect(x0, y0, x1, y1).Intersect(bounds)
		if !face.Empty() {
			faces = append(faces, face)
		}
	}

	return faces, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
