// Package matting separates the foreground subject from the background.
//
// A Segmenter produces a transparent raster: a copy of the source image
// whose alpha channel encodes per-pixel foreground confidence. The
// Adapter wraps a neural segmentation model behind the opaque Model
// handle; Heuristic is a model-free fallback with the same contract.
package matting

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

var (
	// ErrModelNotLoaded is returned when segmenting without a model.
	ErrModelNotLoaded = errors.New("matting model not loaded")
	// ErrSegmentationFailed wraps inference and postprocessing errors.
	ErrSegmentationFailed = errors.New("segmentation failed")
)

// Segmenter turns a source image into a same-size raster whose alpha
// channel is the foreground mask (0 = background, 255 = foreground).
type Segmenter interface {
	Segment(img image.Image) (*image.NRGBA, error)
}

// Model is the opaque inference handle for a segmentation network. It
// accepts a packed channel-first float32 buffer of the fixed input size
// and returns the primary output mask, one value per input pixel.
// Auxiliary outputs of multi-output architectures are not part of the
// contract.
type Model interface {
	Predict(input []float32) ([]float32, error)
}

// Spec describes the fixed input contract of a segmentation model. The
// normalization scheme is model configuration, not a free choice: it
// must match the weights that are plugged in.
type Spec struct {
	Name      string
	InputSize int
	Mean      [3]float32
	Std       [3]float32
}

// Known model input contracts.
var (
	// U2Net expects 320x320 inputs with ImageNet normalization.
	U2Net = Spec{
		Name:      "u2net",
		InputSize: 320,
		Mean:      [3]float32{0.485, 0.456, 0.406},
		Std:       [3]float32{0.229, 0.224, 0.225},
	}
	// MODNet expects 512x512 inputs normalized to [-1, 1].
	MODNet = Spec{
		Name:      "modnet",
		InputSize: 512,
		Mean:      [3]float32{0.5, 0.5, 0.5},
		Std:       [3]float32{0.5, 0.5, 0.5},
	}
)

// SpecByName looks up a model input contract by variant name.
func SpecByName(name string) (Spec, error) {
	for _, s := range []Spec{U2Net, MODNet} {
		if s.Name == name {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("unknown matting model variant: %s", name)
}

// Adapter runs a segmentation model over full-size images: it resizes
// and normalizes the input to the model's tensor layout, runs one
// forward pass, and composites the output mask back onto the source as
// its alpha channel.
type Adapter struct {
	model Model
	spec  Spec
}

// NewAdapter wraps a model handle with its input contract.
func NewAdapter(model Model, spec Spec) *Adapter {
	return &Adapter{model: model, spec: spec}
}

// Segment produces the transparent raster for img. It never partially
// succeeds: inference errors and malformed output tensors are reported
// as a single segmentation failure.
func (a *Adapter) Segment(img image.Image) (*image.NRGBA, error) {
	if a == nil || a.model == nil {
		return nil, ErrModelNotLoaded
	}

	out, err := a.model.Predict(a.preprocess(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSegmentationFailed, err)
	}

	s := a.spec.InputSize
	if len(out) < s*s {
		return nil, fmt.Errorf("%w: output tensor has %d values, want %d", ErrSegmentationFailed, len(out), s*s)
	}

	mask := maskImage(out[:s*s], s, s)
	b := img.Bounds()
	return ApplyMask(img, mask, b.Dx(), b.Dy()), nil
}

// preprocess resizes the source to the model's square input size and
// packs it into a normalized channel-first buffer.
func (a *Adapter) preprocess(img image.Image) []float32 {
	s := a.spec.InputSize
	resized := imaging.Resize(img, s, s, imaging.Lanczos)

	plane := s * s
	buf := make([]float32, 3*plane)
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			i := resized.PixOffset(x, y)
			pos := y*s + x
			buf[pos] = (float32(resized.Pix[i])/255 - a.spec.Mean[0]) / a.spec.Std[0]
			buf[plane+pos] = (float32(resized.Pix[i+1])/255 - a.spec.Mean[1]) / a.spec.Std[1]
			buf[2*plane+pos] = (float32(resized.Pix[i+2])/255 - a.spec.Mean[2]) / a.spec.Std[2]
		}
	}
	return buf
}

// maskImage converts raw model output into an 8-bit mask. Values are
// min-max normalized to [0,1] when the model's output is not already
// bounded there.
func maskImage(raw []float32, w, h int) *image.Gray {
	lo, hi := raw[0], raw[0]
	for _, v := range raw {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if lo >= 0 && hi <= 1 {
		for i, v := range raw {
			gray.Pix[i] = uint8(math.Round(float64(v) * 255))
		}
		return gray
	}

	scale := hi - lo
	if scale <= 0 {
		// Degenerate flat output: clamp the constant into [0,1].
		v := uint8(math.Round(float64(clamp01(lo)) * 255))
		for i := range gray.Pix {
			gray.Pix[i] = v
		}
		return gray
	}
	for i, v := range raw {
		gray.Pix[i] = uint8(math.Round(float64((v-lo)/scale) * 255))
	}
	return gray
}

// ApplyMask returns a copy of src whose alpha channel is replaced by the
// mask scaled to dstW x dstH with smooth interpolation. The original RGB
// values are kept and the existing alpha is discarded entirely
// (destination-in compositing). src is not mutated.
func ApplyMask(src image.Image, mask *image.Gray, dstW, dstH int) *image.NRGBA {
	resized := imaging.Resize(mask, dstW, dstH, imaging.Linear)
	out := imaging.Clone(src)

	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			// The resized mask is NRGBA with R=G=B; any channel works.
			out.Pix[out.PixOffset(x, y)+3] = resized.Pix[resized.PixOffset(x, y)]
		}
	}
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
