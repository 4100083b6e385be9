package matting

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// HeuristicConfig tunes the model-free segmenter.
type HeuristicConfig struct {
	CenterWeight   float64 // weight of the distance-from-center term
	VarianceWeight float64 // weight of the local color-variance term
	SoftLow        float64 // scores below this become fully transparent
	SoftHigh       float64 // scores above this become fully opaque
	WorkSize       int     // internal processing width
}

// DefaultHeuristicConfig returns weights tuned for centered portraits.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		CenterWeight:   0.55,
		VarianceWeight: 0.45,
		SoftLow:        0.3,
		SoftHigh:       0.6,
		WorkSize:       256,
	}
}

// Heuristic is a model-free Segmenter for degraded environments. The
// foreground score blends distance from the image center with local
// color variance, soft-thresholded into an alpha mask. It satisfies the
// transparent-raster contract, not any segmentation quality bar.
type Heuristic struct {
	config HeuristicConfig
}

// NewHeuristic creates a heuristic segmenter with default weights.
func NewHeuristic() *Heuristic {
	return &Heuristic{config: DefaultHeuristicConfig()}
}

// NewHeuristicWithConfig creates a heuristic segmenter with custom weights.
func NewHeuristicWithConfig(config HeuristicConfig) *Heuristic {
	return &Heuristic{config: config}
}

// Segment produces a transparent raster without any model inference.
func (h *Heuristic) Segment(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: invalid image dimensions %dx%d", ErrSegmentationFailed, srcW, srcH)
	}

	working := img
	if srcW > h.config.WorkSize {
		working = imaging.Resize(img, h.config.WorkSize, 0, imaging.Linear)
	}
	nrgba := imaging.Clone(working)
	wb := nrgba.Bounds()
	w, hgt := wb.Dx(), wb.Dy()

	lum := luminance(nrgba, w, hgt)
	scores := make([]float64, w*hgt)

	cx, cy := float64(w)/2, float64(hgt)/2
	maxDist := math.Hypot(cx, cy)

	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			variance := localVariance(lum, x, y, w, hgt)
			s := h.config.CenterWeight*(1-dist) + h.config.VarianceWeight*variance
			scores[y*w+x] = s
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
	}

	mask := image.NewGray(image.Rect(0, 0, w, hgt))
	span := hi - lo
	for i, s := range scores {
		if span > 0 {
			s = (s - lo) / span
		}
		mask.Pix[i] = uint8(math.Round(softstep(s, h.config.SoftLow, h.config.SoftHigh) * 255))
	}

	return ApplyMask(img, mask, srcW, srcH), nil
}

// luminance extracts a per-pixel brightness plane in [0,1].
func luminance(img *image.NRGBA, w, h int) []float64 {
	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			r := float64(img.Pix[i])
			g := float64(img.Pix[i+1])
			b := float64(img.Pix[i+2])
			lum[y*w+x] = (0.299*r + 0.587*g + 0.114*b) / 255
		}
	}
	return lum
}

// localVariance measures brightness spread over the 3x3 neighborhood.
func localVariance(lum []float64, x, y, w, h int) float64 {
	var sum, sumSq float64
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			v := lum[ny*w+nx]
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	// Scale so typical portrait edges reach the top of the range.
	return math.Min(1, math.Sqrt(variance)*4)
}

// softstep maps s through a smooth ramp: 0 below lo, 1 above hi.
func softstep(s, lo, hi float64) float64 {
	if s <= lo {
		return 0
	}
	if s >= hi {
		return 1
	}
	t := (s - lo) / (hi - lo)
	return t * t * (3 - 2*t)
}
