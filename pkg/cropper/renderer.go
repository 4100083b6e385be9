package cropper

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/idphoto/pkg/dpi"
	"github.com/menta2k/idphoto/pkg/photo"
)

// Render draws the crop area of src scaled to the exact pixel dimensions
// the photo size requires at the given resolution. Scaling works in both
// directions with Lanczos resampling. The output dimensions are exact:
// downstream print-metadata embedding relies on them reproducing the
// physical size at the stated DPI.
func Render(src image.Image, area Rect, size photo.Size, resolution float64) (*image.NRGBA, error) {
	target := dpi.ToPixelDimensions(size.WidthMm, size.HeightMm, resolution)
	if target.WidthPx <= 0 || target.HeightPx <= 0 {
		return nil, fmt.Errorf("invalid target dimensions %dx%d for %s at %g DPI",
			target.WidthPx, target.HeightPx, size.ID, resolution)
	}

	rect := area.Bounds().Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("empty crop rectangle")
	}

	cropped := imaging.Crop(src, rect)
	return imaging.Resize(cropped, target.WidthPx, target.HeightPx, imaging.Lanczos), nil
}
