// Package dpi converts between physical print sizes, resolution and
// pixel counts, and validates print-quality requirements.
package dpi

import (
	"fmt"
	"math"
)

const mmPerInch = 25.4

// PixelDimensions is a pixel size derived from a physical size and a DPI
// value. It is always computed on demand, never stored.
type PixelDimensions struct {
	WidthPx  int
	HeightPx int
}

// ToPixelDimensions converts a physical size in millimeters to pixels at
// the given resolution. Each axis rounds independently; the height is
// never derived from a scaled width. Non-positive inputs are the
// caller's responsibility.
func ToPixelDimensions(widthMm, heightMm, dpi float64) PixelDimensions {
	return PixelDimensions{
		WidthPx:  int(math.Round(widthMm / mmPerInch * dpi)),
		HeightPx: int(math.Round(heightMm / mmPerInch * dpi)),
	}
}

// Achieved is the resolution a pixel raster reaches when printed at a
// physical size. The limiting axis determines print quality.
type Achieved struct {
	WidthDPI  float64
	HeightDPI float64
	MinDPI    float64
}

// ComputeAchieved returns the per-axis and minimum DPI of a raster
// printed at the given physical size.
func ComputeAchieved(widthPx, heightPx int, widthMm, heightMm float64) Achieved {
	a := Achieved{
		WidthDPI:  float64(widthPx) / widthMm * mmPerInch,
		HeightDPI: float64(heightPx) / heightMm * mmPerInch,
	}
	a.MinDPI = math.Min(a.WidthDPI, a.HeightDPI)
	return a
}

// QualityError reports a missed print-resolution requirement.
type QualityError struct {
	Required float64
	Achieved float64
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("achieved resolution %.0f DPI is below the required %.0f DPI: use a higher-resolution source image or relax the DPI requirement",
		e.Achieved, e.Required)
}

// CheckPrintQuality verifies that a raster of the given pixel size
// reaches the required DPI when printed at the given physical size.
// A required value <= 0 disables the check.
func CheckPrintQuality(widthPx, heightPx int, widthMm, heightMm, required float64) error {
	if required <= 0 {
		return nil
	}
	achieved := ComputeAchieved(widthPx, heightPx, widthMm, heightMm)
	if achieved.MinDPI < required {
		return &QualityError{Required: required, Achieved: achieved.MinDPI}
	}
	return nil
}
