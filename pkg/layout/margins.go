package layout

import (
	"fmt"

	"github.com/menta2k/idphoto/pkg/dpi"
	"github.com/menta2k/idphoto/pkg/photo"
)

// Margins are explicit page margins in millimeters. When supplied, the
// layout is computed against the printable sub-rectangle and the output
// sheet is sized to the printable area only.
type Margins struct {
	TopMm    float64
	BottomMm float64
	LeftMm   float64
	RightMm  float64
}

// MarginError reports an invalid margin value.
type MarginError struct {
	Side        string
	ValueMm     float64
	DimensionMm float64
	Reason      string
}

func (e *MarginError) Error() string {
	return fmt.Sprintf("%s margin %gmm %s", e.Side, e.ValueMm, e.Reason)
}

// ValidateMargin checks a single margin value against the paper
// dimension it applies to.
func ValidateMargin(valueMm, dimensionMm float64) error {
	if valueMm < 0 {
		return &MarginError{ValueMm: valueMm, DimensionMm: dimensionMm, Reason: "cannot be negative"}
	}
	if valueMm > dimensionMm/2 {
		return &MarginError{ValueMm: valueMm, DimensionMm: dimensionMm,
			Reason: fmt.Sprintf("cannot exceed 50%% of the %gmm paper dimension", dimensionMm)}
	}
	return nil
}

// Validate checks all four margins against the paper dimensions.
func (m Margins) Validate(paper Paper) error {
	checks := []struct {
		side        string
		valueMm     float64
		dimensionMm float64
	}{
		{"top", m.TopMm, paper.HeightMm},
		{"bottom", m.BottomMm, paper.HeightMm},
		{"left", m.LeftMm, paper.WidthMm},
		{"right", m.RightMm, paper.WidthMm},
	}
	for _, c := range checks {
		if err := ValidateMargin(c.valueMm, c.dimensionMm); err != nil {
			e := err.(*MarginError)
			e.Side = c.side
			return e
		}
	}
	return nil
}

// PrintableArea returns the printable sub-rectangle dimensions in
// millimeters after subtracting the margins.
func (m Margins) PrintableArea(paper Paper) (widthMm, heightMm float64) {
	return paper.WidthMm - m.LeftMm - m.RightMm, paper.HeightMm - m.TopMm - m.BottomMm
}

// CanFitPhoto reports whether the photo size fits the printable area.
func CanFitPhoto(printableWidthMm, printableHeightMm float64, size photo.Size) bool {
	return size.WidthMm <= printableWidthMm && size.HeightMm <= printableHeightMm
}

// CalculateWithMargins computes a margin-constrained layout: the grid is
// packed into the printable sub-rectangle and the resulting sheet raster
// covers the printable area only, cropping the margins off the canvas.
func CalculateWithMargins(paper Paper, size photo.Size, resolution float64, margins Margins) (Plan, error) {
	if err := margins.Validate(paper); err != nil {
		return Plan{}, err
	}
	printableW, printableH := margins.PrintableArea(paper)
	if !CanFitPhoto(printableW, printableH, size) {
		return Plan{}, &FitError{PhotoWidthMm: size.WidthMm, PhotoHeightMm: size.HeightMm}
	}
	return calculate(dpi.ToPixelDimensions(printableW, printableH, resolution), size, resolution)
}
