// Package layout packs copies of an ID photo onto a print sheet.
//
// Packing is a greedy grid: photos keep their given orientation, rows
// and columns are computed independently, and the leftover span on each
// axis is distributed into equal gaps (or used to center a single
// photo).
package layout

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/idphoto/pkg/dpi"
	"github.com/menta2k/idphoto/pkg/photo"
)

// ReferenceDPI is the resolution the paper presets are defined at.
const ReferenceDPI = 300

// Minimum space between neighboring photos.
const minSpacingMm = 5

// Paper is an enumerated print sheet preset with pixel dimensions at the
// reference DPI.
type Paper struct {
	ID       string
	WidthMm  float64
	HeightMm float64
	WidthPx  int
	HeightPx int
}

// String returns a human-readable description of the paper.
func (p Paper) String() string {
	return fmt.Sprintf("%s (%gx%gmm, %dx%dpx @%d DPI)", p.ID, p.WidthMm, p.HeightMm, p.WidthPx, p.HeightPx, ReferenceDPI)
}

// Supported paper presets.
var (
	SixInch = Paper{ID: "6-inch", WidthMm: 152.4, HeightMm: 101.6, WidthPx: 1800, HeightPx: 1200}
	A4      = Paper{ID: "a4", WidthMm: 210, HeightMm: 297, WidthPx: 2480, HeightPx: 3508}
)

// Papers returns all paper presets.
func Papers() []Paper {
	return []Paper{SixInch, A4}
}

// PaperByID looks up a paper preset by its identifier.
func PaperByID(id string) (Paper, error) {
	for _, p := range Papers() {
		if p.ID == id {
			return p, nil
		}
	}
	return Paper{}, fmt.Errorf("unknown paper preset: %s", id)
}

// Plan is a computed sheet layout. It is derived from its inputs and
// recomputed whenever they change, never persisted.
type Plan struct {
	PhotosPerRow        int
	PhotosPerColumn     int
	PhotoWidthPx        int
	PhotoHeightPx       int
	HorizontalSpacingPx int
	VerticalSpacingPx   int
	MarginLeftPx        int
	MarginTopPx         int
	SheetWidthPx        int
	SheetHeightPx       int
}

// TotalPhotos returns the number of photo instances on the sheet.
func (p Plan) TotalPhotos() int {
	return p.PhotosPerRow * p.PhotosPerColumn
}

// FitError reports a photo size that cannot fit the printable area.
type FitError struct {
	PhotoWidthMm  float64
	PhotoHeightMm float64
}

func (e *FitError) Error() string {
	return fmt.Sprintf("a %gx%gmm photo does not fit the printable area: reduce the margins or choose a smaller photo size",
		e.PhotoWidthMm, e.PhotoHeightMm)
}

// Calculate computes the sheet layout for a photo size on a full paper
// sheet at the given resolution. Paper pixel bounds are recomputed when
// the resolution differs from the preset's reference DPI.
func Calculate(paper Paper, size photo.Size, resolution float64) (Plan, error) {
	return calculate(paperPixels(paper, resolution), size, resolution)
}

func paperPixels(paper Paper, resolution float64) dpi.PixelDimensions {
	if resolution == ReferenceDPI {
		return dpi.PixelDimensions{WidthPx: paper.WidthPx, HeightPx: paper.HeightPx}
	}
	return dpi.ToPixelDimensions(paper.WidthMm, paper.HeightMm, resolution)
}

func calculate(sheet dpi.PixelDimensions, size photo.Size, resolution float64) (Plan, error) {
	px := dpi.ToPixelDimensions(size.WidthMm, size.HeightMm, resolution)
	if px.WidthPx > sheet.WidthPx || px.HeightPx > sheet.HeightPx {
		return Plan{}, &FitError{PhotoWidthMm: size.WidthMm, PhotoHeightMm: size.HeightMm}
	}

	spacing := dpi.ToPixelDimensions(minSpacingMm, minSpacingMm, resolution).WidthPx

	perRow := sheet.WidthPx / (px.WidthPx + spacing)
	if perRow < 1 {
		perRow = 1
	}
	perColumn := sheet.HeightPx / (px.HeightPx + spacing)
	if perColumn < 1 {
		perColumn = 1
	}

	plan := Plan{
		PhotosPerRow:    perRow,
		PhotosPerColumn: perColumn,
		PhotoWidthPx:    px.WidthPx,
		PhotoHeightPx:   px.HeightPx,
		SheetWidthPx:    sheet.WidthPx,
		SheetHeightPx:   sheet.HeightPx,
	}
	plan.MarginLeftPx, plan.HorizontalSpacingPx = distribute(sheet.WidthPx, px.WidthPx, perRow)
	plan.MarginTopPx, plan.VerticalSpacingPx = distribute(sheet.HeightPx, px.HeightPx, perColumn)
	return plan, nil
}

// distribute splits the leftover span into n+1 equal gaps around n
// items; a single item is centered instead.
func distribute(span, item, n int) (margin, gap int) {
	if n <= 1 {
		return (span - item) / 2, 0
	}
	g := (span - n*item) / (n + 1)
	return g, g
}

// Render draws the photo instances onto a white sheet raster
// left-to-right, top-to-bottom at the planned positions.
func Render(photoImg image.Image, plan Plan) *image.NRGBA {
	sheet := imaging.New(plan.SheetWidthPx, plan.SheetHeightPx, color.White)
	for row := 0; row < plan.PhotosPerColumn; row++ {
		y := plan.MarginTopPx + row*(plan.PhotoHeightPx+plan.VerticalSpacingPx)
		for col := 0; col < plan.PhotosPerRow; col++ {
			x := plan.MarginLeftPx + col*(plan.PhotoWidthPx+plan.HorizontalSpacingPx)
			sheet = imaging.Paste(sheet, photoImg, image.Pt(x, y))
		}
	}
	return sheet
}
