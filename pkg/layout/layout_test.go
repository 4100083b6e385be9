package layout

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/menta2k/idphoto/pkg/photo"
)

func TestPaperByID(t *testing.T) {
	p, err := PaperByID("6-inch")
	if err != nil {
		t.Fatalf("PaperByID(6-inch) failed: %v", err)
	}
	if p.WidthPx != 1800 || p.HeightPx != 1200 {
		t.Errorf("6-inch = %dx%dpx, want 1800x1200", p.WidthPx, p.HeightPx)
	}

	if _, err := PaperByID("letter"); err == nil {
		t.Error("expected error for unknown paper id")
	}
}

func TestCalculateSixInchOneInch(t *testing.T) {
	plan, err := Calculate(SixInch, photo.OneInch, 300)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if plan.PhotosPerRow != 5 || plan.PhotosPerColumn != 2 {
		t.Errorf("grid = %dx%d, want 5x2", plan.PhotosPerRow, plan.PhotosPerColumn)
	}
	if plan.TotalPhotos() != 10 {
		t.Errorf("TotalPhotos = %d, want 10", plan.TotalPhotos())
	}
	if plan.PhotoWidthPx != 295 || plan.PhotoHeightPx != 413 {
		t.Errorf("photo = %dx%dpx, want 295x413", plan.PhotoWidthPx, plan.PhotoHeightPx)
	}
	if plan.HorizontalSpacingPx != 54 || plan.MarginLeftPx != 54 {
		t.Errorf("horizontal margin/gap = %d/%d, want 54/54", plan.MarginLeftPx, plan.HorizontalSpacingPx)
	}
	if plan.VerticalSpacingPx != 124 || plan.MarginTopPx != 124 {
		t.Errorf("vertical margin/gap = %d/%d, want 124/124", plan.MarginTopPx, plan.VerticalSpacingPx)
	}
	if plan.SheetWidthPx != 1800 || plan.SheetHeightPx != 1200 {
		t.Errorf("sheet = %dx%dpx, want 1800x1200", plan.SheetWidthPx, plan.SheetHeightPx)
	}

	// Last photo ends inside the sheet.
	lastRight := plan.MarginLeftPx + 5*plan.PhotoWidthPx + 4*plan.HorizontalSpacingPx
	if lastRight > plan.SheetWidthPx {
		t.Errorf("row overflows the sheet: %d > %d", lastRight, plan.SheetWidthPx)
	}
}

func TestCalculateSingleColumnCentered(t *testing.T) {
	// large-2-inch fits only one row on 6-inch paper; the row is centered.
	plan, err := Calculate(SixInch, photo.LargeTwoInch, 300)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if plan.PhotosPerColumn != 1 {
		t.Fatalf("PhotosPerColumn = %d, want 1", plan.PhotosPerColumn)
	}
	if plan.VerticalSpacingPx != 0 {
		t.Errorf("VerticalSpacingPx = %d, want 0 for a single row", plan.VerticalSpacingPx)
	}
	wantMargin := (plan.SheetHeightPx - plan.PhotoHeightPx) / 2
	if plan.MarginTopPx != wantMargin {
		t.Errorf("MarginTopPx = %d, want centered %d", plan.MarginTopPx, wantMargin)
	}
}

func TestCalculateRecomputesAtOtherDPI(t *testing.T) {
	plan, err := Calculate(SixInch, photo.OneInch, 150)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if plan.SheetWidthPx != 900 || plan.SheetHeightPx != 600 {
		t.Errorf("sheet = %dx%dpx, want 900x600 at 150 DPI", plan.SheetWidthPx, plan.SheetHeightPx)
	}
	if plan.PhotoWidthPx != 148 || plan.PhotoHeightPx != 207 {
		t.Errorf("photo = %dx%dpx, want 148x207", plan.PhotoWidthPx, plan.PhotoHeightPx)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	a, err := Calculate(A4, photo.TwoInch, 300)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	b, err := Calculate(A4, photo.TwoInch, 300)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different plans")
	}
}

func TestRender(t *testing.T) {
	plan, err := Calculate(SixInch, photo.OneInch, 300)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	red := color.NRGBA{200, 30, 30, 255}
	photoImg := image.NewNRGBA(image.Rect(0, 0, plan.PhotoWidthPx, plan.PhotoHeightPx))
	for i := 0; i < len(photoImg.Pix); i += 4 {
		photoImg.Pix[i], photoImg.Pix[i+1], photoImg.Pix[i+2], photoImg.Pix[i+3] = red.R, red.G, red.B, red.A
	}

	sheet := Render(photoImg, plan)
	if sheet.Bounds().Dx() != plan.SheetWidthPx || sheet.Bounds().Dy() != plan.SheetHeightPx {
		t.Fatalf("sheet = %dx%d, want %dx%d",
			sheet.Bounds().Dx(), sheet.Bounds().Dy(), plan.SheetWidthPx, plan.SheetHeightPx)
	}

	// Margin pixel is white, first photo pixel is the photo color.
	if got := sheet.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("margin pixel = %v, want white", got)
	}
	if got := sheet.NRGBAAt(plan.MarginLeftPx+1, plan.MarginTopPx+1); got != red {
		t.Errorf("photo pixel = %v, want %v", got, red)
	}

	// Last photo in the grid is painted too.
	lastX := plan.MarginLeftPx + (plan.PhotosPerRow-1)*(plan.PhotoWidthPx+plan.HorizontalSpacingPx)
	lastY := plan.MarginTopPx + (plan.PhotosPerColumn-1)*(plan.PhotoHeightPx+plan.VerticalSpacingPx)
	if got := sheet.NRGBAAt(lastX+1, lastY+1); got != red {
		t.Errorf("last photo pixel = %v, want %v", got, red)
	}
}

func BenchmarkCalculate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Calculate(A4, photo.OneInch, 300); err != nil {
			b.Fatal(err)
		}
	}
}

func TestValidateMargin(t *testing.T) {
	if err := ValidateMargin(10, 100); err != nil {
		t.Errorf("ValidateMargin(10, 100) = %v, want nil", err)
	}
	// Exactly 50% is still allowed.
	if err := ValidateMargin(50, 100); err != nil {
		t.Errorf("ValidateMargin(50, 100) = %v, want nil", err)
	}
	if err := ValidateMargin(50.1, 100); err == nil {
		t.Error("expected error above 50% of the dimension")
	}
	if err := ValidateMargin(-1, 100); err == nil {
		t.Error("expected error for a negative margin")
	}
}

func TestMarginsValidateNamesSide(t *testing.T) {
	err := Margins{TopMm: -1}.Validate(SixInch)
	if err == nil {
		t.Fatal("expected error for negative top margin")
	}
	var me *MarginError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MarginError, got %T", err)
	}
	if me.Side != "top" {
		t.Errorf("Side = %q, want top", me.Side)
	}

	err = Margins{RightMm: 200}.Validate(SixInch)
	if err == nil {
		t.Fatal("expected error for oversized right margin")
	}
	if errors.As(err, &me); me.Side != "right" {
		t.Errorf("Side = %q, want right", me.Side)
	}
}

func TestPrintableArea(t *testing.T) {
	m := Margins{TopMm: 10, BottomMm: 10, LeftMm: 5, RightMm: 5}
	w, h := m.PrintableArea(SixInch)
	if w != 142.4 || h != 81.6 {
		t.Errorf("printable area = %gx%gmm, want 142.4x81.6", w, h)
	}
}

func TestCalculateWithMargins(t *testing.T) {
	m := Margins{TopMm: 10, BottomMm: 10, LeftMm: 10, RightMm: 10}
	plan, err := CalculateWithMargins(SixInch, photo.OneInch, 300, m)
	if err != nil {
		t.Fatalf("CalculateWithMargins failed: %v", err)
	}

	// The sheet covers the printable area only: 132.4x81.6mm at 300 DPI.
	if plan.SheetWidthPx != 1564 || plan.SheetHeightPx != 964 {
		t.Errorf("sheet = %dx%dpx, want 1564x964", plan.SheetWidthPx, plan.SheetHeightPx)
	}
	if plan.PhotosPerRow != 4 || plan.PhotosPerColumn != 2 {
		t.Errorf("grid = %dx%d, want 4x2", plan.PhotosPerRow, plan.PhotosPerColumn)
	}
}

func TestCalculateWithMarginsPhotoTooLarge(t *testing.T) {
	// Maximum legal margins shrink 6-inch paper below the large-2-inch
	// photo height.
	m := Margins{TopMm: 25.4, BottomMm: 25.4}
	_, err := CalculateWithMargins(SixInch, photo.LargeTwoInch, 300, m)
	if err == nil {
		t.Fatal("expected fit error")
	}
	var fe *FitError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FitError, got %T: %v", err, err)
	}
	if fe.PhotoWidthMm != 35 || fe.PhotoHeightMm != 53 {
		t.Errorf("FitError reports %gx%gmm, want 35x53", fe.PhotoWidthMm, fe.PhotoHeightMm)
	}
}

func TestCalculateWithMarginsInvalidMargin(t *testing.T) {
	m := Margins{LeftMm: 100}
	_, err := CalculateWithMargins(SixInch, photo.OneInch, 300, m)
	var me *MarginError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MarginError, got %T: %v", err, err)
	}
}

func TestCanFitPhoto(t *testing.T) {
	if !CanFitPhoto(50, 60, photo.OneInch) {
		t.Error("25x35mm should fit 50x60mm")
	}
	if CanFitPhoto(20, 60, photo.OneInch) {
		t.Error("25x35mm should not fit 20x60mm")
	}
}
