// Package photo defines the catalog of printable ID photo sizes.
//
// Sizes are enumerated constants: the pipeline never accepts arbitrary
// physical dimensions, only entries from this catalog.
package photo

import "fmt"

// Size describes the physical dimensions of a printed photo in millimeters.
type Size struct {
	ID       string  `json:"id"`
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
}

// AspectRatio returns the width/height ratio of the printed photo.
func (s Size) AspectRatio() float64 {
	return s.WidthMm / s.HeightMm
}

// String returns a human-readable description of the size.
func (s Size) String() string {
	return fmt.Sprintf("%s (%gx%gmm)", s.ID, s.WidthMm, s.HeightMm)
}

// Catalog of supported print sizes.
var (
	OneInch      = Size{ID: "1-inch", WidthMm: 25, HeightMm: 35}
	SmallOneInch = Size{ID: "small-1-inch", WidthMm: 22, HeightMm: 32}
	LargeOneInch = Size{ID: "large-1-inch", WidthMm: 33, HeightMm: 48}
	TwoInch      = Size{ID: "2-inch", WidthMm: 35, HeightMm: 49}
	SmallTwoInch = Size{ID: "small-2-inch", WidthMm: 35, HeightMm: 45}
	LargeTwoInch = Size{ID: "large-2-inch", WidthMm: 35, HeightMm: 53}
)

// Sizes returns all catalog entries in display order.
func Sizes() []Size {
	return []Size{OneInch, SmallOneInch, LargeOneInch, TwoInch, SmallTwoInch, LargeTwoInch}
}

// SizeByID looks up a catalog entry by its identifier.
func SizeByID(id string) (Size, error) {
	for _, s := range Sizes() {
		if s.ID == id {
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("unknown photo size: %s", id)
}
