// Package compose paints solid background colors behind transparent
// rasters.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a solid background color from a "#rgb" or "#rrggbb"
// hex string or an "rgb(r, g, b)" string.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	}

	if lower := strings.ToLower(s); strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		body := strings.ReplaceAll(s[4:len(s)-1], " ", "")
		var r, g, b int
		if _, err := fmt.Sscanf(body, "%d,%d,%d", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %v", s, err)
		}
		for _, v := range []int{r, g, b} {
			if v < 0 || v > 255 {
				return color.NRGBA{}, fmt.Errorf("invalid color %q: channel %d out of range", s, v)
			}
		}
		return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
	}

	return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
}

// Over returns a new raster of the same pixel dimensions as src, filled
// with the background color and with src drawn on top using standard
// alpha-over compositing. src is never mutated, so one transparent
// raster can be composited with any number of background colors.
func Over(src image.Image, background color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := imaging.New(b.Dx(), b.Dy(), background)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
