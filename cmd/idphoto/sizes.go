package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menta2k/idphoto/pkg/dpi"
	"github.com/menta2k/idphoto/pkg/layout"
	"github.com/menta2k/idphoto/pkg/photo"
)

var sizesCmd = &cobra.Command{
	Use:   "sizes",
	Short: "List the supported photo sizes and paper presets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Photo sizes:")
		for _, s := range photo.Sizes() {
			px := dpi.ToPixelDimensions(s.WidthMm, s.HeightMm, layout.ReferenceDPI)
			fmt.Printf("  %-14s %gx%gmm  (%dx%dpx @%d DPI)\n",
				s.ID, s.WidthMm, s.HeightMm, px.WidthPx, px.HeightPx, layout.ReferenceDPI)
		}

		fmt.Println("\nPaper presets:")
		for _, p := range layout.Papers() {
			fmt.Printf("  %-14s %gx%gmm  (%dx%dpx @%d DPI)\n",
				p.ID, p.WidthMm, p.HeightMm, p.WidthPx, p.HeightPx, layout.ReferenceDPI)
		}
	},
}

func init() {
	rootCmd.AddCommand(sizesCmd)
}
