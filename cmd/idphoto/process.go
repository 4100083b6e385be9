package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/menta2k/idphoto"
	"github.com/menta2k/idphoto/internal/config"
	"github.com/menta2k/idphoto/internal/utils"
	"github.com/menta2k/idphoto/pkg/facedet"
	"github.com/menta2k/idphoto/pkg/imageio"
	"github.com/menta2k/idphoto/pkg/layout"
	"github.com/menta2k/idphoto/pkg/matting"
	"github.com/menta2k/idphoto/pkg/photo"
)

// processOptions holds the flags of the process command.
type processOptions struct {
	Input      string
	OutputDir  string
	SizeID     string
	DPI        float64
	RequireDPI float64
	Background string
	Paper      string
	Margins    string
	Cascade    string
	Matting    string
}

var processOpts processOptions

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a portrait photo into a print-ready ID photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(processOpts)
	},
}

func init() {
	cfg := config.LoadOrDefault()

	processCmd.Flags().StringVarP(&processOpts.Input, "input", "i", "", "Input portrait photo (jpg/png/webp)")
	processCmd.Flags().StringVarP(&processOpts.OutputDir, "out", "o", cfg.Output.Dir, "Output directory")
	processCmd.Flags().StringVarP(&processOpts.SizeID, "size", "s", cfg.Photo.SizeID, "Photo size id (see 'idphoto sizes')")
	processCmd.Flags().Float64Var(&processOpts.DPI, "dpi", cfg.Photo.DPI, "Print resolution in DPI")
	processCmd.Flags().Float64Var(&processOpts.RequireDPI, "require-dpi", cfg.Photo.RequiredDPI, "Minimum acceptable DPI (0 disables the check)")
	processCmd.Flags().StringVarP(&processOpts.Background, "background", "b", cfg.Photo.Background, "Background color (#rrggbb or rgb(r,g,b))")
	processCmd.Flags().StringVarP(&processOpts.Paper, "paper", "p", cfg.Photo.Paper, "Print sheet preset (6-inch or a4); empty skips the sheet")
	processCmd.Flags().StringVar(&processOpts.Margins, "margins", "", "Page margins in mm as top,bottom,left,right")
	processCmd.Flags().StringVar(&processOpts.Cascade, "cascade", cfg.Face.CascadePath, "Path to the pigo face cascade file")
	processCmd.Flags().StringVar(&processOpts.Matting, "matting", cfg.Matting.Variant, "Segmentation variant: heuristic, u2net or modnet")

	processCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(processCmd)
}

func runProcess(opts processOptions) error {
	size, err := photo.SizeByID(opts.SizeID)
	if err != nil {
		return err
	}

	pipelineOpts := idphoto.Options{
		Size:        size,
		DPI:         opts.DPI,
		RequiredDPI: opts.RequireDPI,
		Background:  opts.Background,
	}

	if opts.Paper != "" {
		paper, err := layout.PaperByID(opts.Paper)
		if err != nil {
			return err
		}
		pipelineOpts.Paper = &paper
	}

	if opts.Margins != "" {
		margins, err := parseMargins(opts.Margins)
		if err != nil {
			return err
		}
		pipelineOpts.Margins = margins
	}

	detector, err := facedet.NewPigo(opts.Cascade, nil)
	if err != nil {
		return err
	}

	segmenter, err := newSegmenter(opts.Matting)
	if err != nil {
		return err
	}

	// Remember the selected variant across sessions.
	persistVariant(opts.Matting)

	img, err := imageio.Load(opts.Input)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(opts.OutputDir); err != nil {
		return err
	}

	pipeline := idphoto.New(detector, segmenter)
	run, err := pipeline.Process(img, pipelineOpts)
	if err != nil {
		return err
	}
	for _, w := range run.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	now := time.Now()
	data, err := run.EncodePhoto()
	if err != nil {
		return err
	}
	photoPath := utils.OutputFilename(opts.Input, opts.OutputDir, size.ID, int(opts.DPI), now)
	if err := os.WriteFile(photoPath, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", photoPath)

	if run.Sheet != nil {
		data, err := run.EncodeSheet()
		if err != nil {
			return err
		}
		sheetPath := utils.SheetFilename(opts.Input, opts.OutputDir, opts.Paper, size.ID, int(opts.DPI), now)
		if err := os.WriteFile(sheetPath, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d photos per sheet)\n", sheetPath, run.Plan.TotalPhotos())
	}

	return nil
}

// newSegmenter builds the segmenter for a variant name. Model-backed
// variants need an inference runtime wired in by the embedding
// application; the CLI ships with the heuristic fallback.
func newSegmenter(variant string) (matting.Segmenter, error) {
	switch variant {
	case "heuristic":
		return matting.NewHeuristic(), nil
	case "u2net", "modnet":
		return nil, fmt.Errorf("matting variant %q requires an inference runtime; use the library API to supply a model", variant)
	default:
		return nil, fmt.Errorf("unknown matting variant: %s", variant)
	}
}

func persistVariant(variant string) {
	cfg := config.LoadOrDefault()
	if cfg.Matting.Variant == variant {
		return
	}
	cfg.Matting.Variant = variant
	// A failure to persist the preference never blocks processing.
	_ = cfg.SaveToFile(config.GetConfigPath())
}

// parseMargins parses "top,bottom,left,right" millimeter values.
func parseMargins(s string) (*layout.Margins, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("margins must be top,bottom,left,right in mm, got %q", s)
	}
	values := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid margin value %q: %v", p, err)
		}
		values[i] = v
	}
	return &layout.Margins{TopMm: values[0], BottomMm: values[1], LeftMm: values[2], RightMm: values[3]}, nil
}
