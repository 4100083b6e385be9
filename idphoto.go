// Package idphoto turns a user-supplied portrait photo into a
// print-ready ID photo.
//
// The pipeline detects a single face, plans a face-anchored crop at the
// target print size's aspect ratio, validates the achievable print
// resolution, removes the background with a segmentation model, renders
// the crop to DPI-exact pixel dimensions, composites a solid background
// color, and optionally packs copies onto a print sheet.
//
// Basic usage:
//
//	detector, err := facedet.NewPigo("facefinder", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pipeline := idphoto.New(detector, matting.NewHeuristic())
//
//	img, err := imageio.Load("portrait.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	run, err := pipeline.Process(img, idphoto.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	data, err := run.EncodePhoto()
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("idphoto.png", data, 0o644)
//
// Segmentation is by far the most expensive step, so its result survives
// across cosmetic setting changes: Run.Rerender re-applies a new
// background color, print size, DPI or paper preset without re-running
// detection or segmentation.
package idphoto

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/idphoto/pkg/compose"
	"github.com/menta2k/idphoto/pkg/cropper"
	"github.com/menta2k/idphoto/pkg/dpi"
	"github.com/menta2k/idphoto/pkg/facedet"
	"github.com/menta2k/idphoto/pkg/imageio"
	"github.com/menta2k/idphoto/pkg/layout"
	"github.com/menta2k/idphoto/pkg/matting"
	"github.com/menta2k/idphoto/pkg/photo"
	"github.com/menta2k/idphoto/pkg/pngdpi"
)

var log = logrus.StandardLogger()

// Images above this pixel count trigger a non-fatal warning; actual
// pre-scaling is the caller's responsibility.
const largeImagePixels = 24 << 20

// State identifies the pipeline step a run is in.
type State string

// Pipeline states. Transitions are strictly sequential; Errored is an
// absorbing state reachable from every step.
const (
	StateIdle          State = "idle"
	StateValidating    State = "validating"
	StateDetectingFace State = "detecting-face"
	StateCheckingDPI   State = "checking-dpi"
	StateSegmenting    State = "segmenting"
	StateCropping      State = "cropping"
	StateCompositing   State = "compositing"
	StateLayingOut     State = "laying-out-print"
	StateDone          State = "done"
	StateErrored       State = "errored"
)

// Code tags an error with its failure category.
type Code string

// Error taxonomy. All errors are terminal: the pipeline stops at the
// first failure and surfaces it unchanged.
const (
	CodeValidation    Code = "validation"
	CodeFaceDetection Code = "face-detection"
	CodeDPI           Code = "dpi"
	CodeSegmentation  Code = "segmentation"
	CodeLayout        Code = "layout"
	CodeMetadata      Code = "metadata"
)

// Face detection outcomes that terminate a run.
var (
	ErrNoFaceDetected        = errors.New("no face detected")
	ErrMultipleFacesDetected = errors.New("multiple faces detected")
)

// Error is a tagged step failure.
type Error struct {
	Code Code
	Step State
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options control one pipeline run. The zero RequiredDPI disables the
// print-quality check.
type Options struct {
	Size        photo.Size
	DPI         float64
	RequiredDPI float64
	Background  string
	Paper       *layout.Paper   // nil skips the print-layout step
	Margins     *layout.Margins // optional page margins for the sheet
}

// DefaultOptions returns the standard 1-inch, 300 DPI, white-background
// configuration.
func DefaultOptions() Options {
	return Options{
		Size:        photo.OneInch,
		DPI:         300,
		RequiredDPI: 300,
		Background:  "#FFFFFF",
	}
}

// Pipeline sequences the processing steps over a detector and a
// segmenter. It assumes at most one active run at a time; callers
// prevent concurrent invocation.
type Pipeline struct {
	detector  facedet.Detector
	segmenter matting.Segmenter
}

// New creates a pipeline from a face detector and a segmenter.
func New(detector facedet.Detector, segmenter matting.Segmenter) *Pipeline {
	return &Pipeline{detector: detector, segmenter: segmenter}
}

// Run holds the state of one processed upload. The transparent raster
// and the face box survive setting changes so those can be re-applied
// without re-running detection or segmentation; only a re-upload (a new
// Process call) invalidates them.
type Run struct {
	state    State
	opts     Options
	warnings []string

	imgWidth  int
	imgHeight int
	face      image.Rectangle
	crop      cropper.Rect
	cutout    *image.NRGBA

	// Photo is the finished ID photo; Sheet and Plan are set when a
	// paper preset is selected.
	Photo *image.NRGBA
	Sheet *image.NRGBA
	Plan  *layout.Plan
}

// Process runs the full pipeline over a freshly uploaded image.
func (p *Pipeline) Process(img image.Image, opts Options) (*Run, error) {
	run := &Run{state: StateIdle, opts: opts}

	run.setState(StateValidating)
	if img == nil {
		return run, run.fail(CodeValidation, errors.New("no image supplied"))
	}
	bounds := img.Bounds()
	run.imgWidth, run.imgHeight = bounds.Dx(), bounds.Dy()
	if run.imgWidth <= 0 || run.imgHeight <= 0 {
		return run, run.fail(CodeValidation, fmt.Errorf("invalid image dimensions %dx%d", run.imgWidth, run.imgHeight))
	}
	if run.imgWidth*run.imgHeight > largeImagePixels {
		run.warn(fmt.Sprintf("large image (%dx%d): processing may be slow, consider pre-scaling", run.imgWidth, run.imgHeight))
	}

	run.setState(StateDetectingFace)
	faces, err := p.detector.DetectFaces(img)
	if err != nil {
		return run, run.fail(CodeFaceDetection, err)
	}
	switch len(faces) {
	case 0:
		return run, run.fail(CodeFaceDetection, ErrNoFaceDetected)
	case 1:
		run.face = faces[0]
	default:
		return run, run.fail(CodeFaceDetection, fmt.Errorf("%w: found %d", ErrMultipleFacesDetected, len(faces)))
	}
	log.Debugf("idphoto: face box %v", run.face)

	// The crop is planned before segmentation so a too-small source
	// fails fast, without wasting the expensive inference call.
	run.setState(StateCheckingDPI)
	run.crop = cropper.PlanFromFace(run.face, opts.Size.AspectRatio(), run.imgWidth, run.imgHeight)
	if err := dpi.CheckPrintQuality(
		int(math.Round(run.crop.Width)), int(math.Round(run.crop.Height)),
		opts.Size.WidthMm, opts.Size.HeightMm, opts.RequiredDPI); err != nil {
		return run, run.fail(CodeDPI, err)
	}

	run.setState(StateSegmenting)
	cutout, err := p.segmenter.Segment(img)
	if err != nil {
		return run, run.fail(CodeSegmentation, err)
	}
	run.cutout = cutout

	if err := run.render(); err != nil {
		return run, err
	}
	return run, nil
}

// Rerender re-applies cosmetic setting changes (background color, print
// size, DPI, paper, margins) to a completed run. It re-enters the
// pipeline at the crop step, reusing the retained transparent raster.
func (r *Run) Rerender(opts Options) error {
	if r.cutout == nil {
		return r.fail(CodeValidation, errors.New("run has no segmentation result to reuse"))
	}
	r.opts = opts
	r.crop = cropper.PlanFromFace(r.face, opts.Size.AspectRatio(), r.imgWidth, r.imgHeight)
	return r.render()
}

// render executes the crop, composite and layout steps from the retained
// transparent raster.
func (r *Run) render() error {
	r.setState(StateCropping)
	cropped, err := cropper.Render(r.cutout, r.crop, r.opts.Size, r.opts.DPI)
	if err != nil {
		return r.fail(CodeValidation, err)
	}

	r.setState(StateCompositing)
	background, err := compose.ParseColor(r.opts.Background)
	if err != nil {
		return r.fail(CodeValidation, err)
	}
	r.Photo = compose.Over(cropped, background)

	r.Sheet = nil
	r.Plan = nil
	if r.opts.Paper != nil {
		r.setState(StateLayingOut)
		var plan layout.Plan
		if r.opts.Margins != nil {
			plan, err = layout.CalculateWithMargins(*r.opts.Paper, r.opts.Size, r.opts.DPI, *r.opts.Margins)
		} else {
			plan, err = layout.Calculate(*r.opts.Paper, r.opts.Size, r.opts.DPI)
		}
		if err != nil {
			return r.fail(CodeLayout, err)
		}
		r.Plan = &plan
		r.Sheet = layout.Render(r.Photo, plan)
	}

	r.setState(StateDone)
	log.Debugf("idphoto: done (%s at %g DPI)", r.opts.Size.ID, r.opts.DPI)
	return nil
}

// EncodePhoto returns the finished photo as a PNG byte stream with the
// run's DPI embedded in its resolution metadata.
func (r *Run) EncodePhoto() ([]byte, error) {
	return r.encode(r.Photo)
}

// EncodeSheet returns the print sheet as a PNG byte stream with the
// run's DPI embedded in its resolution metadata.
func (r *Run) EncodeSheet() ([]byte, error) {
	return r.encode(r.Sheet)
}

func (r *Run) encode(img *image.NRGBA) ([]byte, error) {
	if img == nil {
		return nil, &Error{Code: CodeValidation, Step: r.state, Err: errors.New("nothing to encode")}
	}
	data, err := imageio.EncodePNG(img)
	if err != nil {
		return nil, &Error{Code: CodeMetadata, Step: r.state, Err: err}
	}
	data, err = pngdpi.Embed(data, int(math.Round(r.opts.DPI)))
	if err != nil {
		return nil, &Error{Code: CodeMetadata, Step: r.state, Err: err}
	}
	return data, nil
}

// State returns the current pipeline state of the run.
func (r *Run) State() State {
	return r.state
}

// Warnings returns the non-fatal warnings collected during processing.
func (r *Run) Warnings() []string {
	return r.warnings
}

// FaceBox returns the detected face bounding box.
func (r *Run) FaceBox() image.Rectangle {
	return r.face
}

// CropArea returns the planned crop area in source coordinates.
func (r *Run) CropArea() cropper.Rect {
	return r.crop
}

// Options returns the settings the run was last rendered with.
func (r *Run) Options() Options {
	return r.opts
}

func (r *Run) setState(s State) {
	r.state = s
	log.Debugf("idphoto: %s", s)
}

func (r *Run) warn(msg string) {
	r.warnings = append(r.warnings, msg)
	log.Warnf("idphoto: %s", msg)
}

func (r *Run) fail(code Code, err error) error {
	e := &Error{Code: code, Step: r.state, Err: err}
	r.state = StateErrored
	log.Debugf("idphoto: %s failed: %v", e.Step, err)
	return e
}
