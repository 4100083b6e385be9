package facedet

import (
	"errors"
	"image"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MinSize <= 0 {
		t.Error("MinSize must be positive")
	}
	if opts.ScaleFactor <= 1 {
		t.Error("ScaleFactor must be above 1")
	}
	if opts.ShiftFactor <= 0 || opts.ShiftFactor >= 1 {
		t.Error("ShiftFactor must be in (0, 1)")
	}
	if opts.MaxDimension <= 0 {
		t.Error("MaxDimension must be positive")
	}
}

func TestNewPigoFromBytesInvalidCascade(t *testing.T) {
	_, err := NewPigoFromBytes([]byte("not a cascade"), nil)
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestNewPigoMissingFile(t *testing.T) {
	_, err := NewPigo("/nonexistent/cascade", nil)
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestDetectFacesWithoutModel(t *testing.T) {
	var d *Pigo
	_, err := d.DetectFaces(image.NewNRGBA(image.Rect(0, 0, 100, 100)))
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("expected ErrModelNotLoaded, got %v", err)
	}
}
