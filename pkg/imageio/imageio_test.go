package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(createTestImage(30, 40))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 40 {
		t.Errorf("decoded = %dx%d, want 30x40", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecode(t *testing.T) {
	data, err := EncodePNG(createTestImage(10, 10))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("decoded width = %d, want 10", img.Bounds().Dx())
	}

	if _, err := Decode([]byte("garbage")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestLoadFromReader(t *testing.T) {
	data, err := EncodePNG(createTestImage(10, 10))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("decoded width = %d, want 10", img.Bounds().Dx())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.png")

	if err := Save(createTestImage(20, 20), path, "png", 90, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Errorf("loaded = %dx%d, want 20x20", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/image.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-image content")
	}
}
