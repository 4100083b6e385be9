// Package utils provides small filesystem helpers for the CLI.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot.
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension.
func IsImageFile(filename string) bool {
	ext := GetFileExtension(filename)
	imageExts := []string{"jpg", "jpeg", "png", "webp"}

	for _, imgExt := range imageExts {
		if ext == imgExt {
			return true
		}
	}
	return false
}

// FileExists checks if a file exists and is not a directory.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// OutputFilename builds a download filename encoding the photo size,
// resolution and a timestamp, e.g.
// "portrait_1-inch_300dpi_20240301-142501.png".
func OutputFilename(inputFile, outputDir, sizeID string, dpi int, t time.Time) string {
	baseName := filepath.Base(inputFile)
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))

	outputName := fmt.Sprintf("%s_%s_%ddpi_%s.png",
		SanitizeFilename(nameWithoutExt), sizeID, dpi, t.Format("20060102-150405"))
	return filepath.Join(outputDir, outputName)
}

// SheetFilename builds a download filename for a print sheet.
func SheetFilename(inputFile, outputDir, paperID, sizeID string, dpi int, t time.Time) string {
	baseName := filepath.Base(inputFile)
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))

	outputName := fmt.Sprintf("%s_sheet-%s_%s_%ddpi_%s.png",
		SanitizeFilename(nameWithoutExt), paperID, sizeID, dpi, t.Format("20060102-150405"))
	return filepath.Join(outputDir, outputName)
}

// SanitizeFilename removes or replaces invalid characters in filenames.
func SanitizeFilename(filename string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := filename

	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}

	return strings.Trim(result, " .")
}
