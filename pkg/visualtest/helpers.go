package visualtest

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
)

// UpdateEnv names the environment variable that makes MatchReference
// rewrite reference images instead of comparing against them.
const UpdateEnv = "MULTIFORMAT_UPDATE_REFERENCES"

// MatchReference compares actual with the PNG at referencePath. A missing
// reference, or UpdateEnv set to a non-empty value, writes actual as the new
// reference and reports a match.
func MatchReference(actual image.Image, referencePath string, opts CompareOptions) (*CompareResult, error) {
	_, err := os.Stat(referencePath)
	if os.Getenv(UpdateEnv) != "" || errors.Is(err, fs.ErrNotExist) {
		if err := UpdateReference(actual, referencePath); err != nil {
			return nil, err
		}
		b := actual.Bounds()
		return &CompareResult{Match: true, TotalPixels: b.Dx() * b.Dy()}, nil
	}

	expected, err := LoadPNG(referencePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference: %w", err)
	}
	result, err := Compare(actual, expected, opts)
	if err != nil {
		return result, err
	}
	if !result.Match && opts.DiffImagePath != "" {
		if err := SavePNG(result.Diff, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}

// UpdateReference writes img as the reference image at path, creating its
// directory.
func UpdateReference(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create reference directory: %w", err)
	}
	return SavePNG(img, path)
}
