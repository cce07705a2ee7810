package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers accepted from callers and files.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier supplied by a caller.
//
// The rules are deliberately loose since ids are opaque to the core:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateDimensions checks that a drawing surface size is usable.
// Both sides must be positive and finite.
func ValidateDimensions(width, height float64) error {
	if !(width > 0) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidInput, "width must be positive, got %v", width)
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return New(ErrCodeInvalidInput, "height must be positive, got %v", height)
	}
	return nil
}

// ValidatePixelRatio checks a device pixel ratio. Zero is accepted and means 1.
func ValidatePixelRatio(dpr float64) error {
	if dpr < 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		return New(ErrCodeInvalidInput, "pixel ratio must be positive, got %v", dpr)
	}
	if dpr > 8 {
		return New(ErrCodeInvalidInput, "pixel ratio too large (max 8), got %v", dpr)
	}
	return nil
}

// ValidatePath validates a user supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
