package validation

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageValidator checks that a path points at a readable image in a
// supported format. It is a pure precondition check: the file is never
// opened or decoded.
type ImageValidator struct {
	formats             []string
	supportedExtensions map[string]struct{}
}

// NewImageValidator creates an image validator with the default supported
// format set.
func NewImageValidator() *ImageValidator {
	return NewImageValidatorWithFormats(DefaultFormats())
}

// NewImageValidatorWithFormats creates an image validator restricted to the
// given extensions (with or without the leading dot).
func NewImageValidatorWithFormats(formats []string) *ImageValidator {
	normalized := make([]string, 0, len(formats))
	exts := make(map[string]struct{}, len(formats))
	for _, f := range formats {
		name := strings.ToLower(strings.TrimPrefix(f, "."))
		if name == "" {
			continue
		}
		if _, seen := exts["."+name]; seen {
			continue
		}
		normalized = append(normalized, name)
		exts["."+name] = struct{}{}
	}
	return &ImageValidator{formats: normalized, supportedExtensions: exts}
}

// DefaultFormats returns the extensions accepted by default.
func DefaultFormats() []string {
	return []string{"png", "jpg", "jpeg", "gif", "bmp", "tiff", "webp"}
}

// Validate reports whether the file exists and carries a supported image
// extension. It fails closed: any stat error, a directory, or an unknown
// extension yield false rather than an error.
func (v *ImageValidator) Validate(imagePath string) bool {
	info, err := os.Stat(imagePath)
	if err != nil || info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(imagePath))
	_, ok := v.supportedExtensions[ext]
	return ok
}

// SupportedFormats returns the accepted extensions in registration order.
func (v *ImageValidator) SupportedFormats() []string {
	out := make([]string, len(v.formats))
	copy(out, v.formats)
	return out
}
