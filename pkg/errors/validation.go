package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputName validates a chart output file name.
// Charts are always written inside the image directory, so the name must be a
// plain basename with a .png extension.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "output name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators: %q", name)
	}

	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "output name cannot be a hidden file: %q", name)
	}

	if !strings.EqualFold(filepath.Ext(name), ".png") {
		return New(ErrCodeInvalidPath, "output name must end in .png: %q", name)
	}

	return nil
}

// ValidateDataFile validates an input file name relative to the data directory.
// Nested relative paths are allowed; absolute paths and traversal are not.
func ValidateDataFile(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "data file name cannot be empty")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "data file name contains invalid characters")
		}
	}

	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidPath, "data file name must be relative: %q", name)
	}

	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "data file name cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
