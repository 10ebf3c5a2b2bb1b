package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxPathLength bounds paths accepted from remote callers.
const maxPathLength = 1024

// ValidateInputPath validates a workbook path received from an external caller.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Extension must be one of allowed (case-insensitive, with leading dot)
func ValidateInputPath(path string, allowed ...string) error {
	if err := validatePath(path); err != nil {
		return err
	}
	if len(allowed) == 0 {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported input file type %q (want one of %s)", ext, strings.Join(allowed, ", "))
}

// ValidateOutputDir validates an optional output directory. Empty is allowed
// and means "next to the input file".
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	return validatePath(dir)
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
