package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input size limits (in bytes)
const (
	// MaxInputSize caps a single input payload. Large pastes are split by
	// the client; anything bigger is almost certainly a mistake.
	MaxInputSize = 1 * 1024 * 1024

	// MaxDim bounds terminal dimensions to what any real display can show.
	MaxDim = 1000
)

// ValidateSessionID checks the shape of a caller-supplied session id.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if !strings.HasPrefix(id, "term_") {
		return fmt.Errorf("malformed session id %q", id)
	}
	return nil
}

// ValidateDims checks terminal dimensions. Zero is allowed and means
// "use the configured default".
func ValidateDims(cols, rows int) error {
	if cols < 0 || rows < 0 {
		return fmt.Errorf("dimensions must not be negative")
	}
	if cols > MaxDim || rows > MaxDim {
		return fmt.Errorf("dimensions exceed maximum %d", MaxDim)
	}
	return nil
}

// ValidateWorkingDir checks a caller-supplied working directory. Empty is
// allowed and means "use the platform default"; anything else must be an
// absolute path so relative paths never resolve against the backend's own
// working directory.
func ValidateWorkingDir(dir string) error {
	if dir == "" {
		return nil
	}
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("working_dir must be absolute, got %q", dir)
	}
	return nil
}

// ValidateInput checks a single input payload before it is enqueued.
func ValidateInput(data string) error {
	if len(data) > MaxInputSize {
		return fmt.Errorf("input size %d bytes exceeds maximum %d bytes", len(data), MaxInputSize)
	}
	return nil
}
