package storage

import (
	"os"
	"path/filepath"
)

const appName = ".roboaccordion"

// DefaultStoragePath returns the default storage location
// Platform-specific paths:
//   - macOS/Linux: ~/.roboaccordion
//   - Windows: %USERPROFILE%\.roboaccordion
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appName), nil
}
