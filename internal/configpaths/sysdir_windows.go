//go:build windows

package configpaths

import (
	"errors"
	"os"
	"path/filepath"
)

// SystemConfigDir returns the machine wide configuration directory.
func SystemConfigDir() (string, error) {
	pd := os.Getenv("ProgramData")
	if pd == "" {
		return "", errors.New("ProgramData not set")
	}
	return filepath.Join(pd, baseName), nil
}
