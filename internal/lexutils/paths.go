// Package lexutils provides file and path utility functions for the lexicon
// service: data-directory resolution with an environment override, directory
// creation, and best-effort file removal.
package lexutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
)

// Environment variable names used for path resolution.
const (
	envDataDir = "LEXICON_DATA_DIR"
)

// Common application directory constants.
const (
	appName               = "lexicon-service"
	dataDirName           = "data"
	tmpDir                = "/tmp"
	dotLocalShare         = ".local/share"
	defaultDirPermissions = 0o750
)

// GetSaveDir returns the directory holding the user dictionary and the
// compiled artifact, honoring a user-defined LEXICON_DATA_DIR and falling back
// to a standard per-user data directory.
func GetSaveDir() string {
	if dataDir := os.Getenv(envDataDir); dataDir != "" {
		return dataDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to a temporary directory if home cannot be determined.
		return filepath.Join(tmpDir, appName, dataDirName)
	}

	return filepath.Join(homeDir, dotLocalShare, appName)
}

// EnsureDir ensures a directory exists at the given path, creating it if it doesn't.
func EnsureDir(path string) error {
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		mkdirErr := os.MkdirAll(path, defaultDirPermissions)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, mkdirErr)
		}
	}

	return nil
}

// DeleteFile removes a file, logging instead of failing when removal goes
// wrong. A file that is already gone is not an error.
func DeleteFile(path string, log *logger.Logger) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		log.Error("Failed to delete file '%s': %v", path, err)
	}
}
