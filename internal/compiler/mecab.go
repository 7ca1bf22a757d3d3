// Package compiler provides the exec-based implementation of the dictionary
// compiler boundary, for deployments whose analyzer consumes MeCab-format
// binary dictionaries.
package compiler

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/book-expert/logger"
)

// MeCabDictIndex compiles a columnar dictionary source into a binary user
// dictionary by calling a mecab-dict-index style binary.
type MeCabDictIndex struct {
	binaryPath   string
	systemDicDir string
	log          *logger.Logger
}

// New creates a MeCabDictIndex. systemDicDir may be empty when the binary's
// built-in system dictionary should be used.
func New(binaryPath, systemDicDir string, log *logger.Logger) *MeCabDictIndex {
	return &MeCabDictIndex{
		binaryPath:   binaryPath,
		systemDicDir: systemDicDir,
		log:          log,
	}
}

// Compile invokes the external indexer against the staged source file. The
// caller owns both paths and their cleanup.
func (m *MeCabDictIndex) Compile(ctx context.Context, sourcePath, artifactPath string) error {
	var args []string

	if m.systemDicDir != "" {
		args = append(args, "-d", m.systemDicDir)
	}

	args = append(args,
		"-u", artifactPath,
		"-f", "utf-8",
		"-t", "utf-8",
		sourcePath,
	)

	// #nosec G204 -- binary path and dictionary dir come from service configuration
	cmd := exec.CommandContext(ctx, m.binaryPath, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("dictionary indexer execution failed: %w - output: %s", err, string(output))
	}

	m.log.Info("Compiled dictionary source '%s' into '%s'.", sourcePath, artifactPath)

	return nil
}
