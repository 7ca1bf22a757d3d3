package analyzer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
)

// Columns shared by the base lexicon rows and the staged user dictionary rows.
const (
	columnSurface      = 0
	columnPartOfSpeech = 4
	columnReading      = 11
	minSourceColumns   = 12
)

const artifactFilePermissions = 0o600

// Compiler translates the staged columnar dictionary source into kagome's
// user-dictionary record format and verifies the result loads. It implements
// the same black-box boundary an external dictionary indexer would.
type Compiler struct{}

// Compiler returns the kagome flavor of the dictionary compiler.
func (k *Kagome) Compiler() *Compiler {
	return &Compiler{}
}

// Compile reads the merged dictionary source at sourcePath and writes a
// loadable user-dictionary artifact to artifactPath. Duplicate surfaces keep
// their last occurrence: the staging layer appends user entries after the base
// lexicon, so a user override always wins.
func (c *Compiler) Compile(_ context.Context, sourcePath, artifactPath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read dictionary source '%s': %w", sourcePath, err)
	}

	records := make(map[string]string)

	var order []string

	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < minSourceColumns {
			return fmt.Errorf("malformed dictionary source line: '%s'", line)
		}

		surface := fields[columnSurface]

		_, duplicate := records[surface]
		if !duplicate {
			order = append(order, surface)
		}

		records[surface] = fmt.Sprintf(
			"%s,%s,%s,%s\n",
			surface,
			surface,
			fields[columnReading],
			fields[columnPartOfSpeech],
		)
	}

	var out strings.Builder

	for _, surface := range order {
		out.WriteString(records[surface])
	}

	err = os.WriteFile(artifactPath, []byte(out.String()), artifactFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write dictionary artifact '%s': %w", artifactPath, err)
	}

	return verifyArtifact(artifactPath)
}

// verifyArtifact loads the freshly written artifact once so a broken file is
// rejected here rather than at swap time.
func verifyArtifact(artifactPath string) error {
	_, err := dict.NewUserDict(artifactPath)
	if err != nil {
		removeErr := os.Remove(artifactPath)
		if removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("artifact failed verification and could not be removed: %w", removeErr)
		}

		return fmt.Errorf("compiled artifact failed verification: %w", err)
	}

	return nil
}
