// Package core defines the core business logic and interfaces for the lexicon service.
package core

import "context"

// LexiconCompiler turns a staged dictionary source text into a binary artifact
// loadable by the analyzer. Implementations treat both paths as opaque; the
// caller owns staging and cleanup of the source file.
type LexiconCompiler interface {
	Compile(ctx context.Context, sourcePath, artifactPath string) error
}

// ActiveDictionary is the analyzer's global active-dictionary slot, exposed as
// a narrow set/clear capability so the compilation pipeline never touches the
// analyzer's internals directly.
type ActiveDictionary interface {
	Set(artifactPath string) error
	Clear()
}

// ObjectStore defines the interface for interacting with a key-value blob store.
// Bulk dictionary import and export payloads travel through it rather than
// inline in transport messages.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}
