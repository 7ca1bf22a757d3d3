package userdict

import "errors"

var (
	// ErrInvalidWord indicates a word property or record that fails validation:
	// a malformed pronunciation, an unknown part-of-speech combination, an
	// accent rule not permitted for it, or an out-of-range priority.
	ErrInvalidWord = errors.New("invalid word")
	// ErrWordNotFound indicates an operation referenced an unknown word UUID.
	ErrWordNotFound = errors.New("word not found in user dictionary")
	// ErrCorruptStore indicates the on-disk user dictionary could not be parsed.
	ErrCorruptStore = errors.New("user dictionary store is corrupt")
	// ErrCompileFailed indicates the external compiler failed or produced no
	// output artifact.
	ErrCompileFailed = errors.New("dictionary compilation failed")
)
