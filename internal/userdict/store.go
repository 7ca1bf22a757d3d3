package userdict

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// storeFilePermissions restricts the user dictionary file to its owner.
const storeFilePermissions = 0o600

// Store owns the on-disk user dictionary file: a JSON mapping from word UUID
// to its save-format record. Every read and write goes through the store's
// mutex, so concurrent read-modify-write sequences never interleave. Nothing
// is cached across calls; each operation observes the latest committed state.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store over the user dictionary file at path. The file is
// created lazily on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the user dictionary file.
func (s *Store) Path() string {
	return s.path
}

// ReadAll loads the full user dictionary. A missing file yields an empty
// mapping; an unparsable file yields ErrCorruptStore and no partial result.
func (s *Store) ReadAll() (map[string]Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readAllLocked()
}

// WriteAll replaces the on-disk mapping wholesale.
func (s *Store) WriteAll(words map[string]Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeAllLocked(words)
}

// Mutate runs fn over the current mapping and writes the result back, all
// under the store lock, so the read-modify-write is linearizable with respect
// to every other store operation. When fn returns an error nothing is written.
func (s *Store) Mutate(fn func(words map[string]Word) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := s.readAllLocked()
	if err != nil {
		return err
	}

	err = fn(words)
	if err != nil {
		return err
	}

	return s.writeAllLocked(words)
}

func (s *Store) readAllLocked() (map[string]Word, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Word{}, nil
		}

		return nil, fmt.Errorf("failed to read user dictionary file '%s': %w", s.path, err)
	}

	var saved map[string]SaveFormatWord

	err = json.Unmarshal(data, &saved)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptStore, err)
	}

	words := make(map[string]Word, len(saved))

	for key, savedWord := range saved {
		wordUUID, parseErr := uuid.Parse(key)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid word uuid '%s'", ErrCorruptStore, key)
		}

		word, convErr := FromSaveFormat(savedWord)
		if convErr != nil {
			return nil, fmt.Errorf("%w: word '%s': %s", ErrCorruptStore, key, convErr)
		}

		words[wordUUID.String()] = word
	}

	return words, nil
}

func (s *Store) writeAllLocked(words map[string]Word) error {
	saved := make(map[string]SaveFormatWord, len(words))

	for key, word := range words {
		savedWord, err := ToSaveFormat(word)
		if err != nil {
			return fmt.Errorf("failed to serialize word '%s': %w", key, err)
		}

		saved[key] = savedWord
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode user dictionary: %w", err)
	}

	err = os.WriteFile(s.path, data, storeFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write user dictionary file '%s': %w", s.path, err)
	}

	return nil
}
