package userdict

import (
	"context"
	"fmt"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
)

// UserDictionary is the public CRUD surface over the store and the builder.
// Every mutation persists the whole mapping and then triggers a rebuild; the
// store lock covers the read-modify-write, the compile lock covers the
// rebuild, and the two are taken sequentially, never nested. A reader between
// the two steps may observe an updated store with a stale artifact.
type UserDictionary struct {
	store   *Store
	builder *Builder
	log     *logger.Logger
}

// New composes the dictionary manager and performs the initial rebuild so the
// analyzer starts with the current store contents applied.
func New(ctx context.Context, store *Store, builder *Builder, log *logger.Logger) (*UserDictionary, error) {
	dictionary := &UserDictionary{
		store:   store,
		builder: builder,
		log:     log,
	}

	err := builder.Rebuild(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial dictionary rebuild failed: %w", err)
	}

	return dictionary, nil
}

// ListWords returns the current user dictionary keyed by word UUID.
func (d *UserDictionary) ListWords() (map[string]Word, error) {
	return d.store.ReadAll()
}

// ApplyWord validates and adds a new word, persists the store, rebuilds the
// compiled dictionary, and returns the UUID assigned to the word.
func (d *UserDictionary) ApplyWord(ctx context.Context, property WordProperty) (string, error) {
	word, err := NewWord(property)
	if err != nil {
		return "", err
	}

	wordUUID := uuid.NewString()

	err = d.store.Mutate(func(words map[string]Word) error {
		words[wordUUID] = word

		return nil
	})
	if err != nil {
		return "", err
	}

	return wordUUID, d.builder.Rebuild(ctx)
}

// RewriteWord overwrites the word stored under wordUUID. The UUID keeps
// identifying the entry; only the record changes.
func (d *UserDictionary) RewriteWord(ctx context.Context, wordUUID string, property WordProperty) error {
	word, err := NewWord(property)
	if err != nil {
		return err
	}

	err = d.store.Mutate(func(words map[string]Word) error {
		_, exists := words[wordUUID]
		if !exists {
			return fmt.Errorf("%w: %s", ErrWordNotFound, wordUUID)
		}

		words[wordUUID] = word

		return nil
	})
	if err != nil {
		return err
	}

	return d.builder.Rebuild(ctx)
}

// DeleteWord removes the word stored under wordUUID.
func (d *UserDictionary) DeleteWord(ctx context.Context, wordUUID string) error {
	err := d.store.Mutate(func(words map[string]Word) error {
		_, exists := words[wordUUID]
		if !exists {
			return fmt.Errorf("%w: %s", ErrWordNotFound, wordUUID)
		}

		delete(words, wordUUID)

		return nil
	})
	if err != nil {
		return err
	}

	return d.builder.Rebuild(ctx)
}

// ImportWords merges incoming records into the store. Every incoming entry is
// validated before anything is written, so one invalid record aborts the whole
// import. On a UUID collision the incoming record wins only when override is
// set. The merged mapping is persisted once and rebuilt once.
func (d *UserDictionary) ImportWords(ctx context.Context, incoming map[string]Word, override bool) error {
	canonical := make(map[string]Word, len(incoming))

	for key, word := range incoming {
		wordUUID, err := uuid.Parse(key)
		if err != nil {
			return fmt.Errorf("%w: invalid word uuid '%s'", ErrInvalidWord, key)
		}

		err = Validate(word)
		if err != nil {
			return fmt.Errorf("word '%s': %w", key, err)
		}

		canonical[wordUUID.String()] = word
	}

	err := d.store.Mutate(func(words map[string]Word) error {
		for key, word := range canonical {
			_, exists := words[key]
			if exists && !override {
				continue
			}

			words[key] = word
		}

		return nil
	})
	if err != nil {
		return err
	}

	return d.builder.Rebuild(ctx)
}
