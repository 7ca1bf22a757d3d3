// Package analyzer wraps the kagome morphological analyzer and exposes its
// user-dictionary slot as a hot-swappable handle. Tokenization reads the
// current tokenizer through an atomic pointer, so dictionary swaps never block
// or corrupt in-flight lookups.
package analyzer

import (
	"fmt"
	"sync/atomic"

	"github.com/book-expert/logger"
	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one analyzed unit of text.
type Token struct {
	Surface  string
	Reading  string
	Features []string
}

// Kagome is the in-process analyzer. The zero value is not usable; construct
// with New.
type Kagome struct {
	log     *logger.Logger
	current atomic.Pointer[tokenizer.Tokenizer]
}

// New creates an analyzer over the bundled IPA dictionary with no user
// dictionary active.
func New(log *logger.Logger) (*Kagome, error) {
	base, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokenizer: %w", err)
	}

	analyzer := &Kagome{log: log}
	analyzer.current.Store(base)

	return analyzer, nil
}

// Set loads the compiled user dictionary at artifactPath and swaps it in as
// the active dictionary. On failure the previously active tokenizer stays in
// place.
func (k *Kagome) Set(artifactPath string) error {
	userDict, err := dict.NewUserDict(artifactPath)
	if err != nil {
		return fmt.Errorf("failed to load user dictionary '%s': %w", artifactPath, err)
	}

	swapped, err := tokenizer.New(ipa.Dict(), tokenizer.UserDict(userDict), tokenizer.OmitBosEos())
	if err != nil {
		return fmt.Errorf("failed to rebuild tokenizer with user dictionary: %w", err)
	}

	k.current.Store(swapped)

	return nil
}

// Clear detaches any active user dictionary, falling back to the base
// dictionary only.
func (k *Kagome) Clear() {
	base, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		// The base dictionary is compiled in; this does not fail in
		// practice. Keep the previous tokenizer rather than dropping it.
		k.log.Error("Failed to reset tokenizer to base dictionary: %v", err)

		return
	}

	k.current.Store(base)
}

// Tokenize analyzes text with whatever dictionary is active at call time.
func (k *Kagome) Tokenize(text string) []Token {
	active := k.current.Load()

	raw := active.Tokenize(text)
	result := make([]Token, 0, len(raw))

	for _, token := range raw {
		if token.Class == tokenizer.DUMMY {
			continue
		}

		features := token.Features()

		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}

		result = append(result, Token{
			Surface:  token.Surface,
			Reading:  reading,
			Features: features,
		})
	}

	return result
}
