// Package userdict implements the managed pronunciation lexicon: user-editable
// word records persisted to a JSON store, merged with the bundled base lexicon,
// and compiled into the binary dictionary the morphological analyzer loads.
package userdict

import (
	"fmt"

	"github.com/book-expert/lexicon-service/internal/kana"
)

// WordProperty is the externally-facing shape of a dictionary entry, as
// submitted by clients. Zero values for WordType and AccentAssociativeRule
// select the defaults (proper noun, "*").
type WordProperty struct {
	Surface               string
	Pronunciation         string
	AccentType            int
	WordType              WordType
	AccentAssociativeRule string
	Priority              int
}

// Word is a stored user dictionary entry, carrying every column of the
// analyzer's source schema.
type Word struct {
	Surface               string
	Pronunciation         string
	AccentType            int
	MoraCount             int
	PartOfSpeech          string
	PartOfSpeechDetail1   string
	PartOfSpeechDetail2   string
	PartOfSpeechDetail3   string
	InflectionalType      string
	InflectionalForm      string
	Stem                  string
	Yomi                  string
	ContextID             int
	Priority              int
	AccentAssociativeRule string
}

// NewWord validates a word property and fills in the derived fields: the
// part-of-speech quadruple for the word type, the mora count of the
// pronunciation, and the full-width surface spelling.
func NewWord(property WordProperty) (Word, error) {
	wordType := property.WordType
	if wordType == "" {
		wordType = WordTypeProperNoun
	}

	detail, err := DetailForWordType(wordType)
	if err != nil {
		return Word{}, err
	}

	rule := property.AccentAssociativeRule
	if rule == "" {
		rule = "*"
	}

	if !allowsAccentAssociativeRule(detail, rule) {
		return Word{}, fmt.Errorf(
			"%w: accent associative rule '%s' is not allowed for word type '%s'",
			ErrInvalidWord, rule, wordType,
		)
	}

	if property.Priority < MinPriority || property.Priority > MaxPriority {
		return Word{}, fmt.Errorf(
			"%w: priority %d out of range [%d, %d]",
			ErrInvalidWord, property.Priority, MinPriority, MaxPriority,
		)
	}

	pronunciation := kana.ToKatakana(property.Pronunciation)
	if !kana.IsPronunciation(pronunciation) {
		return Word{}, fmt.Errorf(
			"%w: pronunciation '%s' is not a katakana spelling",
			ErrInvalidWord, property.Pronunciation,
		)
	}

	moraCount := kana.CountMora(pronunciation)
	if property.AccentType < 0 || property.AccentType > moraCount {
		return Word{}, fmt.Errorf(
			"%w: accent type %d out of range for %d moras",
			ErrInvalidWord, property.AccentType, moraCount,
		)
	}

	return Word{
		Surface:               kana.NormalizeSurface(property.Surface),
		Pronunciation:         pronunciation,
		AccentType:            property.AccentType,
		MoraCount:             moraCount,
		PartOfSpeech:          detail.PartOfSpeech,
		PartOfSpeechDetail1:   detail.PartOfSpeechDetail1,
		PartOfSpeechDetail2:   detail.PartOfSpeechDetail2,
		PartOfSpeechDetail3:   detail.PartOfSpeechDetail3,
		InflectionalType:      "*",
		InflectionalForm:      "*",
		Stem:                  "*",
		Yomi:                  pronunciation,
		ContextID:             detail.ContextID,
		Priority:              property.Priority,
		AccentAssociativeRule: rule,
	}, nil
}

// Validate checks a full word record against the part-of-speech reference
// table: the feature quadruple must match a row, the context id must be that
// row's, the accent rule must be allowed for it, and the priority must be in
// range. Imported records pass through here before any write.
func Validate(word Word) error {
	detail, err := detailForQuadruple(
		word.PartOfSpeech,
		word.PartOfSpeechDetail1,
		word.PartOfSpeechDetail2,
		word.PartOfSpeechDetail3,
	)
	if err != nil {
		return err
	}

	if word.ContextID != detail.ContextID {
		return fmt.Errorf(
			"%w: context id %d does not match part of speech '%s' (expected %d)",
			ErrInvalidWord, word.ContextID, word.PartOfSpeech, detail.ContextID,
		)
	}

	if !allowsAccentAssociativeRule(detail, word.AccentAssociativeRule) {
		return fmt.Errorf(
			"%w: accent associative rule '%s' is not allowed for part of speech '%s'",
			ErrInvalidWord, word.AccentAssociativeRule, word.PartOfSpeech,
		)
	}

	if word.Priority < MinPriority || word.Priority > MaxPriority {
		return fmt.Errorf(
			"%w: priority %d out of range [%d, %d]",
			ErrInvalidWord, word.Priority, MinPriority, MaxPriority,
		)
	}

	return nil
}
