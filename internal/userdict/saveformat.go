package userdict

import (
	"fmt"

	"github.com/book-expert/lexicon-service/internal/kana"
)

// defaultContextID is assumed for records written before the context id was
// part of the save format.
const defaultContextID = 1348 // proper noun

// SaveFormatWord is the on-disk projection of a Word. It stores cost instead
// of priority, matching the historical file format, so existing dictionaries
// keep loading unchanged.
type SaveFormatWord struct {
	Surface               string `json:"surface"`
	ContextID             int    `json:"context_id,omitempty"`
	Cost                  int    `json:"cost"`
	PartOfSpeech          string `json:"part_of_speech"`
	PartOfSpeechDetail1   string `json:"part_of_speech_detail_1"`
	PartOfSpeechDetail2   string `json:"part_of_speech_detail_2"`
	PartOfSpeechDetail3   string `json:"part_of_speech_detail_3"`
	InflectionalType      string `json:"inflectional_type"`
	InflectionalForm      string `json:"inflectional_form"`
	Stem                  string `json:"stem"`
	Yomi                  string `json:"yomi"`
	Pronunciation         string `json:"pronunciation"`
	AccentType            int    `json:"accent_type"`
	MoraCount             int    `json:"mora_count"`
	AccentAssociativeRule string `json:"accent_associative_rule"`
}

// ToSaveFormat converts a word record into its on-disk projection, replacing
// priority with the equivalent cost.
func ToSaveFormat(word Word) (SaveFormatWord, error) {
	cost, err := PriorityToCost(word.ContextID, word.Priority)
	if err != nil {
		return SaveFormatWord{}, fmt.Errorf("failed to convert priority to cost: %w", err)
	}

	return SaveFormatWord{
		Surface:               word.Surface,
		ContextID:             word.ContextID,
		Cost:                  cost,
		PartOfSpeech:          word.PartOfSpeech,
		PartOfSpeechDetail1:   word.PartOfSpeechDetail1,
		PartOfSpeechDetail2:   word.PartOfSpeechDetail2,
		PartOfSpeechDetail3:   word.PartOfSpeechDetail3,
		InflectionalType:      word.InflectionalType,
		InflectionalForm:      word.InflectionalForm,
		Stem:                  word.Stem,
		Yomi:                  word.Yomi,
		Pronunciation:         word.Pronunciation,
		AccentType:            word.AccentType,
		MoraCount:             word.MoraCount,
		AccentAssociativeRule: word.AccentAssociativeRule,
	}, nil
}

// FromSaveFormat reconstructs a word record from its on-disk projection.
// Priority is recovered from the stored cost, and the mora count is recomputed
// from the pronunciation rather than trusted.
func FromSaveFormat(saved SaveFormatWord) (Word, error) {
	contextID := saved.ContextID
	if contextID == 0 {
		contextID = defaultContextID
	}

	priority, err := CostToPriority(contextID, saved.Cost)
	if err != nil {
		return Word{}, fmt.Errorf("failed to convert cost to priority: %w", err)
	}

	return Word{
		Surface:               saved.Surface,
		Pronunciation:         saved.Pronunciation,
		AccentType:            saved.AccentType,
		MoraCount:             kana.CountMora(saved.Pronunciation),
		PartOfSpeech:          saved.PartOfSpeech,
		PartOfSpeechDetail1:   saved.PartOfSpeechDetail1,
		PartOfSpeechDetail2:   saved.PartOfSpeechDetail2,
		PartOfSpeechDetail3:   saved.PartOfSpeechDetail3,
		InflectionalType:      saved.InflectionalType,
		InflectionalForm:      saved.InflectionalForm,
		Stem:                  saved.Stem,
		Yomi:                  saved.Yomi,
		ContextID:             contextID,
		Priority:              priority,
		AccentAssociativeRule: saved.AccentAssociativeRule,
	}, nil
}
