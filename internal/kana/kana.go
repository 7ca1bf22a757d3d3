// Package kana provides Japanese phonetic text utilities for the lexicon service.
//
// It covers the small set of script operations the word codec needs: checking
// that a pronunciation is katakana, counting moras, converting hiragana to
// katakana, and normalizing surface forms to full width.
package kana

import (
	"strings"

	"golang.org/x/text/width"
)

// Katakana code points relevant to pronunciation handling.
const (
	katakanaFirst      = 'ァ' // ァ
	katakanaLastVoiced = 'ヴ' // ヴ
	longVowelMark      = 'ー' // ー
	hiraganaFirst      = 'ぁ' // ぁ
	hiraganaLast       = 'ゖ' // ゖ
	hiraganaToKatakana = 0x60
)

// Small kana that attach to the preceding character rather than forming a mora
// of their own.
const combiningSmallKana = "ァィゥェォャュョヮ"

// IsPronunciation reports whether s is a non-empty katakana spelling usable as
// a pronunciation: katakana letters (ァ..ヴ) and the long vowel mark only.
func IsPronunciation(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r == longVowelMark {
			continue
		}

		if r < katakanaFirst || r > katakanaLastVoiced {
			return false
		}
	}

	return true
}

// CountMora returns the number of moras in a katakana pronunciation. Small
// vowels and small ya/yu/yo collapse into the preceding mora; ッ, ン, and ー
// each count as one.
func CountMora(pronunciation string) int {
	count := 0

	for _, r := range pronunciation {
		if strings.ContainsRune(combiningSmallKana, r) {
			continue
		}

		count++
	}

	return count
}

// ToKatakana converts hiragana letters in s to their katakana counterparts,
// leaving everything else untouched.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= hiraganaFirst && r <= hiraganaLast {
			runes[i] = r + hiraganaToKatakana
		}
	}

	return string(runes)
}

// NormalizeSurface widens half-width characters so surface forms are stored in
// the full-width spelling the compiled dictionary source expects.
func NormalizeSurface(s string) string {
	return width.Widen.String(s)
}
