// Package kana_test tests the Japanese phonetic text helpers.
package kana_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/book-expert/lexicon-service/internal/kana"
)

func TestIsPronunciation(t *testing.T) {
	t.Parallel()

	assert.True(t, kana.IsPronunciation("テスト"))
	assert.True(t, kana.IsPronunciation("トーキョー"))
	assert.True(t, kana.IsPronunciation("ヴァイオリン"))
	assert.True(t, kana.IsPronunciation("キャット"))

	assert.False(t, kana.IsPronunciation(""))
	assert.False(t, kana.IsPronunciation("てすと"))
	assert.False(t, kana.IsPronunciation("test"))
	assert.False(t, kana.IsPronunciation("テスト1"))
	assert.False(t, kana.IsPronunciation("テ スト"))
}

func TestCountMora(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pronunciation string
		want          int
	}{
		{"テスト", 3},
		{"キャット", 3},
		{"トーキョー", 4},
		{"ン", 1},
		{"ヴァイオリン", 5},
		{"シャシュショ", 3},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, kana.CountMora(tc.pronunciation), tc.pronunciation)
	}
}

func TestToKatakana(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "テスト", kana.ToKatakana("てすと"))
	assert.Equal(t, "テスト", kana.ToKatakana("テスト"))
	assert.Equal(t, "アイウエオ", kana.ToKatakana("あいうえお"))
	// Non-kana passes through untouched.
	assert.Equal(t, "abc漢字", kana.ToKatakana("abc漢字"))
}

func TestNormalizeSurface(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ＡＢＣ", kana.NormalizeSurface("ABC"))
	assert.Equal(t, "１２３", kana.NormalizeSurface("123"))
	// Half-width katakana widens to the standard forms.
	assert.Equal(t, "テスト", kana.NormalizeSurface("ﾃｽﾄ"))
	// Already full-width text is left alone.
	assert.Equal(t, "漢字", kana.NormalizeSurface("漢字"))
}
