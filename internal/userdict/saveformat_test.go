package userdict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/lexicon-service/internal/userdict"
)

func TestSaveFormatRoundTrip(t *testing.T) {
	t.Parallel()

	properties := []userdict.WordProperty{
		{
			Surface:       "テスト",
			Pronunciation: "テスト",
			AccentType:    1,
			WordType:      userdict.WordTypeProperNoun,
			Priority:      5,
		},
		{
			Surface:       "走る",
			Pronunciation: "ハシル",
			AccentType:    2,
			WordType:      userdict.WordTypeVerb,
			Priority:      0,
		},
		{
			Surface:               "トーキョー",
			Pronunciation:         "トーキョー",
			AccentType:            0,
			WordType:              userdict.WordTypeCommonNoun,
			AccentAssociativeRule: "C3",
			Priority:              10,
		},
	}

	for _, property := range properties {
		word, err := userdict.NewWord(property)
		require.NoError(t, err)

		saved, err := userdict.ToSaveFormat(word)
		require.NoError(t, err)

		restored, err := userdict.FromSaveFormat(saved)
		require.NoError(t, err)

		assert.Equal(t, word, restored, property.Surface)
	}
}

func TestToSaveFormat_StoresCostNotPriority(t *testing.T) {
	t.Parallel()

	word, err := userdict.NewWord(userdict.WordProperty{
		Surface:       "テスト",
		Pronunciation: "テスト",
		AccentType:    1,
		WordType:      userdict.WordTypeProperNoun,
		Priority:      5,
	})
	require.NoError(t, err)

	saved, err := userdict.ToSaveFormat(word)
	require.NoError(t, err)

	expectedCost, err := userdict.PriorityToCost(word.ContextID, word.Priority)
	require.NoError(t, err)
	assert.Equal(t, expectedCost, saved.Cost)
}

func TestFromSaveFormat_MissingContextIDDefaultsToProperNoun(t *testing.T) {
	t.Parallel()

	word, err := userdict.NewWord(userdict.WordProperty{
		Surface:       "テスト",
		Pronunciation: "テスト",
		AccentType:    1,
		WordType:      userdict.WordTypeProperNoun,
		Priority:      5,
	})
	require.NoError(t, err)

	saved, err := userdict.ToSaveFormat(word)
	require.NoError(t, err)

	saved.ContextID = 0

	restored, err := userdict.FromSaveFormat(saved)
	require.NoError(t, err)
	assert.Equal(t, 1348, restored.ContextID)
}

func TestFromSaveFormat_RecomputesMoraCount(t *testing.T) {
	t.Parallel()

	word, err := userdict.NewWord(userdict.WordProperty{
		Surface:       "トーキョー",
		Pronunciation: "トーキョー",
		AccentType:    0,
		WordType:      userdict.WordTypeProperNoun,
		Priority:      5,
	})
	require.NoError(t, err)

	saved, err := userdict.ToSaveFormat(word)
	require.NoError(t, err)

	saved.MoraCount = 99 // stale derived field on disk is not trusted

	restored, err := userdict.FromSaveFormat(saved)
	require.NoError(t, err)
	assert.Equal(t, 4, restored.MoraCount)
}
