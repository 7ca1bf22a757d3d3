package userdict_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/lexicon-service/internal/userdict"
)

// newTestDictionary builds a manager over temp paths with no base lexicon, so
// rebuilds are cheap no-ops and the tests exercise the CRUD semantics.
func newTestDictionary(t *testing.T) *userdict.UserDictionary {
	t.Helper()

	log := testLogger(t)
	store := userdict.NewStore(filepath.Join(t.TempDir(), "user_dict.json"))
	builder := userdict.NewBuilder(
		t.TempDir(),
		filepath.Join(t.TempDir(), "user.dic"),
		&mockCompiler{},
		&mockActive{},
		store,
		log,
	)

	dictionary, err := userdict.New(context.Background(), store, builder, log)
	require.NoError(t, err)

	return dictionary
}

func TestUserDictionary_ApplyWordThenList(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	before, err := dictionary.ListWords()
	require.NoError(t, err)
	require.Empty(t, before)

	wordUUID, err := dictionary.ApplyWord(context.Background(), testWordProperty())
	require.NoError(t, err)
	require.NotEmpty(t, wordUUID)

	after, err := dictionary.ListWords()
	require.NoError(t, err)
	require.Len(t, after, 1)

	word, exists := after[wordUUID]
	require.True(t, exists)
	assert.Equal(t, "テスト", word.Surface)
	assert.Equal(t, 3, word.MoraCount)
	assert.Equal(t, userdict.DefaultPriority, word.Priority)
}

func TestUserDictionary_ApplyWordInvalidProperty(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	property := testWordProperty()
	property.Pronunciation = "not katakana"

	_, err := dictionary.ApplyWord(context.Background(), property)
	require.ErrorIs(t, err, userdict.ErrInvalidWord)

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestUserDictionary_RewriteWord(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	wordUUID, err := dictionary.ApplyWord(context.Background(), testWordProperty())
	require.NoError(t, err)

	updated := testWordProperty()
	updated.Pronunciation = "トーキョー"
	updated.Surface = "東京"
	updated.AccentType = 0

	require.NoError(t, dictionary.RewriteWord(context.Background(), wordUUID, updated))

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "東京", words[wordUUID].Surface)
	assert.Equal(t, 4, words[wordUUID].MoraCount)
}

func TestUserDictionary_RewriteWordNotFound(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	err := dictionary.RewriteWord(context.Background(), uuid.NewString(), testWordProperty())
	require.ErrorIs(t, err, userdict.ErrWordNotFound)
}

func TestUserDictionary_DeleteWord(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	wordUUID, err := dictionary.ApplyWord(context.Background(), testWordProperty())
	require.NoError(t, err)

	require.NoError(t, dictionary.DeleteWord(context.Background(), wordUUID))

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	assert.Empty(t, words)

	// Deleting the same word again reports not-found.
	err = dictionary.DeleteWord(context.Background(), wordUUID)
	require.ErrorIs(t, err, userdict.ErrWordNotFound)
}

func TestUserDictionary_ImportWordsKeepExisting(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	wordUUID, err := dictionary.ApplyWord(context.Background(), testWordProperty())
	require.NoError(t, err)

	incomingWord, err := userdict.NewWord(userdict.WordProperty{
		Surface:       "衝突",
		Pronunciation: "ショウトツ",
		AccentType:    0,
		WordType:      userdict.WordTypeCommonNoun,
		Priority:      3,
	})
	require.NoError(t, err)

	err = dictionary.ImportWords(
		context.Background(),
		map[string]userdict.Word{wordUUID: incomingWord},
		false,
	)
	require.NoError(t, err)

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "テスト", words[wordUUID].Surface)
}

func TestUserDictionary_ImportWordsOverride(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	wordUUID, err := dictionary.ApplyWord(context.Background(), testWordProperty())
	require.NoError(t, err)

	incomingWord, err := userdict.NewWord(userdict.WordProperty{
		Surface:       "衝突",
		Pronunciation: "ショウトツ",
		AccentType:    0,
		WordType:      userdict.WordTypeCommonNoun,
		Priority:      3,
	})
	require.NoError(t, err)

	err = dictionary.ImportWords(
		context.Background(),
		map[string]userdict.Word{wordUUID: incomingWord},
		true,
	)
	require.NoError(t, err)

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "衝突", words[wordUUID].Surface)
}

func TestUserDictionary_ImportWordsAllOrNothing(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	valid, err := userdict.NewWord(testWordProperty())
	require.NoError(t, err)

	incoming := make(map[string]userdict.Word, 11)
	for range 10 {
		incoming[uuid.NewString()] = valid
	}

	invalid := valid
	invalid.AccentAssociativeRule = "C9"
	incoming[uuid.NewString()] = invalid

	err = dictionary.ImportWords(context.Background(), incoming, true)
	require.ErrorIs(t, err, userdict.ErrInvalidWord)

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestUserDictionary_ImportWordsInvalidUUID(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	word, err := userdict.NewWord(testWordProperty())
	require.NoError(t, err)

	err = dictionary.ImportWords(
		context.Background(),
		map[string]userdict.Word{"not-a-uuid": word},
		true,
	)
	require.ErrorIs(t, err, userdict.ErrInvalidWord)
}

func TestUserDictionary_ConcurrentApplyWord(t *testing.T) {
	t.Parallel()

	dictionary := newTestDictionary(t)

	const workers = 50

	uuids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			uuids[i], errs[i] = dictionary.ApplyWord(context.Background(), testWordProperty())
		}()
	}

	wg.Wait()

	seen := make(map[string]struct{}, workers)

	for i := range workers {
		require.NoError(t, errs[i])
		require.NotEmpty(t, uuids[i])

		_, duplicate := seen[uuids[i]]
		require.False(t, duplicate, "duplicate uuid %s", uuids[i])

		seen[uuids[i]] = struct{}{}
	}

	words, err := dictionary.ListWords()
	require.NoError(t, err)
	assert.Len(t, words, workers)
}
