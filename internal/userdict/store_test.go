package userdict_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/lexicon-service/internal/userdict"
)

func newTestStore(t *testing.T) *userdict.Store {
	t.Helper()

	return userdict.NewStore(filepath.Join(t.TempDir(), "user_dict.json"))
}

func TestStore_ReadAllMissingFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	words, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	word, err := userdict.NewWord(testWordProperty())
	require.NoError(t, err)

	wordUUID := uuid.NewString()

	err = store.WriteAll(map[string]userdict.Word{wordUUID: word})
	require.NoError(t, err)

	words, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, word, words[wordUUID])
}

func TestStore_IdentifierStability(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	first, err := userdict.NewWord(testWordProperty())
	require.NoError(t, err)

	second := first
	second.Surface = "別語"

	original := map[string]userdict.Word{
		uuid.NewString(): first,
		uuid.NewString(): second,
	}

	require.NoError(t, store.WriteAll(original))

	// Read then write with no logical change must not move records between
	// identifiers.
	loaded, err := store.ReadAll()
	require.NoError(t, err)
	require.NoError(t, store.WriteAll(loaded))

	reloaded, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, original, reloaded)
}

func TestStore_ReadAllCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "user_dict.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := userdict.NewStore(path)

	_, err := store.ReadAll()
	require.ErrorIs(t, err, userdict.ErrCorruptStore)
}

func TestStore_ReadAllInvalidUUIDKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "user_dict.json")
	content := `{"not-a-uuid":{"surface":"テスト","context_id":1348,"cost":8609,` +
		`"part_of_speech":"名詞","part_of_speech_detail_1":"固有名詞",` +
		`"part_of_speech_detail_2":"一般","part_of_speech_detail_3":"*",` +
		`"inflectional_type":"*","inflectional_form":"*","stem":"*",` +
		`"yomi":"テスト","pronunciation":"テスト","accent_type":1,` +
		`"mora_count":3,"accent_associative_rule":"*"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := userdict.NewStore(path)

	_, err := store.ReadAll()
	require.ErrorIs(t, err, userdict.ErrCorruptStore)
}

func TestStore_MutateErrorWritesNothing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	word, err := userdict.NewWord(testWordProperty())
	require.NoError(t, err)

	wordUUID := uuid.NewString()
	require.NoError(t, store.WriteAll(map[string]userdict.Word{wordUUID: word}))

	errBoom := errors.New("boom")

	err = store.Mutate(func(words map[string]userdict.Word) error {
		delete(words, wordUUID)

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	words, err := store.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, words, wordUUID)
}
