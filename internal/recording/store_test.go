package recording

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "vigil/pkg/domain-errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func save(t *testing.T, store *Store, name, content string) {
	t.Helper()
	stored, err := store.Save(name, strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, filepath.Base(name), stored)
}

func TestSaveAndList(t *testing.T) {
	store := newTestStore(t)

	save(t, store, "s1_interview_100.webm", "aaa")
	save(t, store, "s1_interview_200.mp4", "bbb")

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1_interview_100.webm", "s1_interview_200.mp4"}, names)
}

func TestListFiltersUnrecognizedExtensions(t *testing.T) {
	store := newTestStore(t)

	save(t, store, "s1_interview_100.webm", "aaa")
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(store.dir, "subdir.webm"), 0o755))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1_interview_100.webm"}, names)
}

func TestSaveFlattensPathTraversal(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Save("../../escape_interview_100.webm", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape_interview_100.webm", stored)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"escape_interview_100.webm"}, names)
}

func TestSaveRejectsEmptyName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("..", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeBadRequest))
}

func TestLatestPicksNewestCaptureTimestamp(t *testing.T) {
	store := newTestStore(t)

	save(t, store, "alice_interview_100.webm", "old")
	save(t, store, "alice_interview_200.webm", "new")
	save(t, store, "bob_interview_300.webm", "other")

	name, err := store.Latest("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice_interview_200.webm", name)
}

func TestLatestNoRecordings(t *testing.T) {
	store := newTestStore(t)
	save(t, store, "bob_interview_300.webm", "other")

	_, err := store.Latest("alice")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenReturnsSize(t *testing.T) {
	store := newTestStore(t)
	save(t, store, "s1_interview_100.webm", "hello")

	f, size, err := store.Open("s1_interview_100.webm")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(5), size)
}

func TestOpenMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Open("ghost.webm")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Open("../secret.webm")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeSessionRemovesOnlyOwnRecordings(t *testing.T) {
	store := newTestStore(t)

	save(t, store, "alice_interview_100.webm", "a")
	save(t, store, "alice_interview_200.webm", "b")
	save(t, store, "bob_interview_300.webm", "c")

	require.NoError(t, store.PurgeSession("alice"))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"bob_interview_300.webm"}, names)
}
