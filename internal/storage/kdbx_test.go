package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/storage"
)

const testKdbxPassword = "password123"

func TestKdbxStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.kdbx")

	store, err := storage.OpenKdbxStore(path, testKdbxPassword)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "файл должен быть создан сразу")

	_, found, err := store.Get("user")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put("user", []byte(`{"token":"abc"}`)))
	require.NoError(t, store.Put("other", []byte("x")))
	require.NoError(t, store.Delete("other"))
	require.NoError(t, store.Close())

	reopened, err := storage.OpenKdbxStore(path, testKdbxPassword)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get("user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"token":"abc"}`, string(value))

	_, found, err = reopened.Get("other")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKdbxStore_FailedSaveKeepsPreviousValue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store, err := storage.OpenKdbxStore(filepath.Join(dir, "session.kdbx"), testKdbxPassword)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("user", []byte("old")))
	require.NoError(t, store.Put("other", []byte("x")))

	// Без каталога временный файл не создать, сохранение падает
	require.NoError(t, os.RemoveAll(dir))

	require.Error(t, store.Put("user", []byte("new")))
	value, found, err := store.Get("user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "old", string(value), "несохраненное значение не видно через Get")

	require.Error(t, store.Put("fresh", []byte("y")))
	_, found, err = store.Get("fresh")
	require.NoError(t, err)
	assert.False(t, found)

	require.Error(t, store.Delete("other"))
	value, found, err = store.Get("other")
	require.NoError(t, err)
	assert.True(t, found, "неудачное удаление не убирает ключ")
	assert.Equal(t, "x", string(value))
}

func TestKdbxStore_Errors(t *testing.T) {
	t.Run("Пустой пароль", func(t *testing.T) {
		_, err := storage.OpenKdbxStore(filepath.Join(t.TempDir(), "s.kdbx"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "пароль KDBX не может быть пустым")
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "s.kdbx")
		store, err := storage.OpenKdbxStore(path, testKdbxPassword)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		_, err = storage.OpenKdbxStore(path, "wrong-password")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка дешифрования файла")
	})

	t.Run("Закрытое хранилище", func(t *testing.T) {
		store, err := storage.OpenKdbxStore(filepath.Join(t.TempDir(), "s.kdbx"), testKdbxPassword)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		_, _, err = store.Get("user")
		require.ErrorIs(t, err, storage.ErrClosed)
		require.ErrorIs(t, store.Put("user", nil), storage.ErrClosed)
	})

	t.Run("Недопустимый ключ", func(t *testing.T) {
		store, err := storage.OpenKdbxStore(filepath.Join(t.TempDir(), "s.kdbx"), testKdbxPassword)
		require.NoError(t, err)
		defer store.Close()
		require.ErrorIs(t, store.Put("../x", nil), storage.ErrInvalidKey)
	})
}
