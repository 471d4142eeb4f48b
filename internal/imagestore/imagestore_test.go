package imagestore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	for _, name := range []string{"a.png", "a.JPG", "photo.jpeg", "x.Gif", "archive.tar.png"} {
		assert.True(t, Allowed(name), name)
	}
	for _, name := range []string{"png", "a.bmp", "a.png.exe", "noext", "a.", ""} {
		assert.False(t, Allowed(name), name)
	}
}

func TestKeySanitizesAndSuffixes(t *testing.T) {
	key, err := Key("../../etc/My Poster!.PNG")
	require.NoError(t, err)

	assert.Equal(t, key, filepath.Base(key))
	assert.True(t, strings.HasPrefix(key, "My_Poster-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	other, err := Key("../../etc/My Poster!.PNG")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	key, err = Key("...gif")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "image-"), key)
}

func TestSaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := New(dir)

	key, err := store.Save("poster.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Remove(key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, store.Remove(key), "removing twice is fine")
	assert.Error(t, store.Remove("../escape.png"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestSaveRejectsBeforeWriting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := New(dir)

	_, err := store.Save("script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, statErr := os.Stat(dir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "directory must not be created for rejected uploads")
}

func TestSaveCleansUpPartialWrite(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Save("poster.gif", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
